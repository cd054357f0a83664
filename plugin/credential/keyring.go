package credential

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// DefaultKeyringService is the keyring service name credentials are filed under.
const DefaultKeyringService = "mytime"

var (
	keyringSet = keyring.Set
	keyringGet = keyring.Get
)

// KeyringStore keeps the credential in the operating system keyring.
type KeyringStore struct {
	Service string
	User    string
}

// NewKeyringStore creates a keyring-backed store for the given employee.
func NewKeyringStore(user string) *KeyringStore {
	return &KeyringStore{
		Service: DefaultKeyringService,
		User:    user,
	}
}

// Load reads the stored credential.
func (k *KeyringStore) Load(_ context.Context) (*oauth2.Token, error) {
	secret, err := keyringGet(k.Service, k.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to read credential from keyring")
	}

	token := Parse(secret)
	if token == nil {
		return nil, ErrNotFound
	}
	return token, nil
}

// Save writes token to the keyring.
func (k *KeyringStore) Save(_ context.Context, token *oauth2.Token) error {
	if err := keyringSet(k.Service, k.User, Header(token)); err != nil {
		return errors.Wrap(err, "failed to write credential to keyring")
	}
	return nil
}

var _ Store = (*KeyringStore)(nil)
