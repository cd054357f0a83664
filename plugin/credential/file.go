package credential

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
)

// credentialFile is the on-disk layout of the credential file.
//
//	[default]
//	bearer = "Bearer eyJ..."
type credentialFile struct {
	Default struct {
		Bearer string `toml:"bearer"`
	} `toml:"default"`
}

// FileStore keeps the credential in a TOML file.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed store at path on fs.
// A nil fs uses the operating system filesystem.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{fs: fs, path: path}
}

// Load reads the stored credential. A missing file or empty bearer yields ErrNotFound.
func (s *FileStore) Load(_ context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read credential file %s", s.path)
	}

	var file credentialFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse credential file %s", s.path)
	}

	token := Parse(file.Default.Bearer)
	if token == nil {
		return nil, ErrNotFound
	}
	return token, nil
}

// Save writes token to the file, creating parent directories as needed.
func (s *FileStore) Save(_ context.Context, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var file credentialFile
	file.Default.Bearer = Header(token)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(file); err != nil {
		return errors.Wrap(err, "failed to encode credential file")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "failed to create credential directory for %s", s.path)
	}
	if err := afero.WriteFile(s.fs, s.path, buf.Bytes(), 0o600); err != nil {
		return errors.Wrapf(err, "failed to write credential file %s", s.path)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
