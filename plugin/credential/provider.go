package credential

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNoAcquirer is returned by Reacquire when no acquisition command is configured.
var ErrNoAcquirer = fmt.Errorf("no token command configured")

// Prober issues a cheap authenticated request and reports its HTTP status.
type Prober interface {
	Probe(ctx context.Context, token *oauth2.Token) (int, error)
}

// Provider supplies, checks and refreshes the employer credential.
//
// Reacquisition runs an external command that performs the interactive or
// browser-driven login and prints the Authorization header (or bare token)
// on stdout. The command may take minutes; it is bounded only by ctx.
type Provider struct {
	store   Store
	prober  Prober
	command string
	logger  *slog.Logger

	// run is swapped in tests.
	run func(ctx context.Context, command string) ([]byte, error)
}

// NewProvider creates a credential provider.
func NewProvider(store Store, prober Prober, command string) *Provider {
	return &Provider{
		store:   store,
		prober:  prober,
		command: command,
		logger:  slog.Default(),
		run:     runCommand,
	}
}

// CurrentToken returns the stored credential.
func (p *Provider) CurrentToken(ctx context.Context) (*oauth2.Token, error) {
	return p.store.Load(ctx)
}

// Probe reports whether the employer API accepts token.
func (p *Provider) Probe(ctx context.Context, token *oauth2.Token) (bool, error) {
	status, err := p.prober.Probe(ctx, token)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	case http.StatusOK, http.StatusBadRequest:
		return true, nil
	default:
		return false, fmt.Errorf("token probe returned unexpected status %d", status)
	}
}

// Reacquire obtains a fresh credential by running the configured command.
func (p *Provider) Reacquire(ctx context.Context) (*oauth2.Token, error) {
	if strings.TrimSpace(p.command) == "" {
		return nil, ErrNoAcquirer
	}

	p.logger.Info("acquiring new token", "command", p.command)
	out, err := p.run(ctx, p.command)
	if err != nil {
		return nil, fmt.Errorf("token command failed: %w", err)
	}

	// The login helper may log before printing the header; the last line wins.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	token := Parse(lines[len(lines)-1])
	if token == nil {
		return nil, fmt.Errorf("token command printed no credential")
	}
	return token, nil
}

// Save persists token.
func (p *Provider) Save(ctx context.Context, token *oauth2.Token) error {
	return p.store.Save(ctx, token)
}

func runCommand(ctx context.Context, command string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}
