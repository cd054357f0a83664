package schedule

import (
	"context"
	stderrors "errors"

	"golang.org/x/oauth2"

	"github.com/stekc/myTimeAPI/plugin/credential"
	"github.com/stekc/myTimeAPI/server/internal/errors"
)

// EnsureValidToken probes the current credential and, when the API rejects
// it, reacquires one. Reacquisition is attempted once per call; concurrent
// callers share the attempt. A credential whose expiry has already passed is
// not probed.
func (s *service) EnsureValidToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := s.deps.Tokens.CurrentToken(ctx)
	if err != nil && !stderrors.Is(err, credential.ErrNotFound) {
		s.log(ctx).Error("failed to load credential", "error", err)
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load credential")
	}

	switch {
	case token == nil:
		s.log(ctx).Warn("no stored token, generating new token")
	case credential.Expired(token, s.clock.Now()):
		s.log(ctx).Warn("token expired, generating new token", "expiry", token.Expiry)
	default:
		ok, err := s.deps.Tokens.Probe(ctx, token)
		if err != nil {
			s.log(ctx).Error("token probe failed", "error", err)
			return nil, transportError(ctx, "token probe", err)
		}
		if ok {
			s.log(ctx).Debug("existing token valid")
			return token, nil
		}
		s.log(ctx).Warn("token invalid, generating new token")
	}

	fresh, _, err := shared(ctx, &s.flight, reacquireKey, s.reacquireTimeout, s.reacquire)
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *service) reacquire(ctx context.Context) (*oauth2.Token, error) {
	fresh, err := s.deps.Tokens.Reacquire(ctx)
	if err != nil {
		s.log(ctx).Error("token acquisition failed", "error", err)
		return nil, errors.Wrap(err, errors.ErrCodeUnauthenticated, "authentication failed")
	}

	ok, err := s.deps.Tokens.Probe(ctx, fresh)
	if err != nil {
		s.log(ctx).Error("new token probe failed", "error", err)
		return nil, transportError(ctx, "token probe", err)
	}
	if !ok {
		s.log(ctx).Error("new token invalid")
		return nil, errors.Unauthenticated("authentication failed")
	}

	s.log(ctx).Info("new token valid, saving credential")
	if err := s.deps.Credentials.Save(ctx, fresh); err != nil {
		s.log(ctx).Error("failed to save credential", "error", err)
	}
	return fresh, nil
}
