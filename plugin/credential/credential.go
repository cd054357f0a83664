// Package credential stores and refreshes the bearer credential presented to
// the employer API.
package credential

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotFound is returned when no credential has been stored yet.
var ErrNotFound = errors.New("credential not found")

// Store persists the bearer credential between runs.
type Store interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}

const bearerPrefix = "Bearer "

// Parse converts an Authorization header value into a token.
// The "Bearer " prefix is optional. When the credential is a JWT its exp
// claim becomes the token expiry; opaque credentials never expire locally.
func Parse(header string) *oauth2.Token {
	raw := strings.TrimSpace(header)
	if strings.EqualFold(raw, strings.TrimSpace(bearerPrefix)) {
		return nil
	}
	if len(raw) >= len(bearerPrefix) && strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		raw = strings.TrimSpace(raw[len(bearerPrefix):])
	}
	if raw == "" {
		return nil
	}

	token := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := expiry(raw); ok {
		token.Expiry = exp
	}
	return token
}

// Header formats token as an Authorization header value.
func Header(token *oauth2.Token) string {
	if token == nil || token.AccessToken == "" {
		return ""
	}
	return token.Type() + " " + token.AccessToken
}

// Expired reports whether the token carries an expiry at or before now.
func Expired(token *oauth2.Token, now time.Time) bool {
	if token == nil {
		return true
	}
	return !token.Expiry.IsZero() && !now.Before(token.Expiry)
}
