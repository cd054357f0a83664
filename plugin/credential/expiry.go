package credential

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiry reads the exp claim of a JWT without verifying its signature.
// The employer signs its tokens; we only need to know when to stop trusting one.
func expiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
