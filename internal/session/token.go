package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired inspects a bearer token's exp claim without verifying the
// signature (the client never holds the signing key; the service remains
// the authority). It reports true only for tokens that are certainly
// expired, so malformed or claim-less tokens still go through a real
// hydration attempt.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
