// Package session derives the caller's identity from the opaque bearer
// credential kept in the credential store. Decoding is local: the claims are
// extracted without signature verification, since the backend re-checks the
// credential on every data call and remains the enforcement point.
package session

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/Hanish3/college-portal/core"
)

// ErrCredentialDecode is returned when the credential is absent, malformed
// or structurally invalid. Callers must treat the session as
// unauthenticated and clear the stored credential.
var ErrCredentialDecode = errors.New("malformed credential")

// Claims represents the authorization claims transmitted via the bearer
// credential. Decoded once per view entry; never mutated.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name"`
	Role      string `json:"role"`
	Suspended bool   `json:"suspended"`
}

// Decode extracts the Claims encoded in raw. It is pure and idempotent:
// no network, same input always yields the same result. Expiry is NOT
// judged here; consumers check Claims.Expired against their own clock.
func Decode(raw string) (*Claims, error) {
	raw = core.CleanString(raw)
	if raw == "" {
		return nil, ErrCredentialDecode
	}
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return nil, ErrCredentialDecode
	}
	if claims.Subject == "" {
		return nil, ErrCredentialDecode
	}
	return claims, nil
}

// Expired reports whether the claims' expiry has passed at `now`.
// A zero expiry never expires (the issuer owns that policy).
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() >= c.ExpiresAt
}

// Store is the shared read-only credential store. Only logout clears it;
// nothing else mutates it.
type Store interface {
	// Get returns the raw credential, or false when absent.
	Get() (string, bool)
	Clear() error
}
