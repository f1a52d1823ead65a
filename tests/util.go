package testutil

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/Hanish3/college-portal/core/session"
)

// NewClaims builds portal claims for a fresh random subject with the given role.
func NewClaims(role string, opts ...func(*session.Claims)) *session.Claims {
	now := time.Now()
	claims := &session.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    "CollegePortal",
			Subject:   uuid.New().String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		},
		Name: "Test User",
		Role: role,
	}
	for _, opt := range opts {
		opt(claims)
	}
	return claims
}

// Token signs claims into a raw credential the way the issuer does.
func Token(t *testing.T, claims *session.Claims, key ...string) string {
	t.Helper()
	k := "test-secret"
	if len(key) > 0 {
		k = key[0]
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(k))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return raw
}
