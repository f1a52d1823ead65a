package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hanish3/college-portal/core"
	"github.com/Hanish3/college-portal/core/session"
	"github.com/Hanish3/college-portal/storage/database"
)

// appJWTConfig is the default JWT auth middleware config. The mock
// server verifies signatures even though the client never does; the
// client treats the token as opaque and lets the server be the
// enforcement point.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "userToken",
	Claims:        new(session.Claims),
}

// userClaims builds the portal claims for an authenticated user.
func userClaims(usr database.User) *session.Claims {
	now := time.Now()
	return &session.Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   usr.ID.String(),
			ExpiresAt: now.Add(core.Conf.TokenExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      usr.Name,
		Role:      usr.Role,
		Suspended: usr.Suspended,
	}
}

func authenticate(ctx context.Context, username, password string, repo database.Repository) (*session.Claims, error) {
	usr, err := repo.GetUserByUsername(ctx, username)
	if err != nil {
		if err == database.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by username")
	}
	if bcrypt.CompareHashAndPassword(usr.PasswordHash, []byte(password)) != nil {
		return nil, errAuthenticationFailed
	}
	if usr.Suspended {
		return nil, errAccountSuspended
	}
	return userClaims(usr), nil
}

// GenerateToken signs a JWT token string representing the user Claims.
func GenerateToken(claims *session.Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	return ss, errors.Wrap(err, "signing token")
}

func getContextClaims(ctx echo.Context) (session.Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*session.Claims); ok {
			return *claims, nil
		}
	}
	return session.Claims{}, errUnauthorized
}
