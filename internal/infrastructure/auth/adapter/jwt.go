package adapter

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"kachat/internal/infrastructure/auth/port"
)

// JWTVerifier validates HMAC-signed tokens carrying the user id and handle.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret is empty")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

var _ port.Verifier = (*JWTVerifier)(nil)

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token. The user id travels in the standard
// subject claim; the handle in a username claim, matching the issuing service.
func (v *JWTVerifier) Verify(_ context.Context, credential string) (port.Identity, error) {
	if credential == "" {
		return port.Identity{}, port.ErrInvalidToken
	}

	var c claims
	token, err := jwt.ParseWithClaims(credential, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return port.Identity{}, port.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return port.Identity{}, port.ErrInvalidToken
	}

	return port.Identity{UserID: userID, Handle: c.Username}, nil
}
