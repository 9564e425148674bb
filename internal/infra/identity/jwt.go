package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"stayfinder/internal/app/policies"
)

var (
	ErrInvalidToken = errors.New("identity: invalid token")
	ErrNoSubject    = errors.New("identity: token carries no user id")
)

// JWTResolver extracts the guest identifier from the HS256 session
// credential issued by the auth collaborator. The token carries the user id
// in a "userId" claim; "sub" is accepted as a fallback.
type JWTResolver struct {
	Secret []byte
}

// Resolve validates the credential and returns the guest id.
func (r JWTResolver) Resolve(ctx context.Context, credential string) (string, error) {
	token, err := jwt.Parse(credential, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return r.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if id, ok := claims["userId"].(string); ok && id != "" {
		return id, nil
	}
	if sub, _ := claims.GetSubject(); sub != "" {
		return sub, nil
	}
	return "", ErrNoSubject
}

var _ policies.IdentityPort = JWTResolver{}
