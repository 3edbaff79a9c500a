package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityVerifier resolves a bearer credential into the owner id of the
// authenticated principal. Tokens are issued elsewhere; this service only
// checks them.
type IdentityVerifier interface {
	Verify(token string) (string, error)
}

// JWTVerifier accepts HS256 tokens whose subject is the owner id.
type JWTVerifier struct {
	key      []byte
	issuer   string
	audience string
}

// NewJWTVerifier returns a verifier for tokens signed with secret. Empty
// issuer or audience disables the corresponding claim check.
func NewJWTVerifier(secret, issuer, audience string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret key must not be empty")
	}
	return &JWTVerifier{key: []byte(secret), issuer: issuer, audience: audience}, nil
}

func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
