package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/member-hub/memberhub/internal/identity"
)

// ErrInvalidToken is returned for any token that fails verification. Expired,
// malformed, and badly signed tokens are deliberately indistinguishable so a
// caller cannot probe why a token was rejected.
var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issuer signs and verifies session tokens. The secret key is fixed at
// construction and never rotated mid-process. No token state is kept server
// side; logout is a client-side discard.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an issuer with the given signing key and token lifetime.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue creates a signed HS256 token carrying subject, role, issue time and
// expiry.
func (i *Issuer) Issue(subject string, role identity.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Role: string(role),
	})
	return token.SignedString(i.secret)
}

// Verify parses and validates a token, returning its subject and role.
// Verification fails closed: every failure mode yields ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (string, identity.Role, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, identity.ParseRole(claims.Role), nil
}
