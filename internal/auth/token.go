// Package auth issues and verifies access tokens and manages user accounts.
package auth

import (
	"errors"
	"time"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by an access token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Generate issues a signed JWT string for user.
func (t *TokenManager) Generate(user model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Validate verifies a token and returns the actor it identifies.
// Every failure maps to model.ErrUnauthenticated.
func (t *TokenManager) Validate(tokenString string) (*access.Actor, error) {
	if tokenString == "" {
		return nil, model.ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(model.ErrUnauthenticated, err)
	}

	role, ok := access.ParseRole(claims.Role)
	if !ok || claims.Username == "" {
		return nil, model.ErrUnauthenticated
	}

	return &access.Actor{Username: claims.Username, Role: role}, nil
}
