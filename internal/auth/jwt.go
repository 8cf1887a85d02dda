package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when a signer is built without a key
var ErrEmptySecret = errors.New("signing secret is required")

// ObjectClaims represents the claims of a download token
type ObjectClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// Signer issues and validates time-limited download tokens for stored objects
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner creates a signer using HS256 with the given secret
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: []byte(secret), now: time.Now}, nil
}

// SignObject generates a token granting read access to key for ttl
func (s *Signer) SignObject(key string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &ObjectClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateObject validates a token and returns the object key it grants
func (s *Signer) ValidateObject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ObjectClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("invalid download token: %w", err)
	}

	claims, ok := token.Claims.(*ObjectClaims)
	if !ok || !token.Valid || claims.Key == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return claims.Key, nil
}
