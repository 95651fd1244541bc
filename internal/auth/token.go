package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the HS256 session tokens handed out by
// the login endpoint.
type TokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenManager(signingKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{signingKey: []byte(signingKey), ttl: ttl}
}

type Claims struct {
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (t *TokenManager) Issue(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (t *TokenManager) Verify(tokenString string) (User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey, nil
	})
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}

	return User{
		Username: claims.Subject,
		FullName: claims.FullName,
		Role:     claims.Role,
	}, nil
}
