package service

import (
	"context"
	"errors"

	"github.com/gof-esteira/oficios-api/internal/auth"
	"github.com/gof-esteira/oficios-api/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService exchanges console credentials for session tokens. Every
// failure mode collapses into ErrUnauthorized so the response never tells
// an attacker whether the username exists.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenManager
}

func NewAuthService(store store.Store, tokens *auth.TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

type Session struct {
	Token string
	User  auth.User
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, NewErrUnauthorized()
	}

	user, err := s.store.User().Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrUnauthorized()
		}
		return nil, err
	}

	if !user.Active {
		zap.S().Named("auth").Infow("login attempt on inactive account", "username", username)
		return nil, NewErrUnauthorized()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewErrUnauthorized()
	}

	identity := auth.User{
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, err
	}

	zap.S().Named("auth").Infow("user logged in", "username", username)
	return &Session{Token: token, User: identity}, nil
}
