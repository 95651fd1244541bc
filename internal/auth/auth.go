package auth

import (
	"net/http"

	"github.com/gof-esteira/oficios-api/internal/config"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

func NewAuthenticator(authConfig config.Auth, tokens *TokenManager) (Authenticator, error) {
	if authConfig.TokenSigningKey == "" {
		zap.S().Named("auth").Warn("no signing key configured, authentication disabled")
		return NewNoneAuthenticator()
	}

	zap.S().Named("auth").Info("authentication: local tokens")
	return NewLocalAuthenticator(tokens)
}
