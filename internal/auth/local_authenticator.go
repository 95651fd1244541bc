package auth

import (
	"net/http"
	"strings"
)

// LocalAuthenticator validates the bearer tokens issued by the login
// endpoint and injects the user into the request context. A rejected token
// tells the caller to drop its session and re-authenticate.
type LocalAuthenticator struct {
	tokens *TokenManager
}

func NewLocalAuthenticator(tokens *TokenManager) (*LocalAuthenticator, error) {
	return &LocalAuthenticator{tokens: tokens}, nil
}

func (a *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if !strings.HasPrefix(accessToken, "Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		accessToken = strings.TrimPrefix(accessToken, "Bearer ")
		user, err := a.tokens.Verify(accessToken)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
