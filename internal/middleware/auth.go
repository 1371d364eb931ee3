package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/goalaura-backend/internal/response"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient      TokenVerifier
	ResponseHandler response.ResponseHandler
}

func NewMiddleware(client TokenVerifier, rh response.ResponseHandler) *Middleware {
	return &Middleware{AuthClient: client, ResponseHandler: rh}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	EmailKey contextKey = "email"
)

const codeUnauthorized = "unauthorized"

// Main middleware
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, codeUnauthorized, "missing Authorization header")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid Authorization header")
			return
		}

		tokenStr := parts[1]

		// Verify ID Token
		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			logger.FromContext(r.Context()).Warn("id token rejected", "error", err)
			m.ResponseHandler.WriteError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
			return
		}

		email, _ := token.Claims["email"].(string)

		// Add identity to context and the request logger
		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		ctx = context.WithValue(ctx, EmailKey, email)
		_, ctx = logger.With(ctx, "uid", token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Email(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}
