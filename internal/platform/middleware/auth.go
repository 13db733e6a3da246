package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator checks the session layer's bearer token and extracts the
// principal id.
type TokenValidator interface {
	ValidateToken(tokenString string) (principalID string, err error)
}

type contextKeyPrincipalID struct{}

// GetPrincipalID retrieves the authenticated principal id from the context.
func GetPrincipalID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyPrincipalID{}).(string)
	return id
}

// WithPrincipalID injects a principal id; handler tests use it to skip the
// token dance.
func WithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyPrincipalID{}, id)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal id in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			principalID, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token validation failed",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipalID(r.Context(), principalID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}

// JWTValidator validates HMAC-signed session tokens. Token issuance lives
// in the external session layer; this side only verifies the signature and
// reads the subject.
type JWTValidator struct {
	signingKey []byte
}

func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

func (v *JWTValidator) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}
