package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/harsh-0015/freelance-tracker/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// FreelancerIDKey is the context key for storing the authenticated freelancer ID.
const FreelancerIDKey contextKey = "freelancer_id"

// GetFreelancerID extracts the freelancer ID from the context.
// Returns empty string if not found.
func GetFreelancerID(ctx context.Context) string {
	id, _ := ctx.Value(FreelancerIDKey).(string)
	return id
}

// WithFreelancerID returns a copy of ctx carrying the freelancer ID.
func WithFreelancerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, FreelancerIDKey, id)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns a middleware that validates JWT tokens and requires authentication.
// CORS preflight requests pass through unauthenticated.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				writeUnauthorized(w, err)
				return
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				writeUnauthorized(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithFreelancerID(r.Context(), claims.FreelancerID)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
