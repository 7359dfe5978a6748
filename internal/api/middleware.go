package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/boardtrack/internal/auth"
	"github.com/erazemk/boardtrack/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenMiddleware parses an optional role token from the Authorization
// header and adds its claims to the context. Requests without a token (or
// with an invalid one) proceed as an anonymous viewer; the token only
// carries a declared name and role, it does not gate access to reads.
func TokenMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
				if err == nil {
					r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireEditor rejects requests whose declared role may not mutate
// inventory. Anonymous requests count as viewers.
func RequireEditor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil || !model.RoleCanEdit(claims.Role) {
			jsonError(w, http.StatusForbidden, "viewer role is read-only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the role token claims from the context, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// actor returns the display name to record in audit log entries.
func actor(r *http.Request) string {
	if claims := GetClaims(r.Context()); claims != nil && claims.Name != "" {
		return claims.Name
	}
	return "Unknown"
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond).String(),
		)
	})
}
