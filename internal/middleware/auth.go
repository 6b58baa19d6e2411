package middleware

import (
	"context"
	"net/http"
	"strings"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// AuthMiddleware resolves the bearer token to a live session and rejects
// requests without one.
func AuthMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			session, err := authService.CurrentSession(r.Context(), parts[1])
			if err != nil {
				respondError(w, "Backend unavailable", http.StatusServiceUnavailable)
				return
			}
			if session == nil {
				respondError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the resolved session from context
func GetSession(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	session := GetSession(ctx)
	if session == nil {
		return ""
	}
	return session.UserID
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
