package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fintrack-app/fintrack/internal/auth"
	"github.com/fintrack-app/fintrack/internal/metrics"
	"github.com/fintrack-app/fintrack/internal/models"
	"github.com/fintrack-app/fintrack/internal/repo"
)

type key string

const identityKey key = "identity"

// Session resolves the bearer token on every request. A missing header is not
// an error: the request continues anonymous. A present token is verified and
// the live user row is looked up by the id claim (embedded claim fields are
// never treated as current truth). Verification or lookup failure also
// degrades to anonymous; rejecting is left to RequireIdentity on the routes
// that need an identity.
func Session(issuer *auth.TokenIssuer, users *repo.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

			claims, err := issuer.VerifyToken(tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					metrics.RecordTokenVerification("expired")
					slog.Warn("session token expired", "path", r.URL.Path)
				} else {
					metrics.RecordTokenVerification("invalid")
					slog.Warn("invalid session token", "path", r.URL.Path)
				}
				next.ServeHTTP(w, r)
				return
			}
			metrics.RecordTokenVerification("ok")

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if !errors.Is(err, repo.ErrNotFound) {
					slog.Error("session user lookup failed", "user_id", claims.UserID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated user attached by Session, if any.
func GetIdentity(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok
}

// WithIdentity attaches a user to the context. Exposed for handler tests.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// RequireIdentity gates protected operations: 401 when Session attached no identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
