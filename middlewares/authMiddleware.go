package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/helper"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/logging"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/repositories"
	"github.com/ramlakhangupta/City-Food-Explorer-Backend/services"
)

// Context keys to store user information
type contextKey string

const (
	EmailKey  contextKey = "email"
	UidKey    contextKey = "uid"
	CallerKey contextKey = "caller"
)

// Authentication verifies the bearer token and stores the caller's email
// and id in the request context.
func Authentication(tokens *helper.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientToken := r.Header.Get("Authorization")
			if clientToken == "" {
				writeError(w, http.StatusUnauthorized, "No Authorization header provided")
				return
			}

			// Token format should be "Bearer <token>"
			tokenParts := strings.Fields(clientToken)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization format")
				return
			}

			claims, err := tokens.ValidateToken(tokenParts[1])
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, helper.ErrTokenExpired) {
					msg = "Token has expired"
				}
				logging.Ctx(r.Context()).Debug().Err(err).Msg("bearer token rejected")
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), EmailKey, claims.Email)
			ctx = context.WithValue(ctx, UidKey, claims.Uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin lets the request through only when the authenticated caller
// is an admin. It must run after Authentication.
func RequireAdmin(users repositories.UserRepository, policy services.AdminPolicy) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, uid := GetUserFromContext(r)
			id, err := primitive.ObjectIDFromHex(uid)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			caller, err := users.FindByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					writeError(w, http.StatusUnauthorized, "User not found")
					return
				}
				logging.Ctx(r.Context()).Error().Err(err).Msg("admin check failed")
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			if !policy.IsAdmin(caller) {
				writeError(w, http.StatusForbidden, "Admin access required")
				return
			}

			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves user data from the request context
func GetUserFromContext(r *http.Request) (email, uid string) {
	email, _ = r.Context().Value(EmailKey).(string)
	uid, _ = r.Context().Value(UidKey).(string)
	return
}

// CallerFromContext returns the user loaded by RequireAdmin, if any.
func CallerFromContext(ctx context.Context) (*models.User, bool) {
	caller, ok := ctx.Value(CallerKey).(*models.User)
	return caller, ok
}
