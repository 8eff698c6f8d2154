package middleware

import (
	"net/http"

	"onboardhq-backend/pkg/auth"
	"onboardhq-backend/pkg/common"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token and attaches the caller
// identity to the request context.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			claims, err := validator.ValidateToken(header)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			ctx := auth.WithUser(r.Context(), auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Roles:  claims.Roles,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit enforces the per-user request budget. If the check itself
// fails the request is allowed through rather than failing the API on
// a limiter outage.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limit check failed", zap.Error(err))
				allowed = true
			}
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
