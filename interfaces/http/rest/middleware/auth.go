package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"recall-backend/infrastructure/config"
	"recall-backend/pkg/auth"
	"recall-backend/pkg/common"
)

// Authenticate creates an authentication middleware with JWT validation and
// per-IP rate limiting. In development, an X-User-ID header may stand in for
// a token.
func Authenticate(cfg *config.Config) func(next http.Handler) http.Handler {
	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		validator, _ = auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
	}

	ipLimiter := auth.NewTokenBucketLimiter(100, time.Minute/100)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _ := ipLimiter.Allow(r.Context(), clientIP(r))
			if !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rate limit exceeded")
				return
			}

			if cfg.IsDevelopment() {
				if devUser := r.Header.Get("X-User-ID"); devUser != "" {
					ctx := auth.WithUserContext(r.Context(), &auth.UserContext{
						UserID:          devUser,
						AuthenticatedAt: time.Now(),
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if validator == nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
				return
			}

			user, err := validator.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
				return
			}

			ctx := auth.WithUserContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
