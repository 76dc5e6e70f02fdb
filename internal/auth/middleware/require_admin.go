package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"kuku/internal/auth/token"
	"kuku/internal/commons"
	apperrors "kuku/internal/errors"
)

type TokenValidator interface {
	Validate(raw string) (*token.Claims, error)
}

// RequireAdmin admits requests carrying a valid admin bearer token. A valid
// token without the admin role gets 403. With disabled set every request
// passes.
func RequireAdmin(validator TokenValidator, disabled bool, logger *zap.Logger) func(http.Handler) http.Handler {
	if disabled {
		logger.Warn("admin authentication is disabled")
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				commons.WriteError(w, r, apperrors.NewAuthError("missing bearer token"), logger)
				return
			}

			claims, err := validator.Validate(strings.TrimSpace(raw))
			if err != nil {
				commons.WriteError(w, r, err, logger)
				return
			}

			if claims.Role != token.RoleAdmin {
				commons.WriteError(w, r, apperrors.NewForbiddenError("admin role required"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
