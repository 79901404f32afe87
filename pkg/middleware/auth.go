package middleware

import (
	"errors"
	"net/http"
	"strings"

	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

// StaffAuth rejects requests without a valid staff bearer token.
func StaffAuth(tokens *utils.TokenManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				logger.Warn("Rejected staff token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				if errors.Is(err, utils.ErrExpiredToken) {
					utils.ResponseUnauthorized(w, "Token expired")
					return
				}
				utils.ResponseUnauthorized(w, "Invalid token")
				return
			}

			ctx := utils.SetStaffContext(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
