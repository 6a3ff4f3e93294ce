package middleware

import (
	"context"
	"net/http"

	"leetracker/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			if err := utils.RequireAdminClaims(claims); err != nil {
				utils.JSONError(w, http.StatusForbidden, "forbidden", err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaims returns the claims stored by RequireAdmin, nil outside it.
func AdminClaims(r *http.Request) jwt.MapClaims {
	claims, _ := r.Context().Value(adminClaimsKey).(jwt.MapClaims)
	return claims
}
