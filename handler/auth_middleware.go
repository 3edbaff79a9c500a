package handler

import (
	"bank-ledger-api/common"
	"bank-ledger-api/service"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const OwnerIDKey contextKey = "ownerID"

// AuthMiddleware resolves the bearer token into an owner id and stores it
// in the request context under OwnerIDKey.
func AuthMiddleware(verifier service.IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
				err.Send(w)
				return
			}

			ownerID, err := verifier.Verify(headerParts[1])
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", err)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ownerFromContext returns the owner id set by AuthMiddleware.
func ownerFromContext(r *http.Request) (string, *common.AppError) {
	ownerID, ok := r.Context().Value(OwnerIDKey).(string)
	if !ok || ownerID == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid owner in token", nil)
	}
	return ownerID, nil
}
