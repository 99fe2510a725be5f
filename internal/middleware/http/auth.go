package middleware_http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/service"
)

type claimsKey struct{}

// TokenVerifier is satisfied by *service.TokenService.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*service.Claims, error)
}

// Authenticate rejects requests without a valid bearer token with 401 and
// attaches the decoded claims to the request context otherwise.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn(ctx, "unauthorized request")
				unauthorized(w, err)
				return
			}

			claims, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.Err(ctx, "token verification failed", err)
				if errors.Is(err, service.ErrTokenExpired) {
					unauthorized(w, service.ErrTokenExpired)
					return
				}
				unauthorized(w, service.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", service.ErrTokenMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", service.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", service.ErrTokenMalformed
	}
	return token, nil
}

func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return claims, ok && claims != nil
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
