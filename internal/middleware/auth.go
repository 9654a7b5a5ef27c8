package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iyunix/go-saber/internal/auth"
)

// TokenVerifier turns a bearer token into the caller's claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// NewJWTMiddleware requires a bearer token. A missing token is 401, an
// invalid or expired one is 403.
func NewJWTMiddleware(verifier TokenVerifier, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Access token required.")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("rejected token", "path", r.URL.Path, "error", err)
				writeJSONError(w, http.StatusForbidden, "Invalid or expired token.")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ClaimsFromContext returns the claims stored by NewJWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
