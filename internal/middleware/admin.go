package middleware

import (
	"net/http"
	"strings"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/transport"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuth lets a request through when it carries the admin secret in
// X-Admin-Key, or an admin access token as a bearer token or cookie.
func AdminAuth(secret *auth.Secret, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secret.Configured() && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if key := r.Header.Get(AdminKeyHeader); key != "" && secret.Verify(key) {
				next.ServeHTTP(w, r)
				return
			}

			if manager != nil {
				if token := accessToken(r); token != "" {
					claims, err := manager.Parse(token)
					if err == nil && claims.Role == auth.RoleAdmin && claims.Kind == auth.KindAccess {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
		})
	}
}

func accessToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(auth.AccessCookie); err == nil {
		return cookie.Value
	}
	return ""
}
