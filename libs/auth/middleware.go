package auth

import (
	"net/http"
	"strings"
	"time"
)

// UserIDHeader carries the authenticated subject to handlers.
const UserIDHeader = "X-User-Id"

// Authenticate resolves the caller identity into the X-User-Id header.
//
// With a secret, a bearer token is verified and its subject replaces any client supplied
// header; requests without a token continue anonymously (guests may book). With an empty
// secret the service sits behind a gateway that already set X-User-Id, so the header is
// passed through untouched.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Del(UserIDHeader)

			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := ParseAndVerifyHS256(token, secret, time.Now())
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			r.Header.Set(UserIDHeader, claims.Sub)
			next.ServeHTTP(w, r)
		})
	}
}

// UserID returns the authenticated subject of r, or "" for anonymous callers.
func UserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserIDHeader))
}
