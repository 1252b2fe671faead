package httpx

import (
	"context"
	"net/http"
)

// Identity comes from the upstream auth layer as trusted headers; this service
// never sees tokens.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

type ctxKey int

const userIDKey ctxKey = iota

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(headerUserID)
		if uid == "" {
			respondFail(w, http.StatusUnauthorized, "missing user identity", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, uid)))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserRole) != "admin" {
			respondFail(w, http.StatusForbidden, "admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	uid, _ := r.Context().Value(userIDKey).(string)
	return uid
}
