package mw

import (
	"crypto/subtle"
	"net/http"
)

// AdminOnly — middleware: сверяет X-Admin-Token со статическим токеном из конфига.
// Пустой токен в конфиге закрывает админские ручки полностью.
func AdminOnly(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"text":"unauthorized"}}`))
			return
		}
		next(w, r)
	}
}
