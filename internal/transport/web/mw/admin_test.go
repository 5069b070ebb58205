package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminOnly(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	cases := []struct {
		name      string
		confToken string
		reqToken  string
		want      int
	}{
		{"ok", "s3cret", "s3cret", http.StatusOK},
		{"wrong token", "s3cret", "nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"empty config closes route", "", "", http.StatusUnauthorized},
		{"empty config rejects any token", "", "anything", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := AdminOnly(tc.confToken, next)
			r := httptest.NewRequest(http.MethodPost, "/v1/products", nil)
			if tc.reqToken != "" {
				r.Header.Set("X-Admin-Token", tc.reqToken)
			}
			w := httptest.NewRecorder()
			h(w, r)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRequestIDRoundtrip(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromCtx(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	// без заголовка — генерируется новый
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	assert.NotEmpty(t, w2.Header().Get("X-Request-ID"))
}
