package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
)

func TestCronSecretMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		authHeader     string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "correct secret passes",
			secret:         "cron-secret",
			authHeader:     "Bearer cron-secret",
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "wrong secret rejected",
			secret:         "cron-secret",
			authHeader:     "Bearer wrong",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing header rejected",
			secret:         "cron-secret",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty configured secret always rejects",
			secret:         "",
			authHeader:     "Bearer ",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { called = true })
			mw := middlewarectx.CronSecretMiddleware(tt.secret, newNoopLogger())

			req := httptest.NewRequest(http.MethodPost, "/cron/renewal-reminders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
