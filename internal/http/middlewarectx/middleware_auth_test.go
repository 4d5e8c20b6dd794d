package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Мок для Service
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (string, string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJWTMiddleware(t *testing.T) {
	authMock := new(AuthServiceMock)
	mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())

	tests := []struct {
		name           string
		cookie         string
		authHeader     string
		mockUID        string
		mockRole       string
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "valid token in cookie",
			cookie:         "good-token",
			mockUID:        "user-uid-1",
			mockRole:       models.RoleMember,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "valid token in bearer header",
			authHeader:     "Bearer good-token",
			mockUID:        "user-uid-1",
			mockRole:       models.RoleMember,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "cookie wins over header",
			cookie:         "good-token",
			authHeader:     "Bearer other-token",
			mockUID:        "user-uid-1",
			mockRole:       models.RoleMember,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "missing token",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			cookie:         "bad-token",
			mockErr:        errors.New("signature is invalid"),
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			if tt.cookie != "" || tt.authHeader != "" {
				token := tt.cookie
				if token == "" {
					token = "good-token"
				}
				authMock.On("ValidateToken", mock.Anything, token).
					Return(tt.mockUID, tt.mockRole, tt.mockErr).Once()
			}

			called := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, tt.mockUID, r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, tt.mockRole, r.Context().Value(middlewarectx.Role))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middlewarectx.SessionCookie, Value: tt.cookie})
			}
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

func TestAdminOnlyMiddleware(t *testing.T) {
	mw := middlewarectx.AdminOnlyMiddleware(newNoopLogger())

	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "admin passes", role: models.RoleAdmin, wantStatusCode: http.StatusOK, wantCalled: true},
		{name: "member rejected", role: models.RoleMember, wantStatusCode: http.StatusForbidden},
		{name: "no role in context", role: nil, wantStatusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.role != nil {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Role, tt.role))
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
