package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/auth"
)

// Мок для Service
type LoginServiceMock struct {
	mock.Mock
}

func (m *LoginServiceMock) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == middlewarectx.SessionCookie {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	activeUser := &models.User{
		UID:       "user-uid-1",
		Email:     "test@example.com",
		FirstName: "Jean",
		LastName:  "Dupont",
		Role:      models.RoleMember,
		Status:    models.StatusActive,
		Locale:    "fr",
	}
	pendingUser := &models.User{
		UID:    "user-uid-2",
		Email:  "pending@example.com",
		Status: models.StatusPending,
	}

	tests := []struct {
		name           string
		body           string
		setupMocks     func(s *LoginServiceMock)
		wantStatusCode int
		wantCookie     bool
	}{
		{
			name: "successful login sets session cookie",
			body: `{"email":"test@example.com","password":"password123"}`,
			setupMocks: func(s *LoginServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "password123").
					Return("jwt-token-123", activeUser, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name: "wrong credentials",
			body: `{"email":"test@example.com","password":"wrongpassword"}`,
			setupMocks: func(s *LoginServiceMock) {
				s.On("Login", mock.Anything, "test@example.com", "wrongpassword").
					Return("", nil, services.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "pending account rejected",
			body: `{"email":"pending@example.com","password":"password123"}`,
			setupMocks: func(s *LoginServiceMock) {
				s.On("Login", mock.Anything, "pending@example.com", "password123").
					Return("jwt-token-456", pendingUser, nil).Once()
			},
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "invalid json",
			body:           `{not json`,
			setupMocks:     func(_ *LoginServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "password too short",
			body:           `{"email":"test@example.com","password":"short"}`,
			setupMocks:     func(_ *LoginServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(LoginServiceMock)
			tt.setupMocks(svc)
			h := login.New(newNoopLogger(), svc, false)

			req := httptest.NewRequest(http.MethodPost, "/api/login",
				bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			cookie := sessionCookie(rec.Result())
			if tt.wantCookie {
				require.NotNil(t, cookie)
				assert.Equal(t, "jwt-token-123", cookie.Value)
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
				assert.Equal(t, "/", cookie.Path)
			} else {
				assert.Nil(t, cookie)
			}

			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_ResponseBody(t *testing.T) {
	activeUser := &models.User{
		UID:       "user-uid-1",
		Email:     "test@example.com",
		FirstName: "Jean",
		Role:      models.RoleMember,
		Status:    models.StatusActive,
		Locale:    "fr",
	}
	svc := new(LoginServiceMock)
	svc.On("Login", mock.Anything, "test@example.com", "password123").
		Return("jwt-token-123", activeUser, nil).Once()
	h := login.New(newNoopLogger(), svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		bytes.NewBufferString(`{"email":"test@example.com","password":"password123"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	var got struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, "user-uid-1", got.Data["user_uid"])
	assert.Equal(t, models.RoleMember, got.Data["role"])
	assert.NotContains(t, rec.Body.String(), "jwt-token-123",
		"session token must live in the cookie only")
}
