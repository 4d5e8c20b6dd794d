package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/magabrotheeeer/membership-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-directory/internal/lib/password"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/auth"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) CreateProfile(ctx context.Context, p models.ProfessionalProfile) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) SaveResetToken(ctx context.Context, token, userUID string, expiresAt time.Time) error {
	args := m.Called(ctx, token, userUID, expiresAt)
	return args.Error(0)
}

func (m *UserRepoMock) ConsumeResetToken(ctx context.Context, token string, now time.Time) (string, error) {
	args := m.Called(ctx, token, now)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userUID, role string) (string, error) {
	args := m.Called(userUID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

// Мок для Notifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) SendPendingRegistration(u models.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *NotifierMock) SendAdminNewRegistration(u models.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *NotifierMock) SendPasswordReset(email, locale, token string) error {
	args := m.Called(email, locale, token)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthService_Register(t *testing.T) {
	memberInput := services.RegisterInput{
		Email:     "test@example.com",
		Password:  "password123",
		FirstName: "Jean",
		LastName:  "Dupont",
		Role:      models.RoleMember,
		Locale:    "fr",
	}

	tests := []struct {
		name        string
		input       services.RegisterInput
		setupMocks  func(r *UserRepoMock, n *NotifierMock)
		wantUserUID string
		wantErr     error
	}{
		{
			name:  "successful member registration",
			input: memberInput,
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.PasswordHash != "" &&
						user.Role == models.RoleMember &&
						user.Status == models.StatusPending
				})).Return("some-uuid-string", nil).Once()
				n.On("SendPendingRegistration", mock.Anything).Return(nil).Once()
				n.On("SendAdminNewRegistration", mock.Anything).Return(nil).Once()
			},
			wantUserUID: "some-uuid-string",
		},
		{
			name:  "email already taken",
			input: memberInput,
			setupMocks: func(r *UserRepoMock, _ *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").
					Return(&models.User{UID: "existing"}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:  "repository error",
			input: memberInput,
			setupMocks: func(r *UserRepoMock, _ *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "professional gets unpublished profile with slug",
			input: services.RegisterInput{
				Email:       "pro@example.com",
				Password:    "password123",
				FirstName:   "Jean",
				LastName:    "Dupont",
				Role:        models.RoleProfessional,
				Locale:      "fr",
				CompanyName: "Dupont SARL",
				CategoryID:  2,
				City:        "Lyon",
			},
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "pro@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("pro-uuid", nil).Once()
				r.On("SlugExists", mock.Anything, "jean-dupont").Return(false, nil).Once()
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.ProfessionalProfile) bool {
					return p.UserUID == "pro-uuid" &&
						p.Slug == "jean-dupont" &&
						p.CompanyName == "Dupont SARL" &&
						!p.IsPublished
				})).Return(int64(1), nil).Once()
				n.On("SendPendingRegistration", mock.Anything).Return(nil).Once()
				n.On("SendAdminNewRegistration", mock.Anything).Return(nil).Once()
			},
			wantUserUID: "pro-uuid",
		},
		{
			name: "slug collision gets numeric suffix",
			input: services.RegisterInput{
				Email:     "pro2@example.com",
				Password:  "password123",
				FirstName: "Jean",
				LastName:  "Dupont",
				Role:      models.RoleProfessional,
				Locale:    "fr",
			},
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "pro2@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("pro2-uuid", nil).Once()
				r.On("SlugExists", mock.Anything, "jean-dupont").Return(true, nil).Once()
				r.On("SlugExists", mock.Anything, "jean-dupont-1").Return(false, nil).Once()
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.ProfessionalProfile) bool {
					return p.Slug == "jean-dupont-1"
				})).Return(int64(2), nil).Once()
				n.On("SendPendingRegistration", mock.Anything).Return(nil).Once()
				n.On("SendAdminNewRegistration", mock.Anything).Return(nil).Once()
			},
			wantUserUID: "pro2-uuid",
		},
		{
			name: "slug insert race retries with next suffix",
			input: services.RegisterInput{
				Email:     "pro3@example.com",
				Password:  "password123",
				FirstName: "Jean",
				LastName:  "Dupont",
				Role:      models.RoleProfessional,
				Locale:    "fr",
			},
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "pro3@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("pro3-uuid", nil).Once()
				r.On("SlugExists", mock.Anything, "jean-dupont").Return(false, nil).Once()
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.ProfessionalProfile) bool {
					return p.Slug == "jean-dupont"
				})).Return(int64(0), &pgconn.PgError{Code: pgerrcode.UniqueViolation}).Once()
				r.On("CreateProfile", mock.Anything, mock.MatchedBy(func(p models.ProfessionalProfile) bool {
					return p.Slug == "jean-dupont-1"
				})).Return(int64(3), nil).Once()
				n.On("SendPendingRegistration", mock.Anything).Return(nil).Once()
				n.On("SendAdminNewRegistration", mock.Anything).Return(nil).Once()
			},
			wantUserUID: "pro3-uuid",
		},
		{
			name:  "email failures do not fail registration",
			input: memberInput,
			setupMocks: func(r *UserRepoMock, n *NotifierMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, storage.ErrNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("some-uuid-string", nil).Once()
				n.On("SendPendingRegistration", mock.Anything).Return(errors.New("smtp down")).Once()
				n.On("SendAdminNewRegistration", mock.Anything).Return(errors.New("smtp down")).Once()
			},
			wantUserUID: "some-uuid-string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			notifier := new(NotifierMock)
			svc := services.NewAuthService(repo, jwtMock, notifier, newNoopLogger())

			tt.setupMocks(repo, notifier)

			got, err := svc.Register(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"

	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testUser := &models.User{
		UID:          "user-uid-1",
		Email:        "test@example.com",
		PasswordHash: hashedPassword,
		Role:         models.RoleMember,
		Status:       models.StatusActive,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    bool
		errMsg     string
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateToken", "user-uid-1", models.RoleMember).Return("jwt-token-123", nil).Once()
			},
			wantToken: "jwt-token-123",
		},
		{
			name:     "user not found",
			email:    "nobody@example.com",
			password: "password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "token generation error",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(testUser, nil).Once()
				j.On("GenerateToken", "user-uid-1", models.RoleMember).Return("", errors.New("token error")).Once()
			},
			wantErr: true,
			errMsg:  "token error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			notifier := new(NotifierMock)
			svc := services.NewAuthService(repo, jwtMock, notifier, newNoopLogger())

			tt.setupMocks(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, "user-uid-1", user.UID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	notifier := new(NotifierMock)
	svc := services.NewAuthService(repo, jwtMock, notifier, newNoopLogger())

	jwtMock.On("ParseToken", "good-token").
		Return(&customjwt.CustomClaims{UserUID: "user-uid-1", Role: models.RoleAdmin}, nil).Once()
	jwtMock.On("ParseToken", "bad-token").
		Return(nil, errors.New("signature is invalid")).Once()

	uid, role, err := svc.ValidateToken(context.Background(), "good-token")
	assert.NoError(t, err)
	assert.Equal(t, "user-uid-1", uid)
	assert.Equal(t, models.RoleAdmin, role)

	_, _, err = svc.ValidateToken(context.Background(), "bad-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	jwtMock.AssertExpectations(t)
}

func TestAuthService_ResetPassword(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:  "successful reset",
			token: "valid-token",
			setupMocks: func(r *UserRepoMock) {
				r.On("ConsumeResetToken", mock.Anything, "valid-token", mock.Anything).
					Return("user-uid-1", nil).Once()
				r.On("UpdateUserPassword", mock.Anything, "user-uid-1", mock.AnythingOfType("string")).
					Return(nil).Once()
			},
		},
		{
			name:  "unknown or expired token",
			token: "stale-token",
			setupMocks: func(r *UserRepoMock) {
				r.On("ConsumeResetToken", mock.Anything, "stale-token", mock.Anything).
					Return("", storage.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(JwtMakerMock), new(NotifierMock), newNoopLogger())

			tt.setupMocks(repo)

			err := svc.ResetPassword(context.Background(), tt.token, "newpassword123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	repo := new(UserRepoMock)
	notifier := new(NotifierMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock), notifier, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(nil, storage.ErrNotFound).Once()

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.NoError(t, err)

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything)
}
