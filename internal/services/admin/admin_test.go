package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/admin"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Мок для AdminRepository
type AdminRepoMock struct {
	mock.Mock
}

func (m *AdminRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AdminRepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *AdminRepoMock) UpdateUserStatus(ctx context.Context, userUID, status string) error {
	args := m.Called(ctx, userUID, status)
	return args.Error(0)
}

func (m *AdminRepoMock) DeleteUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *AdminRepoMock) SetProfilePublishedByUser(ctx context.Context, userUID string, published bool) error {
	args := m.Called(ctx, userUID, published)
	return args.Error(0)
}

func (m *AdminRepoMock) SetProfilePublished(ctx context.Context, profileID int64, published bool) error {
	args := m.Called(ctx, profileID, published)
	return args.Error(0)
}

func (m *AdminRepoMock) ListProfiles(ctx context.Context) ([]*models.ProfessionalProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProfessionalProfile), args.Error(1)
}

// Мок для ModerationNotifier
type ModerationNotifierMock struct {
	mock.Mock
}

func (m *ModerationNotifierMock) SendAccountApproved(u models.User) error {
	args := m.Called(u)
	return args.Error(0)
}

func (m *ModerationNotifierMock) SendAccountSuspended(u models.User) error {
	args := m.Called(u)
	return args.Error(0)
}

// Мок для ListingsInvalidator, считает сбросы кеша.
type ListingsInvalidatorMock struct {
	Calls int
}

func (m *ListingsInvalidatorMock) InvalidateListings() { m.Calls++ }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdminService_ApproveUser(t *testing.T) {
	pendingUser := &models.User{
		UID:    "user-uid-1",
		Email:  "pro@example.com",
		Role:   models.RoleProfessional,
		Status: models.StatusPending,
	}

	tests := []struct {
		name            string
		userUID         string
		setupMocks      func(r *AdminRepoMock, n *ModerationNotifierMock)
		wantErr         bool
		wantInvalidated int
	}{
		{
			name:    "approve publishes profile and sends email",
			userUID: "user-uid-1",
			setupMocks: func(r *AdminRepoMock, n *ModerationNotifierMock) {
				r.On("GetUser", mock.Anything, "user-uid-1").Return(pendingUser, nil).Once()
				r.On("UpdateUserStatus", mock.Anything, "user-uid-1", models.StatusActive).Return(nil).Once()
				r.On("SetProfilePublishedByUser", mock.Anything, "user-uid-1", true).Return(nil).Once()
				n.On("SendAccountApproved", mock.MatchedBy(func(u models.User) bool {
					return u.Status == models.StatusActive
				})).Return(nil).Once()
			},
			wantInvalidated: 1,
		},
		{
			name:    "unknown user",
			userUID: "missing",
			setupMocks: func(r *AdminRepoMock, _ *ModerationNotifierMock) {
				r.On("GetUser", mock.Anything, "missing").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: true,
		},
		{
			name:    "email failure does not fail approval",
			userUID: "user-uid-1",
			setupMocks: func(r *AdminRepoMock, n *ModerationNotifierMock) {
				r.On("GetUser", mock.Anything, "user-uid-1").Return(pendingUser, nil).Once()
				r.On("UpdateUserStatus", mock.Anything, "user-uid-1", models.StatusActive).Return(nil).Once()
				r.On("SetProfilePublishedByUser", mock.Anything, "user-uid-1", true).Return(nil).Once()
				n.On("SendAccountApproved", mock.Anything).Return(errors.New("smtp down")).Once()
			},
			wantInvalidated: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			notifier := new(ModerationNotifierMock)
			listings := &ListingsInvalidatorMock{}
			svc := services.NewAdminService(repo, notifier, listings, newNoopLogger())

			tt.setupMocks(repo, notifier)

			err := svc.ApproveUser(context.Background(), tt.userUID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantInvalidated, listings.Calls)

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestAdminService_SuspendUser(t *testing.T) {
	activeUser := &models.User{
		UID:    "user-uid-1",
		Email:  "pro@example.com",
		Role:   models.RoleProfessional,
		Status: models.StatusActive,
	}

	repo := new(AdminRepoMock)
	notifier := new(ModerationNotifierMock)
	listings := &ListingsInvalidatorMock{}
	svc := services.NewAdminService(repo, notifier, listings, newNoopLogger())

	repo.On("GetUser", mock.Anything, "user-uid-1").Return(activeUser, nil).Once()
	repo.On("UpdateUserStatus", mock.Anything, "user-uid-1", models.StatusSuspended).Return(nil).Once()
	repo.On("SetProfilePublishedByUser", mock.Anything, "user-uid-1", false).Return(nil).Once()
	notifier.On("SendAccountSuspended", mock.MatchedBy(func(u models.User) bool {
		return u.Status == models.StatusSuspended
	})).Return(nil).Once()

	err := svc.SuspendUser(context.Background(), "user-uid-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, listings.Calls)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAdminService_DeleteUser(t *testing.T) {
	repo := new(AdminRepoMock)
	listings := &ListingsInvalidatorMock{}
	svc := services.NewAdminService(repo, new(ModerationNotifierMock), listings, newNoopLogger())

	repo.On("DeleteUser", mock.Anything, "user-uid-1").Return(nil).Once()

	err := svc.DeleteUser(context.Background(), "user-uid-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, listings.Calls)
	repo.AssertExpectations(t)
}

func TestAdminService_PublishProfile(t *testing.T) {
	tests := []struct {
		name      string
		publish   bool
		mockErr   error
		wantErr   bool
		wantCalls int
	}{
		{name: "publish", publish: true, wantCalls: 1},
		{name: "unpublish", publish: false, wantCalls: 1},
		{name: "storage error", publish: true, mockErr: storage.ErrNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(AdminRepoMock)
			listings := &ListingsInvalidatorMock{}
			svc := services.NewAdminService(repo, new(ModerationNotifierMock), listings, newNoopLogger())

			repo.On("SetProfilePublished", mock.Anything, int64(5), tt.publish).Return(tt.mockErr).Once()

			var err error
			if tt.publish {
				err = svc.PublishProfile(context.Background(), 5)
			} else {
				err = svc.UnpublishProfile(context.Background(), 5)
			}
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, listings.Calls)
			repo.AssertExpectations(t)
		})
	}
}
