// Package services содержит бизнес-логику админской модерации: утверждение,
// приостановка и удаление учётных записей, публикация профилей.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// AdminRepository описывает методы хранилища для модерации.
type AdminRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, userUID, status string) error
	DeleteUser(ctx context.Context, userUID string) error
	SetProfilePublishedByUser(ctx context.Context, userUID string, published bool) error
	SetProfilePublished(ctx context.Context, profileID int64, published bool) error
	ListProfiles(ctx context.Context) ([]*models.ProfessionalProfile, error)
}

// ModerationNotifier отправляет письма о решениях модерации.
type ModerationNotifier interface {
	SendAccountApproved(u models.User) error
	SendAccountSuspended(u models.User) error
}

// ListingsInvalidator сбрасывает кеш публичного каталога после решений
// модерации, затрагивающих видимость профилей.
type ListingsInvalidator interface {
	InvalidateListings()
}

// AdminService реализует переходы статусов учётных записей. Каждый переход —
// последовательность независимых записей плюс письмо: отправка письма
// best-effort и не откатывает уже применённые изменения.
type AdminService struct {
	repo     AdminRepository
	notifier ModerationNotifier
	listings ListingsInvalidator
	log      *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo AdminRepository, notifier ModerationNotifier,
	listings ListingsInvalidator, log *slog.Logger) *AdminService {
	return &AdminService{
		repo:     repo,
		notifier: notifier,
		listings: listings,
		log:      log,
	}
}

// ListUsers возвращает все учётные записи для модерации.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListProfiles возвращает все профессиональные профили для модерации.
func (s *AdminService) ListProfiles(ctx context.Context) ([]*models.ProfessionalProfile, error) {
	return s.repo.ListProfiles(ctx)
}

// ApproveUser переводит PENDING или SUSPENDED учётку в ACTIVE, публикует
// профиль (если есть) и уведомляет пользователя письмом.
func (s *AdminService) ApproveUser(ctx context.Context, userUID string) error {
	const op = "services.admin.ApproveUser"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserStatus(ctx, userUID, models.StatusActive); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetProfilePublishedByUser(ctx, userUID, true); err != nil {
		s.log.Error("failed to publish profile on approve", sl.Err(err))
	}

	s.listings.InvalidateListings()

	user.Status = models.StatusActive
	if err := s.notifier.SendAccountApproved(*user); err != nil {
		s.log.Error("failed to send approval email", sl.Err(err))
	}
	s.log.Info("user approved", slog.String("user_uid", userUID))
	return nil
}

// SuspendUser переводит учётку в SUSPENDED, снимает публикацию профиля
// и уведомляет пользователя письмом.
func (s *AdminService) SuspendUser(ctx context.Context, userUID string) error {
	const op = "services.admin.SuspendUser"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserStatus(ctx, userUID, models.StatusSuspended); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SetProfilePublishedByUser(ctx, userUID, false); err != nil {
		s.log.Error("failed to unpublish profile on suspend", sl.Err(err))
	}

	s.listings.InvalidateListings()

	user.Status = models.StatusSuspended
	if err := s.notifier.SendAccountSuspended(*user); err != nil {
		s.log.Error("failed to send suspension email", sl.Err(err))
	}
	s.log.Info("user suspended", slog.String("user_uid", userUID))
	return nil
}

// DeleteUser удаляет учётку. Профиль и подписки удаляются каскадно на уровне схемы.
func (s *AdminService) DeleteUser(ctx context.Context, userUID string) error {
	const op = "services.admin.DeleteUser"
	if err := s.repo.DeleteUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.listings.InvalidateListings()
	s.log.Info("user deleted", slog.String("user_uid", userUID))
	return nil
}

// PublishProfile включает видимость профиля в каталоге независимо от статуса учётки.
func (s *AdminService) PublishProfile(ctx context.Context, profileID int64) error {
	const op = "services.admin.PublishProfile"
	if err := s.repo.SetProfilePublished(ctx, profileID, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.listings.InvalidateListings()
	return nil
}

// UnpublishProfile выключает видимость профиля в каталоге.
func (s *AdminService) UnpublishProfile(ctx context.Context, profileID int64) error {
	const op = "services.admin.UnpublishProfile"
	if err := s.repo.SetProfilePublished(ctx, profileID, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.listings.InvalidateListings()
	return nil
}
