// Package services содержит бизнес-логику личного кабинета: обновление
// персональных данных и бизнес-данных профессионального профиля.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/membership-directory/internal/lib/slugify"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// ErrNotProfessional возвращается при попытке редактировать бизнес-данные
// учёткой без роли PROFESSIONAL: такой пользователь не владеет профилем.
var ErrNotProfessional = errors.New("user is not a professional")

// AccountRepository описывает методы хранилища, нужные личному кабинету.
type AccountRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateUserFields(ctx context.Context, userUID, firstName, lastName, locale string) error
	GetProfileByUser(ctx context.Context, userUID string) (*models.ProfessionalProfile, error)
	CreateProfile(ctx context.Context, p models.ProfessionalProfile) (int64, error)
	UpdateProfile(ctx context.Context, p models.ProfessionalProfile) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
}

// ProfessionalInput бизнес-данные профиля из запроса личного кабинета.
type ProfessionalInput struct {
	CompanyName string
	Description string
	CategoryID  int64
	City        string
	Address     string
	Phone       string
	Website     string
}

// AccountService реализует операции личного кабинета.
type AccountService struct {
	repo AccountRepository
	log  *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(repo AccountRepository, log *slog.Logger) *AccountService {
	return &AccountService{repo: repo, log: log}
}

// Me возвращает пользователя, его профиль (если есть) и подписку (если есть).
func (s *AccountService) Me(ctx context.Context, userUID string) (*models.User, *models.ProfessionalProfile, *models.Subscription, error) {
	const op = "services.account.Me"
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	profile, err := s.repo.GetProfileByUser(ctx, userUID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, profile, sub, nil
}

// UpdatePersonal обновляет личные данные пользователя.
func (s *AccountService) UpdatePersonal(ctx context.Context, userUID, firstName, lastName, locale string) error {
	const op = "services.account.UpdatePersonal"
	if err := s.repo.UpdateUserFields(ctx, userUID, firstName, lastName, locale); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfessional обновляет бизнес-данные профиля. Если профиль ещё не
// создавался (пользователь зарегистрировался без бизнес-полей), он создаётся
// лениво при первом редактировании, неопубликованным.
func (s *AccountService) UpdateProfessional(ctx context.Context, userUID string, in ProfessionalInput) error {
	const op = "services.account.UpdateProfessional"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Role != models.RoleProfessional {
		return ErrNotProfessional
	}

	profile := models.ProfessionalProfile{
		UserUID:     userUID,
		CompanyName: in.CompanyName,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		City:        in.City,
		Address:     in.Address,
		Phone:       in.Phone,
		Website:     in.Website,
	}

	err = s.repo.UpdateProfile(ctx, profile)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	profile.Slug, err = slugify.Unique(ctx, user.FullName(), s.repo.SlugExists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = s.repo.CreateProfile(ctx, profile); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("professional profile created lazily", slog.String("user_uid", userUID))
	return nil
}
