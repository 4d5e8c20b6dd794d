// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и восстановления пароля членов ассоциации.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-directory/internal/lib/password"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/lib/slugify"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Ошибки уровня бизнес-логики, на которые HTTP-слой отвечает кодами 4xx.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// CreateProfile сохраняет профессиональный профиль.
	CreateProfile(ctx context.Context, p models.ProfessionalProfile) (int64, error)
	// SlugExists проверяет занятость слага.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// SaveResetToken сохраняет токен сброса пароля.
	SaveResetToken(ctx context.Context, token, userUID string, expiresAt time.Time) error
	// ConsumeResetToken удаляет токен и возвращает UID владельца.
	ConsumeResetToken(ctx context.Context, token string, now time.Time) (string, error)
	// UpdateUserPassword обновляет хэш пароля.
	UpdateUserPassword(ctx context.Context, userUID, passwordHash string) error
}

// Notifier отправляет письма, сопровождающие операции учётной записи.
type Notifier interface {
	SendPendingRegistration(u models.User) error
	SendAdminNewRegistration(u models.User) error
	SendPasswordReset(email, locale, token string) error
}

// RegisterInput данные регистрации, уже прошедшие валидацию HTTP-слоя.
// Бизнес-поля заполняются только для роли PROFESSIONAL.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        string
	Locale      string
	CompanyName string
	Description string
	CategoryID  int64
	City        string
	Address     string
	Phone       string
	Website     string
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier Notifier
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier Notifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
		log:      log,
	}
}

// Register создает нового пользователя в статусе PENDING. Для роли
// PROFESSIONAL дополнительно создаётся неопубликованный профиль с уникальным
// слагом. Письма о регистрации отправляются после фиксации данных и их
// ошибки не влияют на результат.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	const op = "services.auth.Register"

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		Status:       models.StatusPending,
		Locale:       in.Locale,
	}
	userUID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user.UID = userUID

	if in.Role == models.RoleProfessional {
		if err := s.createProfile(ctx, userUID, in); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.notifier.SendPendingRegistration(user); err != nil {
		s.log.Error("failed to send pending email", sl.Err(err))
	}
	if err := s.notifier.SendAdminNewRegistration(user); err != nil {
		s.log.Error("failed to notify admin about registration", sl.Err(err))
	}

	return userUID, nil
}

// Предел перебора суффиксов при гонке вставок с одинаковыми именами.
const slugRetryAttempts = 5

// createProfile строит уникальный слаг из имени и сохраняет профиль.
// При гонке двух одинаковых имён UNIQUE-ограничение на слаг срабатывает
// на вставке, тогда вставка повторяется со следующими суффиксами.
func (s *AuthService) createProfile(ctx context.Context, userUID string, in RegisterInput) error {
	name := in.FirstName + " " + in.LastName
	uniqueSlug, err := slugify.Unique(ctx, name, s.users.SlugExists)
	if err != nil {
		return err
	}

	profile := models.ProfessionalProfile{
		UserUID:     userUID,
		Slug:        uniqueSlug,
		CompanyName: in.CompanyName,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		City:        in.City,
		Address:     in.Address,
		Phone:       in.Phone,
		Website:     in.Website,
		IsPublished: false,
	}
	_, err = s.users.CreateProfile(ctx, profile)
	for attempt := 1; storage.IsUniqueViolation(err); attempt++ {
		if attempt > slugRetryAttempts {
			return fmt.Errorf("no free slug for %q: %w", name, err)
		}
		profile.Slug = slugify.Next(name, attempt)
		_, err = s.users.CreateProfile(ctx, profile)
	}
	return err
}

// Login проверяет пароль пользователя и генерирует JWT сессии.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token string, user *models.User, err error) {
	const op = "services.auth.Login"
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает uid и роль пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (userUID, role string, err error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	return claims.UserUID, claims.Role, nil
}

// resetTokenTTL срок жизни ссылки для сброса пароля.
const resetTokenTTL = time.Hour

// ForgotPassword выпускает токен сброса и отправляет ссылку на почту.
// Для неизвестного адреса возвращает nil, не раскрывая существование учётки.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	const op = "services.auth.ForgotPassword"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	token := uuid.New().String()
	if err := s.users.SaveResetToken(ctx, token, user.UID, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.notifier.SendPasswordReset(user.Email, user.Locale, token); err != nil {
		s.log.Error("failed to send reset email", sl.Err(err))
	}
	return nil
}

// ResetPassword меняет пароль по действующему токену сброса.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	const op = "services.auth.ResetPassword"
	userUID, err := s.users.ConsumeResetToken(ctx, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateUserPassword(ctx, userUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
