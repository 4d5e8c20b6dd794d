// Package services содержит задачу напоминаний о продлении членства.
// Задача запускается планировщиком или служебным HTTP-эндпоинтом, находит
// подписки в окнах за 30 и за 7 дней до окончания, помечает просроченные
// и рассылает уведомления владельцам.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Допуск окна в один день компенсирует пропуск суточного запуска задачи.
const windowTolerance = 24 * time.Hour

// ReminderRepository определяет методы хранилища для задачи напоминаний.
type ReminderRepository interface {
	FindSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.ReminderInfo, error)
	FindExpiredSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error
	UpdateUserStatus(ctx context.Context, userUID, status string) error
	SetProfilePublishedByUser(ctx context.Context, userUID string, published bool) error
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Notifier доставляет напоминание владельцу подписки. Реализацией служит
// либо почтовый сервис при синхронном запуске, либо издатель RabbitMQ
// при запуске из планировщика.
type Notifier interface {
	SendRenewalReminder(info models.ReminderInfo) error
}

// ListingsInvalidator сбрасывает кеш публичного каталога. Без сброса
// карточка просроченного профессионала жила бы в кеше до конца TTL.
type ListingsInvalidator interface {
	InvalidateListings()
}

// RunReport итог одного прогона задачи.
type RunReport struct {
	Upcoming30 int `json:"upcoming30"`
	Upcoming7  int `json:"upcoming7"`
	Expired    int `json:"expired"`
	Failed     int `json:"failed"`
}

// ReminderService реализует прогон напоминаний.
type ReminderService struct {
	repo     ReminderRepository
	notifier Notifier
	listings ListingsInvalidator
	log      *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(repo ReminderRepository, notifier Notifier,
	listings ListingsInvalidator, log *slog.Logger) *ReminderService {
	return &ReminderService{
		repo:     repo,
		notifier: notifier,
		listings: listings,
		log:      log,
	}
}

// Run выполняет один прогон: оба окна предупреждений и обработку просрочки.
// Журнал отправленных напоминаний не ведётся, поэтому повторный запуск
// в том же окне отправит письма ещё раз.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (*RunReport, error) {
	const op = "services.reminder.Run"

	report := &RunReport{}

	n, err := s.notifyWindow(ctx, now, 30*24*time.Hour, models.WindowUpcoming30, report)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Upcoming30 = n

	n, err = s.notifyWindow(ctx, now, 7*24*time.Hour, models.WindowUpcoming7, report)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Upcoming7 = n

	n, err = s.expireOverdue(ctx, now, report)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Expired = n

	s.log.Info("reminder run finished",
		slog.Int("upcoming30", report.Upcoming30),
		slog.Int("upcoming7", report.Upcoming7),
		slog.Int("expired", report.Expired),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *ReminderService) notifyWindow(ctx context.Context, now time.Time,
	ahead time.Duration, window string, report *RunReport) (int, error) {
	from := now.Add(ahead - windowTolerance)
	to := now.Add(ahead + windowTolerance)
	infos, err := s.repo.FindSubscriptionsEndingBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, info := range infos {
		info.Window = window
		if err := s.notifier.SendRenewalReminder(*info); err != nil {
			s.log.Error("failed to send renewal reminder",
				"window", window, "email", info.Email, sl.Err(err))
			report.Failed++
			continue
		}
		sent++
	}
	return sent, nil
}

// expireOverdue помечает просроченные подписки, каскадно переводит владельца
// в статус EXPIRED и снимает публикацию его профессионального профиля.
// Уведомление уходит после изменения данных и не откатывает их при сбое.
func (s *ReminderService) expireOverdue(ctx context.Context, now time.Time, report *RunReport) (int, error) {
	subs, err := s.repo.FindExpiredSubscriptions(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range subs {
		if err := s.repo.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionExpired); err != nil {
			return expired, err
		}
		if err := s.repo.UpdateUserStatus(ctx, sub.UserUID, models.StatusExpired); err != nil {
			return expired, err
		}
		if err := s.repo.SetProfilePublishedByUser(ctx, sub.UserUID, false); err != nil {
			return expired, err
		}
		expired++

		user, err := s.repo.GetUser(ctx, sub.UserUID)
		if err != nil {
			s.log.Error("failed to load expired subscription owner",
				"user_uid", sub.UserUID, sl.Err(err))
			report.Failed++
			continue
		}
		info := models.ReminderInfo{
			SubscriptionID: sub.ID,
			Email:          user.Email,
			FirstName:      user.FirstName,
			Locale:         user.Locale,
			PeriodEnd:      sub.CurrentPeriodEnd,
			Window:         models.WindowExpired,
		}
		if err := s.notifier.SendRenewalReminder(info); err != nil {
			s.log.Error("failed to send expiration notice",
				"email", user.Email, sl.Err(err))
			report.Failed++
		}
	}

	// Снятые с публикации профили не должны доживать в кеше каталога.
	if expired > 0 {
		s.listings.InvalidateListings()
	}

	return expired, nil
}
