package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// CreateSubscription вставляет запись членского взноса и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, status, current_period_start, current_period_end)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.Status, sub.CurrentPeriodStart, sub.CurrentPeriodEnd).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscriptionByUser возвращает последнюю подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, current_period_start, current_period_end
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY current_period_end DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&sub.ID, &sub.UserUID,
		&sub.Status, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// FindSubscriptionsEndingBetween возвращает активные подписки, чей оплаченный
// период заканчивается в интервале [from, to). Используется окнами напоминаний
// за 30 и за 7 дней с допуском в один день.
func (s *Storage) FindSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.ReminderInfo, error) {
	const op = "storage.FindSubscriptionsEndingBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, u.email, u.first_name, u.locale, s.current_period_end
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.user_uid
			  WHERE s.status = 'ACTIVE'
			    AND s.current_period_end >= $1
			    AND s.current_period_end < $2`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanReminderInfos(rows, op)
}

// FindExpiredSubscriptions возвращает активные подписки с уже прошедшей
// датой окончания вместе с UID владельца.
func (s *Storage) FindExpiredSubscriptions(ctx context.Context, now time.Time) ([]*models.Subscription, error) {
	const op = "storage.FindExpiredSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, status, current_period_start, current_period_end
			  FROM subscriptions
			  WHERE status = 'ACTIVE' AND current_period_end < $1`
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		if err = rows.Scan(&sub.ID, &sub.UserUID, &sub.Status,
			&sub.CurrentPeriodStart, &sub.CurrentPeriodEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscriptionStatus обновляет статус подписки.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id int64, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func scanReminderInfos(rows *sql.Rows, op string) ([]*models.ReminderInfo, error) {
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ReminderInfo
	for rows.Next() {
		info := &models.ReminderInfo{}
		if err := rows.Scan(&info.SubscriptionID, &info.Email, &info.FirstName,
			&info.Locale, &info.PeriodEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
