package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveResetToken сохраняет токен сброса пароля со сроком действия.
func (s *Storage) SaveResetToken(ctx context.Context, token, userUID string, expiresAt time.Time) error {
	const op = "storage.SaveResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (token, user_uid, expires_at) VALUES ($1, $2, $3)`,
		token, userUID, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeResetToken удаляет токен и возвращает UID владельца,
// если токен существует и не истёк.
func (s *Storage) ConsumeResetToken(ctx context.Context, token string, now time.Time) (string, error) {
	const op = "storage.ConsumeResetToken"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var userUID string
	err := s.DB.QueryRowContext(ctx,
		`DELETE FROM password_reset_tokens
		 WHERE token = $1 AND expires_at > $2
		 RETURNING user_uid`,
		token, now).Scan(&userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
