package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// AddSubscriber добавляет адрес в список рассылки и возвращает его ID.
func (s *Storage) AddSubscriber(ctx context.Context, email, locale string) (int64, error) {
	const op = "storage.AddSubscriber"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO subscribers (email, locale) VALUES ($1, $2) RETURNING id`,
		email, locale).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSubscribers возвращает все адреса списка рассылки.
func (s *Storage) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	const op = "storage.ListSubscribers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, email, locale, created_at FROM subscribers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Subscriber
	for rows.Next() {
		sub := &models.Subscriber{}
		if err = rows.Scan(&sub.ID, &sub.Email, &sub.Locale, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPublishedArticles возвращает не больше limit опубликованных материалов,
// начиная с самых свежих.
func (s *Storage) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	const op = "storage.ListPublishedArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, author_name, is_published, created_at
			  FROM articles
			  WHERE is_published = TRUE
			  ORDER BY created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Article
	for rows.Next() {
		a := &models.Article{}
		if err = rows.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorName,
			&a.IsPublished, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// LogNewsletter записывает журнальную строку об отправленной рассылке.
func (s *Storage) LogNewsletter(ctx context.Context, subject string, recipientCount int) (int64, error) {
	const op = "storage.LogNewsletter"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO newsletters (subject, recipient_count) VALUES ($1, $2) RETURNING id`,
		subject, recipientCount).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
