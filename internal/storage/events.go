package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// CreateEvent вставляет новое событие и возвращает его ID.
func (s *Storage) CreateEvent(ctx context.Context, e models.Event) (int64, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO events (title, description, event_date, location, image_url, is_published)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.Location, e.ImageURL, e.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateEvent обновляет событие по ID.
func (s *Storage) UpdateEvent(ctx context.Context, e models.Event) error {
	const op = "storage.UpdateEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET title = $1, description = $2, event_date = $3, location = $4,
			      image_url = $5, is_published = $6
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.Location, e.ImageURL, e.IsPublished, e.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteEvent удаляет событие по ID.
func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	const op = "storage.DeleteEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// GetEvent возвращает событие по ID.
func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.GetEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, event_date, location, image_url,
			      is_published, created_at
			  FROM events
			  WHERE id = $1`
	e := &models.Event{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.Description,
		&e.EventDate, &e.Location, &e.ImageURL, &e.IsPublished, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListPublishedEvents возвращает опубликованные события по дате проведения.
func (s *Storage) ListPublishedEvents(ctx context.Context) ([]*models.Event, error) {
	const op = "storage.ListPublishedEvents"
	return s.listEvents(ctx, op, `SELECT id, title, description, event_date, location,
			      image_url, is_published, created_at
			  FROM events
			  WHERE is_published = TRUE
			  ORDER BY event_date`)
}

// ListAllEvents возвращает все события для админки.
func (s *Storage) ListAllEvents(ctx context.Context) ([]*models.Event, error) {
	const op = "storage.ListAllEvents"
	return s.listEvents(ctx, op, `SELECT id, title, description, event_date, location,
			      image_url, is_published, created_at
			  FROM events
			  ORDER BY event_date DESC`)
}

// ListUpcomingPublishedEvents возвращает ближайшие опубликованные события,
// не больше limit, начиная с from.
func (s *Storage) ListUpcomingPublishedEvents(ctx context.Context, from time.Time, limit int) ([]*models.Event, error) {
	const op = "storage.ListUpcomingPublishedEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, event_date, location, image_url,
			      is_published, created_at
			  FROM events
			  WHERE is_published = TRUE AND event_date >= $1
			  ORDER BY event_date
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanEvents(rows, op)
}

func (s *Storage) listEvents(ctx context.Context, op, query string) ([]*models.Event, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanEvents(rows, op)
}

func scanEvents(rows *sql.Rows, op string) ([]*models.Event, error) {
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Event
	for rows.Next() {
		e := &models.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location,
			&e.ImageURL, &e.IsPublished, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
