// Package services содержит бизнес-логику событий ассоциации:
// публичный список и админский CRUD.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/membership-directory/internal/models"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// ErrBadDate возвращается при дате события не в формате 02-01-2006.
var ErrBadDate = errors.New("invalid event date")

// EventRepository определяет методы для работы с событиями в хранилище.
type EventRepository interface {
	CreateEvent(ctx context.Context, e models.Event) (int64, error)
	UpdateEvent(ctx context.Context, e models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListPublishedEvents(ctx context.Context) ([]*models.Event, error)
	ListAllEvents(ctx context.Context) ([]*models.Event, error)
}

// EventService реализует операции над событиями.
type EventService struct {
	repo EventRepository
	log  *slog.Logger
}

// NewEventService создает новый экземпляр EventService.
func NewEventService(repo EventRepository, log *slog.Logger) *EventService {
	return &EventService{repo: repo, log: log}
}

// eventDateLayout формат даты события в запросах.
const eventDateLayout = "02-01-2006"

// Create создает событие из данных запроса и возвращает его ID.
func (s *EventService) Create(ctx context.Context, req models.DummyEvent) (int64, error) {
	const op = "services.events.Create"
	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, ErrBadDate)
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
	}
	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created event", slog.Int64("id", id))
	return id, nil
}

// Update обновляет событие по ID.
func (s *EventService) Update(ctx context.Context, id int64, req models.DummyEvent) error {
	const op = "services.events.Update"
	eventDate, err := time.Parse(eventDateLayout, req.EventDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrBadDate)
	}

	event := models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   eventDate,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated event", slog.Int64("id", id))
	return nil
}

// Remove удаляет событие по ID.
func (s *EventService) Remove(ctx context.Context, id int64) error {
	const op = "services.events.Remove"
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted event", slog.Int64("id", id))
	return nil
}

// Get возвращает опубликованное событие по ID. Неопубликованное событие
// для публичной страницы неотличимо от отсутствующего.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	const op = "services.events.Get"
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !event.IsPublished {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return event, nil
}

// ListPublic возвращает опубликованные события по дате проведения.
func (s *EventService) ListPublic(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListPublishedEvents(ctx)
}

// ListAll возвращает все события для админки.
func (s *EventService) ListAll(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListAllEvents(ctx)
}
