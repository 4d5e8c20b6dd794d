// Package eventcreate реализует HTTP-обработчик создания события ассоциации.
package eventcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/events"
)

// Service описывает интерфейс бизнес-логики событий.
type Service interface {
	Create(ctx context.Context, req models.DummyEvent) (int64, error)
}

// Handler обрабатывает HTTP-запросы создания события.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать событие
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.DummyEvent true "Данные события"
// @Success 201 {object} map[string]any "Событие создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.eventcreate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrBadDate) {
			log.Error("invalid event date", "event_date", req.EventDate)
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event date, expected 02-01-2006"))
			return
		}
		log.Error("failed to create event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("event created", slog.Int64("event_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}
