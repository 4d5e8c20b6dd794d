// Package eventupdate реализует HTTP-обработчик изменения события ассоциации.
package eventupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/events"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Service описывает интерфейс бизнес-логики событий.
type Service interface {
	Update(ctx context.Context, id int64, req models.DummyEvent) error
}

// Handler обрабатывает HTTP-запросы изменения события.
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
// @Summary Изменить событие
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID события"
// @Param request body models.DummyEvent true "Данные события"
// @Success 200 {object} response.Response "Событие обновлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ID или дата"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/admin/events/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.eventupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid event id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event id"))
		return
	}

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

	if err := h.service.Update(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, services.ErrBadDate):
			log.Error("invalid event date", "event_date", req.EventDate)
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event date, expected 02-01-2006"))
		case errors.Is(err, storage.ErrNotFound):
			log.Error("event not found", slog.Int64("event_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		default:
			log.Error("failed to update event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}
	render.JSON(w, r, response.OK())
}
