// Package eventslist реализует HTTP-обработчик списка всех событий,
// включая черновики, для экрана администратора.
package eventslist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Service описывает интерфейс бизнес-логики событий.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Event, error)
}

// Handler обрабатывает HTTP-запросы списка событий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех событий
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "События, включая неопубликованные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.eventslist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(events))
}
