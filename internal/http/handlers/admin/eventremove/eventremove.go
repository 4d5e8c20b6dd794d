// Package eventremove реализует HTTP-обработчик удаления события ассоциации.
package eventremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Service описывает интерфейс бизнес-логики событий.
type Service interface {
	Remove(ctx context.Context, id int64) error
}

// Handler обрабатывает HTTP-запросы удаления события.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить событие
// @Tags Admin
// @Produce  json
// @Param id path int true "ID события"
// @Success 200 {object} response.Response "Событие удалено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Router /api/admin/events/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.eventremove"
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

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("event not found", slog.Int64("event_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}
		log.Error("failed to delete event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.OK())
}
