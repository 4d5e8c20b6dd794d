// Package profileslist реализует HTTP-обработчик списка всех
// профессиональных профилей, включая неопубликованные, для админки.
package profileslist

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

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	ListProfiles(ctx context.Context) ([]*models.ProfessionalProfile, error)
}

// Handler обрабатывает HTTP-запросы списка профилей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список всех профессиональных профилей
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список профилей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/professionals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profileslist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profiles, err := h.service.ListProfiles(r.Context())
	if err != nil {
		log.Error("failed to list profiles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(profiles))
}
