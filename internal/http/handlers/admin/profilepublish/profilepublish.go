// Package profilepublish реализует HTTP-обработчик ручного управления
// видимостью профиля в каталоге. Один и тот же Handler обслуживает
// публикацию и снятие с публикации, направление задаётся при создании.
package profilepublish

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

// Service описывает интерфейс бизнес-логики модерации профилей.
type Service interface {
	PublishProfile(ctx context.Context, profileID int64) error
	UnpublishProfile(ctx context.Context, profileID int64) error
}

// Handler обрабатывает HTTP-запросы публикации профиля.
type Handler struct {
	log     *slog.Logger
	service Service
	publish bool
}

// New создает новый экземпляр Handler. При publish=true профиль публикуется,
// иначе снимается с публикации.
func New(log *slog.Logger, service Service, publish bool) *Handler {
	return &Handler{log: log, service: service, publish: publish}
}

// ServeHTTP godoc
// @Summary Изменить видимость профиля в каталоге
// @Tags Admin
// @Produce  json
// @Param id path int true "ID профиля"
// @Success 200 {object} response.Response "Видимость изменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/professionals/{id}/publish [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profilepublish"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid profile id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid profile id"))
		return
	}

	if h.publish {
		err = h.service.PublishProfile(r.Context(), profileID)
	} else {
		err = h.service.UnpublishProfile(r.Context(), profileID)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("profile not found", slog.Int64("profile_id", profileID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}
		log.Error("failed to change profile visibility", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.OK())
}
