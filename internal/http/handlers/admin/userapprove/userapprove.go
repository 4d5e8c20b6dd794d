// Package userapprove реализует HTTP-обработчик одобрения учётной записи.
// Перевод в статус ACTIVE открывает вход в кабинет, публикует профиль
// профессионала и отправляет владельцу письмо.
package userapprove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	ApproveUser(ctx context.Context, userUID string) error
}

// Handler обрабатывает HTTP-запросы одобрения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Одобрить учётную запись
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Учётная запись активирована"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/users/{uid}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userapprove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if err := h.service.ApproveUser(r.Context(), userUID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("user not found", "user_uid", userUID)
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to approve user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	log.Info("user approved", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}
