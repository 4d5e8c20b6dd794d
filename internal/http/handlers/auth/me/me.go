// Package me реализует HTTP-обработчик данных текущего пользователя.
// Возвращает учётную запись, профессиональный профиль и подписку,
// если они существуют.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Service описывает интерфейс бизнес-логики личного кабинета.
type Service interface {
	Me(ctx context.Context, userUID string) (*models.User, *models.ProfessionalProfile, *models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы личного кабинета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Данные текущего пользователя
// @Tags Account
// @Produce  json
// @Success 200 {object} map[string]any "Учётная запись, профиль и подписка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	user, profile, sub, err := h.service.Me(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	data := map[string]any{
		"user": map[string]any{
			"uid":        user.UID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"status":     user.Status,
			"locale":     user.Locale,
		},
	}
	if profile != nil {
		data["profile"] = profile
	}
	if sub != nil {
		data["subscription"] = map[string]any{
			"status":               sub.Status,
			"current_period_start": sub.CurrentPeriodStart,
			"current_period_end":   sub.CurrentPeriodEnd,
		}
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}
