// Package update реализует HTTP-обработчик изменения личных данных
// текущего пользователя: имени, фамилии и языка.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
)

// Request — входные данные изменения личных данных.
type Request struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Locale    string `json:"locale" validate:"required,oneof=fr en"`
}

// Service описывает интерфейс бизнес-логики личного кабинета.
type Service interface {
	UpdatePersonal(ctx context.Context, userUID, firstName, lastName, locale string) error
}

// Handler обрабатывает HTTP-запросы изменения личных данных.
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
// @Summary Изменить личные данные
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя, фамилия и язык"
// @Success 200 {object} response.Response "Данные обновлены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/me [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.update"
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

	var req Request
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

	if err := h.service.UpdatePersonal(r.Context(), userUID, req.FirstName, req.LastName, req.Locale); err != nil {
		log.Error("failed to update personal data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.OK())
}
