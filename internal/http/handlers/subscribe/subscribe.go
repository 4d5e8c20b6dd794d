// Package subscribe реализует HTTP-обработчик подписки на рассылку
// без создания учётной записи.
package subscribe

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
	services "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
)

// Request — входные данные подписки.
type Request struct {
	Email  string `json:"email" validate:"required,email"`
	Locale string `json:"locale" validate:"omitempty,oneof=fr en"`
}

// Service описывает интерфейс бизнес-логики подписки.
type Service interface {
	Subscribe(ctx context.Context, email, locale string) error
}

// Handler обрабатывает HTTP-запросы подписки.
type Handler struct {
	log           *slog.Logger
	service       Service
	validate      *validator.Validate
	defaultLocale string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, defaultLocale string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validator.New(),
		defaultLocale: defaultLocale,
	}
}

// ServeHTTP godoc
// @Summary Подписка на рассылку
// @Tags Newsletter
// @Accept  json
// @Produce  json
// @Param request body Request true "Адрес и язык"
// @Success 201 {object} response.Response "Адрес добавлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Адрес уже подписан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/newsletter/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
	if req.Locale == "" {
		req.Locale = h.defaultLocale
	}

	if err := h.service.Subscribe(r.Context(), req.Email, req.Locale); err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			log.Error("email already subscribed", "email", req.Email)
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already subscribed"))
			return
		}
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK())
}
