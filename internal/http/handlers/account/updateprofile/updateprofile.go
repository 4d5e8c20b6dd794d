// Package updateprofile реализует HTTP-обработчик изменения бизнес-данных
// профессионального профиля текущего пользователя. Доступен только роли
// PROFESSIONAL; публикацией профиля управляет администратор, не владелец.
package updateprofile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	services "github.com/magabrotheeeer/membership-directory/internal/services/account"
)

// Request — входные данные изменения профиля.
type Request struct {
	CompanyName string `json:"company_name" validate:"required,max=200"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Website     string `json:"website" validate:"omitempty,url"`
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	UpdateProfessional(ctx context.Context, userUID string, in services.ProfessionalInput) error
}

// Handler обрабатывает HTTP-запросы изменения профиля.
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
// @Summary Изменить профессиональный профиль
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Бизнес-данные профиля"
// @Success 200 {object} response.Response "Профиль обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Роль не PROFESSIONAL"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/me/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.updateprofile"
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

	err := h.service.UpdateProfessional(r.Context(), userUID, services.ProfessionalInput{
		CompanyName: req.CompanyName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		City:        req.City,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
	})
	if err != nil {
		if errors.Is(err, services.ErrNotProfessional) {
			log.Error("profile editing is limited to professionals")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("profile editing is limited to professionals"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	render.JSON(w, r, response.OK())
}
