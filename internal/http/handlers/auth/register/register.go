// Package register реализует HTTP-обработчик регистрации нового члена ассоциации.
//
// Принимает JSON с данными учётной записи и, для роли PROFESSIONAL,
// полями профессионального профиля. Новая учётная запись создаётся
// в статусе PENDING и ожидает одобрения администратора.
package register

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
	services "github.com/magabrotheeeer/membership-directory/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string `json:"last_name" validate:"required,min=1,max=100"`
	Locale      string `json:"locale" validate:"required,oneof=fr en"`
	Role        string `json:"role" validate:"required,oneof=MEMBER PROFESSIONAL"`
	CompanyName string `json:"company_name" validate:"omitempty,max=200"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Address     string `json:"address" validate:"omitempty,max=300"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Website     string `json:"website" validate:"omitempty,url"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in services.RegisterInput) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация члена ассоциации
// @Description Создаёт учётную запись в статусе PENDING. Для роли PROFESSIONAL дополнительно создаётся неопубликованный профиль каталога.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} map[string]any "Учётная запись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или адрес уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
	log.Info("all fields are validated")

	userUID, err := h.service.Register(r.Context(), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Locale:      req.Locale,
		Role:        req.Role,
		CompanyName: req.CompanyName,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		City:        req.City,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Error("email already registered", "email", req.Email)
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("user_uid", userUID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": userUID,
		"status":   "PENDING",
	}))
}
