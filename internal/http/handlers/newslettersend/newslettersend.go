// Package newslettersend реализует HTTP-обработчик отправки дайджеста.
// Администратор передаёт тему и до трёх внешних ссылок; остальное содержимое
// (события и материалы) подтягивается из базы. Непустой test_address
// превращает запрос в тестовую отправку на один адрес.
package newslettersend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
	services "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
)

// Request — входные данные отправки дайджеста.
type Request struct {
	Subject     string               `json:"subject" validate:"required,min=3,max=200"`
	Links       []models.CuratedLink `json:"links" validate:"omitempty,max=3,dive"`
	TestAddress string               `json:"test_address" validate:"omitempty,email"`
}

// Service описывает интерфейс бизнес-логики рассылки.
type Service interface {
	Compose(ctx context.Context, subject string, links []models.CuratedLink) (*services.Digest, error)
	Dispatch(ctx context.Context, digest *services.Digest, testAddr string) (*models.DispatchReport, error)
}

// Handler обрабатывает HTTP-запросы отправки дайджеста.
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
// @Summary Отправить дайджест рассылки
// @Tags Newsletter
// @Accept  json
// @Produce  json
// @Param request body Request true "Тема, ссылки и необязательный тестовый адрес"
// @Success 200 {object} map[string]any "Отчёт об отправке"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/admin/newsletter/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newslettersend"
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

	digest, err := h.service.Compose(r.Context(), req.Subject, req.Links)
	if err != nil {
		log.Error("failed to compose digest", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	report, err := h.service.Dispatch(r.Context(), digest, req.TestAddress)
	if err != nil {
		log.Error("failed to dispatch digest", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("digest dispatched",
		slog.Int("sent", report.SentCount), slog.Int("failed", len(report.Failed)))
	render.JSON(w, r, response.StatusOKWithData(report))
}
