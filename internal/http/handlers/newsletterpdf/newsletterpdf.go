// Package newsletterpdf реализует HTTP-обработчик печатной версии дайджеста.
// Администратор получает PDF для архива до или вместо отправки.
package newsletterpdf

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

// Request — входные данные печатной версии.
type Request struct {
	Subject string               `json:"subject" validate:"required,min=3,max=200"`
	Links   []models.CuratedLink `json:"links" validate:"omitempty,max=3,dive"`
}

// Service описывает интерфейс бизнес-логики рассылки.
type Service interface {
	Compose(ctx context.Context, subject string, links []models.CuratedLink) (*services.Digest, error)
	RenderPDF(digest *services.Digest) ([]byte, error)
}

// Handler обрабатывает HTTP-запросы печатной версии дайджеста.
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

// ServeHTTP возвращает PDF с содержимым дайджеста.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletterpdf"
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

	pdfBytes, err := h.service.RenderPDF(digest)
	if err != nil {
		log.Error("failed to render pdf", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="newsletter.pdf"`)
	if _, err := w.Write(pdfBytes); err != nil {
		log.Error("failed to write pdf response", sl.Err(err))
	}
}
