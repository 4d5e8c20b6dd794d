// Package cronreminders реализует служебный HTTP-эндпоинт запуска задачи
// напоминаний о продлении членства. Защищён общим секретом и предназначен
// для внешнего планировщика; письма отправляются синхронно в ходе запроса.
package cronreminders

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	services "github.com/magabrotheeeer/membership-directory/internal/services/reminder"
)

// Service описывает интерфейс задачи напоминаний.
type Service interface {
	Run(ctx context.Context, now time.Time) (*services.RunReport, error)
}

// Handler обрабатывает HTTP-запросы запуска задачи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Запустить задачу напоминаний о продлении
// @Tags Cron
// @Produce  json
// @Success 200 {object} map[string]any "Отчёт о прогоне"
// @Failure 401 {object} response.ErrorResponse "Неверный секрет"
// @Failure 500 {object} response.ErrorResponse "Сбой прогона"
// @Router /cron/renewal-reminders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cronreminders"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	report, err := h.service.Run(r.Context(), time.Now().UTC())
	if err != nil {
		log.Error("reminder run failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("reminder run failed"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(report))
}
