// Package directory реализует HTTP-обработчик публичного каталога
// профессионалов. Фильтры передаются query-параметрами: category, city, q.
package directory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, filter models.DirectoryFilter) ([]*models.DirectoryEntry, error)
}

// Handler обрабатывает HTTP-запросы каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичный каталог профессионалов
// @Description Возвращает опубликованные профили активных пользователей. Поддерживает фильтры по категории, городу и подстроке.
// @Tags Directory
// @Produce  json
// @Param category query int false "ID категории"
// @Param city query string false "Город"
// @Param q query string false "Поиск по названию и описанию"
// @Success 200 {object} map[string]any "Строки каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/directory [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.directory"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var filter models.DirectoryFilter
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid category id"))
			return
		}
		filter.CategoryID = id
	}
	filter.City = r.URL.Query().Get("city")
	filter.Query = r.URL.Query().Get("q")

	entries, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list directory", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]any{
			"slug":         e.Profile.Slug,
			"company_name": e.Profile.CompanyName,
			"description":  e.Profile.Description,
			"city":         e.Profile.City,
			"address":      e.Profile.Address,
			"phone":        e.Profile.Phone,
			"website":      e.Profile.Website,
			"category":     e.CategoryName,
			"first_name":   e.FirstName,
			"last_name":    e.LastName,
		})
	}
	render.JSON(w, r, response.StatusOKWithData(items))
}
