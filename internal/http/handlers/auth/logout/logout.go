// Package logout реализует HTTP-обработчик выхода из личного кабинета.
// Сессия хранится только в cookie, поэтому выход сводится к её удалению.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/http/response"
)

// Handler обрабатывает HTTP-запросы выхода.
type Handler struct {
	log           *slog.Logger
	secureCookies bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, secureCookies bool) *Handler {
	return &Handler{log: log, secureCookies: secureCookies}
}

// ServeHTTP godoc
// @Summary Выход из личного кабинета
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /api/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	render.JSON(w, r, response.OK())
}
