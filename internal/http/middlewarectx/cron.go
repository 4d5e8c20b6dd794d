package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-directory/internal/http/response"
)

// CronSecretMiddleware защищает служебные cron-эндпоинты общим секретом
// в заголовке Authorization: Bearer <secret>.
func CronSecretMiddleware(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.Error("invalid cron secret")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid cron secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
