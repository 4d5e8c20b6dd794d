package middlewarectx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// localeFromRequest берёт языковой префикс из URL страницы. Страницы
// монтируются под /{locale}/..., при отсутствии параметра действует
// язык по умолчанию.
func localeFromRequest(r *http.Request, defaultLocale string) string {
	if loc := chi.URLParam(r, "locale"); loc != "" {
		return loc
	}
	return defaultLocale
}

// RequireAuthPage защищает HTML-страницы личного кабинета. Анонимный
// посетитель получает 302 на страницу входа с параметром returnTo,
// чтобы после входа вернуться на запрошенную страницу.
func RequireAuthPage(authService Service, defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr != "" {
				userUID, role, err := authService.ValidateToken(r.Context(), tokenStr)
				if err == nil {
					ctx := context.WithValue(r.Context(), UserUID, userUID)
					ctx = context.WithValue(ctx, Role, role)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			locale := localeFromRequest(r, defaultLocale)
			loginURL := "/" + locale + "/connexion?returnTo=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, loginURL, http.StatusFound)
		})
	}
}

// RequireAdminPage защищает HTML-страницы админки. Посетитель без роли
// ADMIN получает 302 на главную страницу своего языка, без раскрытия
// существования раздела.
func RequireAdminPage(authService Service, defaultLocale string) func(http.Handler) http.Handler {
	requireAuth := RequireAuthPage(authService, defaultLocale)
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(Role).(string)
			if role != models.RoleAdmin {
				locale := localeFromRequest(r, defaultLocale)
				http.Redirect(w, r, "/"+locale, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RedirectIfAuthenticated уводит уже вошедшего пользователя со страницы
// входа в личный кабинет.
func RedirectIfAuthenticated(authService Service, defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := TokenFromRequest(r); tokenStr != "" {
				if _, _, err := authService.ValidateToken(r.Context(), tokenStr); err == nil {
					locale := localeFromRequest(r, defaultLocale)
					http.Redirect(w, r, "/"+locale+"/mon-compte", http.StatusFound)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
