// Package pages отдаёт HTML-оболочки сайта: главную, вход, личный кабинет
// и админку. Шаблоны встроены в бинарник, данные страницы подгружаются
// клиентским кодом через JSON API.
package pages

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData данные, доступные каждому шаблону.
type PageData struct {
	Locale   string
	ReturnTo string
}

// Pages рендерит HTML-оболочки.
type Pages struct {
	log           *slog.Logger
	tmpl          *template.Template
	defaultLocale string
}

// New разбирает встроенные шаблоны.
func New(log *slog.Logger, defaultLocale string) (*Pages, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{log: log, tmpl: tmpl, defaultLocale: defaultLocale}, nil
}

// Render возвращает http.HandlerFunc, отдающий именованный шаблон.
func (p *Pages) Render(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locale := chi.URLParam(r, "locale")
		if locale == "" {
			locale = p.defaultLocale
		}
		data := PageData{
			Locale:   locale,
			ReturnTo: r.URL.Query().Get("returnTo"),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
			p.log.Error("failed to render page", "template", name, sl.Err(err))
		}
	}
}

// RedirectToDefaultLocale уводит запрос без языкового префикса на
// главную страницу языка по умолчанию.
func (p *Pages) RedirectToDefaultLocale(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+p.defaultLocale, http.StatusFound)
}

// StaticHandler отдаёт встроенные статические файлы под /static/.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}
