// Package server предоставляет маршруты веб-приложения ассоциации.
package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/membership-directory/internal/config"
	accountupdate "github.com/magabrotheeeer/membership-directory/internal/http/handlers/account/update"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/account/updateprofile"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/eventcreate"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/eventremove"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/eventslist"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/eventupdate"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/profilepublish"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/profileslist"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/userapprove"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/userremove"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/userslist"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/admin/usersuspend"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/categories"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/contact"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/cronreminders"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/directory"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/eventget"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/events"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/health"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/news"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/newsletterpdf"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/newslettersend"
	"github.com/magabrotheeeer/membership-directory/internal/http/handlers/subscribe"
	"github.com/magabrotheeeer/membership-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-directory/internal/http/pages"
	accountservice "github.com/magabrotheeeer/membership-directory/internal/services/account"
	adminservice "github.com/magabrotheeeer/membership-directory/internal/services/admin"
	authservice "github.com/magabrotheeeer/membership-directory/internal/services/auth"
	directoryservice "github.com/magabrotheeeer/membership-directory/internal/services/directory"
	eventservice "github.com/magabrotheeeer/membership-directory/internal/services/events"
	"github.com/magabrotheeeer/membership-directory/internal/services/mailer"
	newsservice "github.com/magabrotheeeer/membership-directory/internal/services/news"
	newsletterservice "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
	reminderservice "github.com/magabrotheeeer/membership-directory/internal/services/reminder"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// Services собирает зависимости маршрутов в одном месте.
type Services struct {
	Auth       *authservice.AuthService
	Account    *accountservice.AccountService
	Admin      *adminservice.AdminService
	Directory  *directoryservice.DirectoryService
	Events     *eventservice.EventService
	Newsletter *newsletterservice.NewsletterService
	Reminder   *reminderservice.ReminderService
	News       *newsservice.NewsService
	Mailer     *mailer.Mailer
	Storage    *storage.Storage
	Pages      *pages.Pages
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, s.Auth, cfg.SecureCookies).ServeHTTP)
			r.Post("/forgot-password", forgotpassword.New(logger, s.Auth).ServeHTTP)
			r.Post("/reset-password", resetpassword.New(logger, s.Auth).ServeHTTP)
			r.Post("/contact", contact.New(logger, s.Mailer).ServeHTTP)
			r.Post("/newsletter/subscribe", subscribe.New(logger, s.Newsletter, cfg.DefaultLocale).ServeHTTP)
		})
		r.Post("/logout", logout.New(logger, cfg.SecureCookies).ServeHTTP)

		r.Get("/directory", directory.New(logger, s.Directory).ServeHTTP)
		r.Get("/categories", categories.New(logger, s.Directory).ServeHTTP)
		r.Get("/events", events.New(logger, s.Events).ServeHTTP)
		r.Get("/events/{id}", eventget.New(logger, s.Events).ServeHTTP)
		r.Get("/news", news.New(logger, s.News).ServeHTTP)

		// Личный кабинет
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Get("/me", me.New(logger, s.Account).ServeHTTP)
			r.Put("/me", accountupdate.New(logger, s.Account).ServeHTTP)
			r.Put("/me/profile", updateprofile.New(logger, s.Account).ServeHTTP)
		})

		// Админка
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Get("/users", userslist.New(logger, s.Admin).ServeHTTP)
			r.Post("/users/{uid}/approve", userapprove.New(logger, s.Admin).ServeHTTP)
			r.Post("/users/{uid}/suspend", usersuspend.New(logger, s.Admin).ServeHTTP)
			r.Delete("/users/{uid}", userremove.New(logger, s.Admin).ServeHTTP)
			r.Get("/professionals", profileslist.New(logger, s.Admin).ServeHTTP)
			r.Post("/professionals/{id}/publish", profilepublish.New(logger, s.Admin, true).ServeHTTP)
			r.Post("/professionals/{id}/unpublish", profilepublish.New(logger, s.Admin, false).ServeHTTP)
			r.Get("/events", eventslist.New(logger, s.Events).ServeHTTP)
			r.Post("/events", eventcreate.New(logger, s.Events).ServeHTTP)
			r.Put("/events/{id}", eventupdate.New(logger, s.Events).ServeHTTP)
			r.Delete("/events/{id}", eventremove.New(logger, s.Events).ServeHTTP)
			r.Post("/newsletter/send", newslettersend.New(logger, s.Newsletter).ServeHTTP)
			r.Post("/newsletter/pdf", newsletterpdf.New(logger, s.Newsletter).ServeHTTP)
		})
	})

	// Служебный запуск напоминаний внешним планировщиком
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.CronSecretMiddleware(cfg.CronSecret, logger))
		r.Post("/cron/renewal-reminders", cronreminders.New(logger, s.Reminder).ServeHTTP)
	})

	// HTML-страницы
	r.Handle("/static/*", pages.StaticHandler())
	r.Get("/", s.Pages.RedirectToDefaultLocale)
	r.Route("/{locale}", func(r chi.Router) {
		r.Get("/", s.Pages.Render("home.html"))
		r.With(middlewarectx.RedirectIfAuthenticated(s.Auth, cfg.DefaultLocale)).
			Get("/connexion", s.Pages.Render("login.html"))
		r.With(middlewarectx.RequireAuthPage(s.Auth, cfg.DefaultLocale)).
			Get("/mon-compte", s.Pages.Render("account.html"))
		r.With(middlewarectx.RequireAdminPage(s.Auth, cfg.DefaultLocale)).
			Get("/admin", s.Pages.Render("admin.html"))
	})

	r.Get("/health", health.New(logger, s.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
