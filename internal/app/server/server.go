// Package server собирает основное веб-приложение ассоциации: хранилище,
// кеш, почту, бизнес-сервисы, маршруты и жизненный цикл HTTP-сервера.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/membership-directory/internal/cache"
	"github.com/magabrotheeeer/membership-directory/internal/config"
	"github.com/magabrotheeeer/membership-directory/internal/http/pages"
	"github.com/magabrotheeeer/membership-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-directory/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-directory/internal/migrations"
	"github.com/magabrotheeeer/membership-directory/internal/services/mailer"
	accountservice "github.com/magabrotheeeer/membership-directory/internal/services/account"
	adminservice "github.com/magabrotheeeer/membership-directory/internal/services/admin"
	authservice "github.com/magabrotheeeer/membership-directory/internal/services/auth"
	directoryservice "github.com/magabrotheeeer/membership-directory/internal/services/directory"
	eventservice "github.com/magabrotheeeer/membership-directory/internal/services/events"
	newsservice "github.com/magabrotheeeer/membership-directory/internal/services/news"
	newsletterservice "github.com/magabrotheeeer/membership-directory/internal/services/newsletter"
	reminderservice "github.com/magabrotheeeer/membership-directory/internal/services/reminder"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// App основное веб-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New подключает зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mail := mailer.New(transport, logger, cfg.PublicBaseURL, cfg.AdminEmail, cfg.ContactEmail)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, mail, logger)
	accountService := accountservice.NewAccountService(db, logger)
	directoryService := directoryservice.NewDirectoryService(db, cacheRedis, logger)
	adminService := adminservice.NewAdminService(db, mail, directoryService, logger)
	eventService := eventservice.NewEventService(db, logger)
	newsletterService := newsletterservice.NewNewsletterService(db, mail, logger)
	reminderService := reminderservice.NewReminderService(db, mail, directoryService, logger)
	newsService := newsservice.NewNewsService(cacheRedis, cfg.NewsFeedURLs, logger)

	sitePages, err := pages.New(logger, cfg.DefaultLocale)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, &Services{
		Auth:       authService,
		Account:    accountService,
		Admin:      adminService,
		Directory:  directoryService,
		Events:     eventService,
		Newsletter: newsletterService,
		Reminder:   reminderService,
		News:       newsService,
		Mailer:     mail,
		Storage:    db,
		Pages:      sitePages,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
