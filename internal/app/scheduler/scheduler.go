// Package scheduler содержит приложение планировщика напоминаний о продлении
// членства. По расписанию запускает задачу напоминаний, которая публикует
// уведомления в RabbitMQ для процесса-отправителя.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-directory/internal/cache"
	"github.com/magabrotheeeer/membership-directory/internal/config"
	"github.com/magabrotheeeer/membership-directory/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	directoryservice "github.com/magabrotheeeer/membership-directory/internal/services/directory"
	reminderservice "github.com/magabrotheeeer/membership-directory/internal/services/reminder"
	"github.com/magabrotheeeer/membership-directory/internal/storage"
)

// App представляет приложение планировщика.
type App struct {
	reminderService *reminderservice.ReminderService
	cron            *cron.Cron
	spec            string
	conn            *amqp.Connection
	ch              *amqp.Channel
	logger          *slog.Logger
}

func waitForDB(ctx context.Context, db *storage.Storage) error {
	for range 10 {
		if err := db.CheckDatabaseReady(ctx); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(ctx, db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	// Кеш каталога общий с веб-приложением, после каскада просрочки
	// его нужно сбросить и отсюда.
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	directoryService := directoryservice.NewDirectoryService(db, cacheRedis, logger)

	publisher := rabbitmq.NewReminderPublisher(ch)
	reminderService := reminderservice.NewReminderService(db, publisher, directoryService, logger)

	return &App{
		reminderService: reminderService,
		cron:            cron.New(),
		spec:            cfg.SchedulerSpec,
		conn:            conn,
		ch:              ch,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает планировщик и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	_, err := a.cron.AddFunc(a.spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if _, err := a.reminderService.Run(runCtx, time.Now().UTC()); err != nil {
			a.logger.Error("reminder run failed", sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", a.spec, err)
	}

	a.cron.Start()
	a.logger.Info("scheduler started", slog.String("spec", a.spec))

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	stopCtx := a.cron.Stop()
	<-stopCtx.Done()

	closeResources(a.ch, a.conn, a.logger)
	return nil
}
