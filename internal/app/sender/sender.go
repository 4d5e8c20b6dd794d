// Package sender содержит приложение-отправитель: потребляет очереди
// напоминаний из RabbitMQ и отправляет письма через SMTP.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-directory/internal/config"
	"github.com/magabrotheeeer/membership-directory/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/membership-directory/internal/lib/sl"
	"github.com/magabrotheeeer/membership-directory/internal/lib/smtp"
	"github.com/magabrotheeeer/membership-directory/internal/services/mailer"
	senderservice "github.com/magabrotheeeer/membership-directory/internal/services/sender"
)

// App представляет приложение-отправитель.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения-отправителя.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	mail := mailer.New(transport, logger, cfg.PublicBaseURL, cfg.AdminEmail, cfg.ContactEmail)
	senderService := senderservice.NewSenderService(mail, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди напоминаний и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueReminderUpcoming, a.senderService.HandleReminder)
	if err != nil {
		a.logger.Error("failed to start reminder.upcoming consumer", sl.Err(err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueReminderExpired, a.senderService.HandleReminder)
	if err != nil {
		a.logger.Error("failed to start reminder.expired consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
