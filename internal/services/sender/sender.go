// Package services содержит обработку сообщений из очередей напоминаний:
// десериализацию и передачу почтовому сервису.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// Notifier отправляет письмо-напоминание владельцу подписки.
type Notifier interface {
	SendRenewalReminder(info models.ReminderInfo) error
}

// SenderService превращает сообщения брокера в письма.
type SenderService struct {
	notifier Notifier
	log      *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(notifier Notifier, log *slog.Logger) *SenderService {
	return &SenderService{notifier: notifier, log: log}
}

// HandleReminder обрабатывает одно сообщение очереди напоминаний.
// Ошибка приводит к Nack и повторной доставке сообщения.
func (s *SenderService) HandleReminder(body []byte) error {
	const op = "services.sender.HandleReminder"

	var info models.ReminderInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.notifier.SendRenewalReminder(info); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("reminder delivered",
		slog.String("email", info.Email), slog.String("window", info.Window))
	return nil
}
