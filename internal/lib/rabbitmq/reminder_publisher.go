package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/membership-directory/internal/models"
)

// ReminderPublisher публикует напоминания о продлении членства в обменник
// уведомлений. Реализует интерфейс Notifier задачи напоминаний, чтобы
// планировщик отдавал письма процессу-отправителю вместо синхронной отправки.
type ReminderPublisher struct {
	ch *amqp.Channel
}

// NewReminderPublisher создает новый экземпляр ReminderPublisher.
func NewReminderPublisher(ch *amqp.Channel) *ReminderPublisher {
	return &ReminderPublisher{ch: ch}
}

// SendRenewalReminder публикует напоминание с ключом маршрутизации по окну.
func (p *ReminderPublisher) SendRenewalReminder(info models.ReminderInfo) error {
	key := KeyUpcoming
	if info.Window == models.WindowExpired {
		key = KeyExpired
	}
	return PublishMessage(p.ch, Exchange, key, info)
}
