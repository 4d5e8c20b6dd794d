package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange имя direct-обменника уведомлений.
const Exchange = "notifications"

// Очереди и ключи маршрутизации напоминаний о продлении членства.
const (
	QueueReminderUpcoming = "reminder.upcoming"
	QueueReminderExpired  = "reminder.expired"
	KeyUpcoming           = "upcoming"
	KeyExpired            = "expired"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetReminderQueues возвращает конфигурацию очередей напоминаний.
func GetReminderQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueReminderUpcoming, RoutingKey: KeyUpcoming},
		{QueueName: QueueReminderExpired, RoutingKey: KeyExpired},
	}
}

// SetupChannel открывает канал, объявляет обменник и связывает очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			Exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
