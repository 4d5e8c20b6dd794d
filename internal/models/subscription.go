package models

import "time"

// Статусы членского взноса.
const (
	SubscriptionActive  = "ACTIVE"
	SubscriptionExpired = "EXPIRED"
)

// Subscription отслеживает оплаченный период членства пользователя.
// Читается страницей личного кабинета и мутируется задачей напоминаний:
// переход ACTIVE -> EXPIRED каскадно меняет статус пользователя
// и снимает публикацию профессионального профиля.
type Subscription struct {
	ID                 int64     // Идентификатор записи
	UserUID            string    // Владелец подписки
	Status             string    // ACTIVE или EXPIRED
	CurrentPeriodStart time.Time // Начало оплаченного периода
	CurrentPeriodEnd   time.Time // Конец оплаченного периода
}

// ReminderInfo данные для письма-напоминания об истечении членства.
type ReminderInfo struct {
	SubscriptionID int64     `json:"subscription_id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	Locale         string    `json:"locale"`
	PeriodEnd      time.Time `json:"period_end"`
	Window         string    `json:"window"` // upcoming30, upcoming7 или expired
}

// Окна напоминаний задачи продления.
const (
	WindowUpcoming30 = "upcoming30"
	WindowUpcoming7  = "upcoming7"
	WindowExpired    = "expired"
)
