// Package models содержит доменные структуры ассоциации: пользователей,
// профессиональные профили, события, подписки и рассылку.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleMember       = "MEMBER"
	RoleProfessional = "PROFESSIONAL"
	RoleAdmin        = "ADMIN"
)

// Статусы учётной записи.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusExpired   = "EXPIRED"
)

// User представляет зарегистрированного пользователя ассоциации.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Role         string    // Роль: MEMBER, PROFESSIONAL или ADMIN
	Status       string    // Статус: PENDING, ACTIVE, SUSPENDED или EXPIRED
	Locale       string    // Язык интерфейса и писем, например "fr"
	CreatedAt    time.Time // Дата регистрации
}

// FullName возвращает имя и фамилию одной строкой.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
