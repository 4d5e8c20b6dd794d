package models

import "time"

// Event событие ассоциации, публикуемое администратором.
type Event struct {
	ID          int64     // Идентификатор события
	Title       string    // Заголовок
	Description string    // Описание
	EventDate   time.Time // Дата проведения
	Location    string    // Место проведения
	ImageURL    string    // Ссылка на изображение
	IsPublished bool      // Видимость на публичных страницах
	CreatedAt   time.Time // Дата создания записи
}

// DummyEvent используется для приёма данных события из JSON-запроса,
// прежде чем конвертировать их в Event. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyEvent struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`   // Заголовок
	Description string `json:"description" validate:"required"`           // Описание
	EventDate   string `json:"event_date" validate:"required"`            // Дата в формате 02-01-2006
	Location    string `json:"location" validate:"required,max=200"`      // Место
	ImageURL    string `json:"image_url" validate:"omitempty,url"`        // Изображение
	IsPublished bool   `json:"is_published"`                              // Публиковать сразу
}
