package models

import "time"

// Subscriber контакт из списка рассылки. Отдельное пространство имён
// от членов ассоциации: без пароля, только адрес и язык.
type Subscriber struct {
	ID        int64
	Email     string
	Locale    string
	CreatedAt time.Time
}

// Article материал сообщества, попадающий в дайджест рассылки.
type Article struct {
	ID          int64
	Title       string
	Content     string
	AuthorName  string
	IsPublished bool
	CreatedAt   time.Time
}

// Newsletter журнальная запись об отправленной рассылке.
type Newsletter struct {
	ID             int64
	Subject        string
	SentAt         time.Time
	RecipientCount int
}

// CuratedLink внешняя ссылка, добавляемая администратором в дайджест.
// Ссылки приходят в запросе отправки и нигде не сохраняются.
type CuratedLink struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,url"`
}

// DispatchReport итог массовой отправки: успешные и неуспешные адреса.
type DispatchReport struct {
	SentCount int      `json:"sent_count"`
	Failed    []string `json:"failed,omitempty"`
}
