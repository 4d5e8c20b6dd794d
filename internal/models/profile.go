package models

// ProfessionalProfile описывает публичную карточку профессионала в каталоге.
// Связана 1:1 с пользователем роли PROFESSIONAL. Флаг IsPublished управляется
// администратором независимо от статуса учётной записи.
type ProfessionalProfile struct {
	ID          int64  // Идентификатор профиля
	UserUID     string // Владелец профиля
	Slug        string // Уникальный слаг для адреса карточки
	CompanyName string // Название компании или практики
	Description string // Описание деятельности
	CategoryID  int64  // Категория каталога
	City        string // Город
	Address     string // Адрес
	Phone       string // Телефон
	Website     string // Сайт
	IsPublished bool   // Видимость в публичном каталоге
}

// DirectoryEntry строка публичного каталога: профиль вместе с данными владельца.
type DirectoryEntry struct {
	Profile      ProfessionalProfile
	FirstName    string
	LastName     string
	Email        string
	CategoryName string
}

// DirectoryFilter параметры фильтрации каталога. Пустые поля не фильтруют.
type DirectoryFilter struct {
	CategoryID int64  // Фильтр по категории, 0 — без фильтра
	City       string // Точное совпадение города без учёта регистра
	Query      string // Подстрока в названии компании или описании
}

// Category справочная категория каталога.
type Category struct {
	ID   int64
	Name string
	Slug string
}
