// Package slugify генерирует уникальные слаги для карточек каталога.
//
// Базовый слаг строится из имени, при коллизии добавляется числовой
// суффикс: jean-dupont, jean-dupont-1, jean-dupont-2 и так далее.
package slugify

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

// ExistsFunc сообщает, занят ли слаг в хранилище.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// maxAttempts ограничивает перебор суффиксов при вырожденных данных.
const maxAttempts = 1000

// Unique возвращает первый свободный слаг для name.
//
// Цикл чтение-проверка не атомарен при конкурентных регистрациях
// с одинаковыми именами, поэтому хранилище держит UNIQUE-ограничение,
// а вызывающая сторона повторяет попытку при нарушении уникальности.
func Unique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	const op = "slugify.Unique"

	base := slug.Make(name)
	candidate := base
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: no free slug for %q", op, name)
}

// Next возвращает следующий кандидат после занятого слага taken.
// Используется при повторе после нарушения UNIQUE-ограничения.
func Next(base string, attempt int) string {
	if attempt <= 0 {
		return slug.Make(base)
	}
	return fmt.Sprintf("%s-%d", slug.Make(base), attempt)
}
