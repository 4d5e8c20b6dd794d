// Package password хеширует и проверяет пароли через bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinLength минимальная длина пароля при регистрации и сбросе.
const MinLength = 8

// GetHash возвращает bcrypt-хэш пароля для хранения в базе.
// Соль генерируется самим bcrypt, два вызова дают разные хэши.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(hash), nil
}

// CompareHash проверяет пароль против сохранённого хэша.
// Возвращает nil при совпадении.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"

	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
