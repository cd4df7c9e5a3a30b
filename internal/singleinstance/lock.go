// Package singleinstance не даёт запустить второй экземпляр приложения:
// две копии зарегистрировали бы одни и те же глобальные клавиши.
package singleinstance

import (
	"errors"
	"os"
	"os/user"
	"strings"
	"unicode"
)

// ErrAlreadyRunning возвращается TryLock, если блокировку держит другой процесс.
var ErrAlreadyRunning = errors.New("приложение уже запущено")

// DefaultName возвращает имя блокировки для текущего пользователя.
func DefaultName() string {
	username := strings.TrimSpace(os.Getenv("USER"))
	if username == "" {
		username = strings.TrimSpace(os.Getenv("USERNAME"))
	}
	if username == "" {
		if current, err := user.Current(); err == nil {
			username = current.Username
		}
	}
	return "tambourine-" + sanitize(username)
}

// sanitize оставляет в имени только буквы, цифры, точку и дефис.
func sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return '_'
	}, value)
}
