// Package validate содержит чистые проверки форм идентификаторов и имён.
// Никакой записи в хранилище при неуспешной проверке не происходит —
// функции вызываются сторами до любой мутации.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	teacherIDMinLen = 3
	teacherIDMaxLen = 16

	fullNameMinVisible = 5

	// Telegram user id — положительное число; верхнюю границу берём с запасом.
	telegramIDMax = int64(1e15)
)

// TeacherID — код учителя: 3–16 символов [A-Za-z0-9].
func TeacherID(s string) (bool, string) {
	if n := len(s); n < teacherIDMinLen || n > teacherIDMaxLen {
		return false, fmt.Sprintf("teacher ID must be %d-%d characters long", teacherIDMinLen, teacherIDMaxLen)
	}
	for _, r := range s {
		if !isAlnum(r) {
			return false, "teacher ID may contain only Latin letters and digits"
		}
	}
	return true, ""
}

// FullName — отображаемое имя: не пустое и не короче 5 видимых символов.
func FullName(s string) (bool, string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false, "name must not be empty"
	}
	visible := utf8.RuneCountInString(strings.ReplaceAll(trimmed, " ", ""))
	if visible < fullNameMinVisible {
		return false, fmt.Sprintf("name is too short (min %d characters)", fullNameMinVisible)
	}
	return true, ""
}

// TelegramID — внешний идентификатор аккаунта мессенджера.
func TelegramID(n int64) (bool, string) {
	if n <= 0 {
		return false, "telegram ID must be a positive number"
	}
	if n > telegramIDMax {
		return false, "telegram ID is implausibly large"
	}
	return true, ""
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
