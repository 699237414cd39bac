package models

import "time"

type Teacher struct {
	ID         string    `db:"id"`
	FullName   string    `db:"full_name"`
	TelegramID int64     `db:"telegram_id"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
}

type Group struct {
	ChatID    int64     `db:"chat_id"`
	Title     string    `db:"title"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
}

type PendingRegistration struct {
	TelegramID int64     `db:"telegram_id"`
	FullName   string    `db:"full_name"`
	CreatedAt  time.Time `db:"created_at"`
}
