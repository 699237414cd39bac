package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/madraimov/teacher-activity-bot/internal/models"
)

// PendingStore — короткоживущая очередь заявок на регистрацию.
// На один telegram id — не больше одной заявки; повторная подача
// перезаписывает имя и время.
type PendingStore struct {
	db *sql.DB
}

func NewPendingStore(database *sql.DB) *PendingStore {
	return &PendingStore{db: database}
}

func (s *PendingStore) Add(ctx context.Context, telegramID int64, fullName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_registrations (telegram_id, full_name)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET full_name = excluded.full_name, created_at = now()`,
		telegramID, fullName)
	return err
}

func (s *PendingStore) Get(ctx context.Context, telegramID int64) (*models.PendingRegistration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT telegram_id, full_name, created_at
		FROM pending_registrations WHERE telegram_id = $1`, telegramID)

	var p models.PendingRegistration
	err := row.Scan(&p.TelegramID, &p.FullName, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PendingStore) Remove(ctx context.Context, telegramID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_registrations WHERE telegram_id = $1`, telegramID)
	return err
}

func (s *PendingStore) List(ctx context.Context) ([]models.PendingRegistration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT telegram_id, full_name, created_at
		FROM pending_registrations ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.PendingRegistration
	for rows.Next() {
		var p models.PendingRegistration
		if err := rows.Scan(&p.TelegramID, &p.FullName, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GenerateTeacherID подбирает свободный код вида T0000, перепроверяя каждую
// попытку по таблице teachers.
func (s *PendingStore) GenerateTeacherID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		id := fmt.Sprintf("T%04d", rand.IntN(10000))
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not find a free teacher ID")
}
