package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/madraimov/teacher-activity-bot/internal/core/validate"
	"github.com/madraimov/teacher-activity-bot/internal/models"
	"go.uber.org/zap"
)

// TeacherStore владеет таблицей teachers и обратным индексом telegram_id → id.
// Уникальность кода и telegram id проверяется здесь, а не вызывающим кодом;
// констрейнты БД страхуют от гонки параллельных добавлений.
type TeacherStore struct {
	db  *sql.DB
	log *zap.Logger
}

func NewTeacherStore(database *sql.DB, log *zap.Logger) *TeacherStore {
	return &TeacherStore{db: database, log: log}
}

// Add создаёт учителя. Отказ (невалидные данные, занятый код или telegram id)
// возвращается как (false, причина); err — только сбой хранилища.
func (s *TeacherStore) Add(ctx context.Context, id, fullName string, telegramID int64) (bool, string, error) {
	if ok, reason := validate.TeacherID(id); !ok {
		return false, reason, nil
	}
	if ok, reason := validate.FullName(fullName); !ok {
		return false, reason, nil
	}
	if ok, reason := validate.TelegramID(telegramID); !ok {
		return false, reason, nil
	}

	if existing, err := s.Get(ctx, id); err != nil {
		return false, "", err
	} else if existing != nil {
		return false, fmt.Sprintf("teacher ID %q already exists", id), nil
	}
	if boundTo, found, err := s.FindByTelegramID(ctx, telegramID); err != nil {
		return false, "", err
	} else if found {
		return false, fmt.Sprintf("telegram ID %d is already assigned to teacher %q", telegramID, boundTo), nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teachers (id, full_name, telegram_id)
		VALUES ($1, $2, $3)`, id, fullName, telegramID)
	if err != nil {
		if isUniqueViolation(err) {
			// проиграли гонку параллельному добавлению
			return false, "teacher ID or telegram ID is already taken", nil
		}
		return false, "", err
	}
	s.log.Info("teacher added", zap.String("id", id), zap.Int64("telegram_id", telegramID))
	return true, "", nil
}

// Get возвращает (nil, nil), если учителя нет: отсутствие — ожидаемый случай.
func (s *TeacherStore) Get(ctx context.Context, id string) (*models.Teacher, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, telegram_id, active, created_at
		FROM teachers WHERE id = $1`, id)

	var t models.Teacher
	err := row.Scan(&t.ID, &t.FullName, &t.TelegramID, &t.Active, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TeacherStore) List(ctx context.Context) ([]models.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, telegram_id, active, created_at
		FROM teachers ORDER BY full_name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Teacher
	for rows.Next() {
		var t models.Teacher
		if err := rows.Scan(&t.ID, &t.FullName, &t.TelegramID, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FindByTelegramID — обратный индекс; живёт на UNIQUE-колонке таблицы,
// поэтому разъехаться с прямой таблицей не может.
func (s *TeacherStore) FindByTelegramID(ctx context.Context, telegramID int64) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM teachers WHERE telegram_id = $1`, telegramID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// GetByTelegramID — полная запись по telegram id; (nil, nil), если привязки нет.
func (s *TeacherStore) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Teacher, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, telegram_id, active, created_at
		FROM teachers WHERE telegram_id = $1`, telegramID)

	var t models.Teacher
	err := row.Scan(&t.ID, &t.FullName, &t.TelegramID, &t.Active, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TeacherStore) Rename(ctx context.Context, id, newName string) (bool, string, error) {
	if ok, reason := validate.FullName(newName); !ok {
		return false, reason, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE teachers SET full_name = $1 WHERE id = $2`, newName, id)
	if err != nil {
		return false, "", err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return false, fmt.Sprintf("teacher %q not found", id), nil
	}
	return true, "", nil
}

func (s *TeacherStore) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teachers SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// Delete удаляет учителя и все его рёбра назначений одной транзакцией.
// Бакеты активности не трогаем: история остаётся адресуемой по id.
func (s *TeacherStore) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE teacher_id = $1`, id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	s.log.Info("teacher deleted", zap.String("id", id))
	return true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
