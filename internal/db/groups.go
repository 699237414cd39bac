package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/madraimov/teacher-activity-bot/internal/models"
	"go.uber.org/zap"
)

type GroupStore struct {
	db  *sql.DB
	log *zap.Logger
}

func NewGroupStore(database *sql.DB, log *zap.Logger) *GroupStore {
	return &GroupStore{db: database, log: log}
}

func (s *GroupStore) Add(ctx context.Context, chatID int64, title string) (bool, string, error) {
	if chatID == 0 {
		return false, "chat ID must not be zero", nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Group %d", chatID)
	}

	if existing, err := s.Get(ctx, chatID); err != nil {
		return false, "", err
	} else if existing != nil {
		return false, "this group is already registered", nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (chat_id, title) VALUES ($1, $2)`, chatID, title)
	if err != nil {
		if isUniqueViolation(err) {
			return false, "this group is already registered", nil
		}
		return false, "", err
	}
	s.log.Info("group registered", zap.Int64("chat_id", chatID), zap.String("title", title))
	return true, "", nil
}

func (s *GroupStore) Get(ctx context.Context, chatID int64) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chat_id, title, enabled, created_at
		FROM groups WHERE chat_id = $1`, chatID)

	var g models.Group
	err := row.Scan(&g.ChatID, &g.Title, &g.Enabled, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GroupStore) List(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chat_id, title, enabled, created_at
		FROM groups ORDER BY title, chat_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ChatID, &g.Title, &g.Enabled, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *GroupStore) Rename(ctx context.Context, chatID int64, newTitle string) (bool, string, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return false, "title must not be empty", nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET title = $1 WHERE chat_id = $2`, newTitle, chatID)
	if err != nil {
		return false, "", err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return false, "group not found", nil
	}
	return true, "", nil
}

func (s *GroupStore) SetEnabled(ctx context.Context, chatID int64, enabled bool) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET enabled = $1 WHERE chat_id = $2`, enabled, chatID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// Deactivate выключает группу и снимает все назначения на неё. Используется,
// когда бота удалили из чата и при периодической сверке групп.
func (s *GroupStore) Deactivate(ctx context.Context, chatID int64) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE groups SET enabled = FALSE WHERE chat_id = $1`, chatID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE chat_id = $1`, chatID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Info("group deactivated", zap.Int64("chat_id", chatID))
	return nil
}

// Delete удаляет группу и её рёбра; бакеты активности остаются.
func (s *GroupStore) Delete(ctx context.Context, chatID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM groups WHERE chat_id = $1`, chatID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE chat_id = $1`, chatID); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	s.log.Info("group deleted", zap.Int64("chat_id", chatID))
	return true, nil
}
