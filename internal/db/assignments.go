package db

import (
	"context"
	"database/sql"
)

// AssignmentStore — неупорядоченное множество пар (teacher_id, chat_id).
// Рёбра не проверяют существование сущностей: чтение по удалённому id
// возвращает пустой результат, а не ошибку.
type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(database *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: database}
}

// Toggle добавляет ребро, если его нет, и снимает, если есть. Два вызова
// подряд возвращают исходное состояние. Возвращает новое состояние и
// человекочитаемый статус для ответа в чате.
// Проверка и запись идут в одной транзакции под advisory-локом пары:
// конкурентные переключения одного ребра сериализуются и каждое видит
// результат предыдущего.
func (s *AssignmentStore) Toggle(ctx context.Context, teacherID string, chatID int64) (bool, string, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2::text, 0))`,
		teacherID, chatID); err != nil {
		return false, "", err
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM assignments WHERE teacher_id = $1 AND chat_id = $2`, teacherID, chatID)
	if err != nil {
		return false, "", err
	}
	if aff, _ := res.RowsAffected(); aff > 0 {
		if err := tx.Commit(); err != nil {
			return false, "", err
		}
		return false, "➖ Removed from group", nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (teacher_id, chat_id)
		VALUES ($1, $2)`, teacherID, chatID); err != nil {
		return false, "", err
	}
	if err := tx.Commit(); err != nil {
		return false, "", err
	}
	return true, "✅ Assigned to group", nil
}

func (s *AssignmentStore) IsAssigned(ctx context.Context, teacherID string, chatID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM assignments WHERE teacher_id = $1 AND chat_id = $2)`,
		teacherID, chatID).Scan(&exists)
	return exists, err
}

// GroupsOf возвращает множество chat id, на которые назначен учитель.
func (s *AssignmentStore) GroupsOf(ctx context.Context, teacherID string) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id FROM assignments WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64]struct{})
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		out[chatID] = struct{}{}
	}
	return out, rows.Err()
}

func (s *AssignmentStore) RemoveAllForTeacher(ctx context.Context, teacherID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE teacher_id = $1`, teacherID)
	return err
}

func (s *AssignmentStore) RemoveAllForGroup(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE chat_id = $1`, chatID)
	return err
}
