package db

import (
	"context"
	"database/sql"

	"github.com/madraimov/teacher-activity-bot/internal/models"
)

// Diagnostics — read-only сводка по хранилищу; побочных эффектов нет.
type Diagnostics struct {
	db *sql.DB
}

func NewDiagnostics(database *sql.DB) *Diagnostics {
	return &Diagnostics{db: database}
}

func (d *Diagnostics) Snapshot(ctx context.Context) (*models.DiagSnapshot, error) {
	snap := &models.DiagSnapshot{GroupTitlesByID: make(map[int64]string)}

	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE active)
		FROM teachers`).Scan(&snap.TeachersCount, &snap.ActiveTeachers)
	if err != nil {
		return nil, err
	}

	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE enabled)
		FROM groups`).Scan(&snap.GroupsCount, &snap.EnabledGroups)
	if err != nil {
		return nil, err
	}

	if err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT day) FROM activity`).Scan(&snap.ActivityDays); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, `SELECT id FROM teachers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		snap.TeacherIDs = append(snap.TeacherIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	grows, err := d.db.QueryContext(ctx, `SELECT chat_id, title FROM groups ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = grows.Close() }()
	for grows.Next() {
		var (
			chatID int64
			title  string
		)
		if err := grows.Scan(&chatID, &title); err != nil {
			return nil, err
		}
		snap.GroupTitlesByID[chatID] = title
	}
	return snap, grows.Err()
}
