package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/madraimov/teacher-activity-bot/internal/metrics"
	"github.com/madraimov/teacher-activity-bot/internal/models"
	"github.com/madraimov/teacher-activity-bot/internal/observability"
	"go.uber.org/zap"
)

const dayFormat = "2006-01-02"

// ActivityStore — дневные бакеты счётчиков (day, chat_id, teacher_id, category).
// Запись идёт атомарным upsert'ом, поэтому N параллельных инкрементов одного
// ключа дают ровно N; частично записанный бакет снаружи не наблюдаем.
type ActivityStore struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
	log *zap.Logger
}

func NewActivityStore(database *sql.DB, loc *time.Location, log *zap.Logger) *ActivityStore {
	return &ActivityStore{db: database, loc: loc, now: time.Now, log: log}
}

// Today — текущая календарная дата в настроенной тайм-зоне.
func (s *ActivityStore) Today() time.Time {
	return s.now().In(s.loc)
}

// Increment добавляет ровно одну единицу в бакет. Учёт активности —
// best-effort телеметрия: сбой записи и неизвестная категория логируются и
// считаются в метрике, но никогда не прерывают обработку события.
func (s *ActivityStore) Increment(ctx context.Context, day time.Time, chatID int64, teacherID string, category models.Category) {
	if _, ok := models.ParseCategory(string(category)); !ok {
		metrics.IncrementErrors.Inc()
		s.log.Warn("unknown activity category rejected",
			zap.String("category", string(category)),
			zap.String("teacher_id", teacherID),
			zap.Int64("chat_id", chatID))
		return
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (day, chat_id, teacher_id, category, count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (day, chat_id, teacher_id, category)
		DO UPDATE SET count = activity.count + 1`,
		day.In(s.loc).Format(dayFormat), chatID, teacherID, string(category))
	if err != nil {
		metrics.IncrementErrors.Inc()
		observability.CaptureErr(err)
		s.log.Error("activity increment failed",
			zap.Error(err),
			zap.String("teacher_id", teacherID),
			zap.Int64("chat_id", chatID),
			zap.String("category", string(category)))
	}
}

// AggregateRange суммирует бакеты за последние days календарных дней,
// включая сегодняшний. Дни без активности дают нули и не требуют записей.
func (s *ActivityStore) AggregateRange(ctx context.Context, days int) (models.RangeStats, error) {
	from, to, err := s.window(days)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chat_id, teacher_id, category, SUM(count)
		FROM activity
		WHERE day >= $1 AND day <= $2
		GROUP BY chat_id, teacher_id, category`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	stats := make(models.RangeStats)
	for rows.Next() {
		var (
			chatID    int64
			teacherID string
			category  string
			total     int
		)
		if err := rows.Scan(&chatID, &teacherID, &category, &total); err != nil {
			return nil, err
		}
		cat, ok := models.ParseCategory(category)
		if !ok {
			continue
		}
		byTeacher, found := stats[chatID]
		if !found {
			byTeacher = make(map[string]models.CounterSet)
			stats[chatID] = byTeacher
		}
		cs := byTeacher[teacherID]
		cs.Add(cat, total)
		byTeacher[teacherID] = cs
	}
	return stats, rows.Err()
}

// TeacherSummary — то же окно, отфильтрованное по одному учителю,
// с итоговой строкой.
func (s *ActivityStore) TeacherSummary(ctx context.Context, teacherID string, days int) (*models.TeacherSummary, error) {
	from, to, err := s.window(days)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chat_id, category, SUM(count)
		FROM activity
		WHERE teacher_id = $1 AND day >= $2 AND day <= $3
		GROUP BY chat_id, category`,
		teacherID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	summary := &models.TeacherSummary{Groups: make(map[int64]models.CounterSet)}
	for rows.Next() {
		var (
			chatID   int64
			category string
			total    int
		)
		if err := rows.Scan(&chatID, &category, &total); err != nil {
			return nil, err
		}
		cat, ok := models.ParseCategory(category)
		if !ok {
			continue
		}
		cs := summary.Groups[chatID]
		cs.Add(cat, total)
		summary.Groups[chatID] = cs
		summary.Total.Add(cat, total)
	}
	return summary, rows.Err()
}

func (s *ActivityStore) window(days int) (string, string, error) {
	if days < 1 {
		return "", "", fmt.Errorf("days must be >= 1, got %d", days)
	}
	today := s.Today()
	return windowStart(today, days).Format(dayFormat), today.Format(dayFormat), nil
}

// windowStart — первый день окна из days дней, заканчивающегося today.
func windowStart(today time.Time, days int) time.Time {
	return today.AddDate(0, 0, -(days - 1))
}
