package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/madraimov/teacher-activity-bot/internal/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

var header = []string{
	"TeacherID", "FullName", "ChatID", "GroupTitle",
	"Text", "Photo", "Video", "Audio", "Voice", "Document",
	"Total", "FromDate", "ToDate",
}

// ActivityRow — одна строка выгрузки: (учитель, группа) за окно отчёта.
type ActivityRow struct {
	TeacherID  string
	FullName   string
	ChatID     int64
	GroupTitle string
	Counters   models.CounterSet
	FromDate   string
	ToDate     string
}

// BuildActivityRows разворачивает агрегат в плоские строки. Для удалённых
// сущностей вместо подписи подставляется id — история остаётся читаемой.
func BuildActivityRows(stats models.RangeStats, teacherNames map[string]string, groupTitles map[int64]string, from, to time.Time) []ActivityRow {
	fromStr := from.Format("2006-01-02")
	toStr := to.Format("2006-01-02")

	var rows []ActivityRow
	for chatID, byTeacher := range stats {
		title := groupTitles[chatID]
		if title == "" {
			title = fmt.Sprintf("%d", chatID)
		}
		for teacherID, c := range byTeacher {
			name := teacherNames[teacherID]
			if name == "" {
				name = teacherID
			}
			rows = append(rows, ActivityRow{
				TeacherID:  teacherID,
				FullName:   name,
				ChatID:     chatID,
				GroupTitle: title,
				Counters:   c,
				FromDate:   fromStr,
				ToDate:     toStr,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GroupTitle != rows[j].GroupTitle {
			return rows[i].GroupTitle < rows[j].GroupTitle
		}
		return rows[i].TeacherID < rows[j].TeacherID
	})
	return rows
}

// WriteActivityWorkbook собирает xlsx и кладёт его в dir.
// Возвращает полный путь к файлу.
func WriteActivityWorkbook(dir string, rows []ActivityRow) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, h := range header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return "", fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(header)) + "1"
	_ = f.SetCellStyle(sheetName, "A1", end, bold)
	_ = f.AutoFilter(sheetName, "A1:"+end, nil)

	for i, r := range rows {
		values := []any{
			r.TeacherID, r.FullName, r.ChatID, r.GroupTitle,
			r.Counters.Text, r.Counters.Photo, r.Counters.Video,
			r.Counters.Audio, r.Counters.Voice, r.Counters.Document,
			r.Counters.Total(), r.FromDate, r.ToDate,
		}
		for c, v := range values {
			cell := fmt.Sprintf("%s%d", colName(c+1), i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// эвристическая ширина: по заголовку и первым строкам
	for c := 1; c <= len(header); c++ {
		maxim := len(header[c-1])
		for r := 0; r < minim(50, len(rows)); r++ {
			if l := len(rows[r].FullName); c == 2 && l > maxim {
				maxim = l
			}
			if l := len(rows[r].GroupTitle); c == 4 && l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}

	path := filepath.Join(dir, fmt.Sprintf("report_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

// colName: 1→A, 2→B, ... 27→AA.
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+n%26)) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
