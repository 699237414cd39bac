package export

import (
	"testing"
	"time"

	"github.com/madraimov/teacher-activity-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildActivityRows(t *testing.T) {
	stats := models.RangeStats{
		-42: {
			"T001": {Text: 3, Photo: 1},
			"T002": {Voice: 2},
		},
	}
	from := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	rows := BuildActivityRows(stats,
		map[string]string{"T001": "Aliyev Vali"},
		map[int64]string{-42: "Math 5A"},
		from, to)

	require.Len(t, rows, 2)
	assert.Equal(t, "T001", rows[0].TeacherID)
	assert.Equal(t, "Aliyev Vali", rows[0].FullName)
	assert.Equal(t, "Math 5A", rows[0].GroupTitle)
	assert.Equal(t, 4, rows[0].Counters.Total())
	assert.Equal(t, "2026-03-04", rows[0].FromDate)
	assert.Equal(t, "2026-03-10", rows[0].ToDate)
	// без подписи — подставляется id
	assert.Equal(t, "T002", rows[1].FullName)
}

func TestWriteActivityWorkbook(t *testing.T) {
	rows := []ActivityRow{{
		TeacherID:  "T001",
		FullName:   "Aliyev Vali",
		ChatID:     -42,
		GroupTitle: "Math 5A",
		Counters:   models.CounterSet{Text: 3, Photo: 1},
		FromDate:   "2026-03-04",
		ToDate:     "2026-03-10",
	}}

	path, err := WriteActivityWorkbook(t.TempDir(), rows)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	hdr, _ := f.GetCellValue("Report", "A1")
	assert.Equal(t, "TeacherID", hdr)
	total, _ := f.GetCellValue("Report", "K2")
	assert.Equal(t, "4", total)
	name, _ := f.GetCellValue("Report", "B2")
	assert.Equal(t, "Aliyev Vali", name)
}

func TestColName(t *testing.T) {
	assert.Equal(t, "A", colName(1))
	assert.Equal(t, "M", colName(13))
	assert.Equal(t, "AA", colName(27))
}
