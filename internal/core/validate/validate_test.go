package validate_test

import (
	"strings"
	"testing"

	"github.com/madraimov/teacher-activity-bot/internal/core/validate"
	"github.com/stretchr/testify/assert"
)

func TestTeacherID(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{"T001", true},
		{"abc", true},                  // нижняя граница длины
		{"A1b2C3d4E5f6G7h8", true},     // ровно 16
		{"ab", false},                  // длина 2
		{"A1b2C3d4E5f6G7h8X", false},   // длина 17
		{"", false},
		{"T-01", false},
		{"T 01", false},
		{"Т001", false}, // кириллическая Т
		{"t_01", false},
		{strings.Repeat("9", 16), true},
	}
	for _, c := range cases {
		ok, reason := validate.TeacherID(c.id)
		assert.Equalf(t, c.ok, ok, "id=%q reason=%q", c.id, reason)
		if !c.ok {
			assert.NotEmpty(t, reason, "rejection must carry a reason")
		}
	}
}

func TestFullName(t *testing.T) {
	ok, _ := validate.FullName("Aliyev Vali Valiyevich")
	assert.True(t, ok)

	ok, reason := validate.FullName("")
	assert.False(t, ok)
	assert.NotEmpty(t, reason)

	ok, _ = validate.FullName("   \t ")
	assert.False(t, ok)

	// 4 видимых символа — мало, пробелы не считаются
	ok, _ = validate.FullName("A b c d")
	assert.False(t, ok)

	ok, _ = validate.FullName("Anvar")
	assert.True(t, ok)
}

func TestTelegramID(t *testing.T) {
	ok, _ := validate.TelegramID(555)
	assert.True(t, ok)

	ok, _ = validate.TelegramID(0)
	assert.False(t, ok)

	ok, _ = validate.TelegramID(-10)
	assert.False(t, ok)

	ok, _ = validate.TelegramID(1e15 + 1)
	assert.False(t, ok)
}
