package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowStart(t *testing.T) {
	today := time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, today, windowStart(today, 1), "1-day window starts today")
	assert.Equal(t, today.AddDate(0, 0, -6), windowStart(today, 7))

	// окно корректно переходит через границу месяца
	start := windowStart(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), 5)
	assert.Equal(t, time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC), start)
}
