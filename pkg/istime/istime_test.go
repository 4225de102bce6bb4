package istime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateAndTime(t *testing.T) {
	assert.Equal(t, "26/12/2025", FormatDate("2025-12-26T06:34:00.000Z"))
	assert.Equal(t, "12:04 PM", FormatTime("2025-12-26T06:34:00.000Z"))
	// 20:00 UTC is past midnight in IST
	assert.Equal(t, "27/12/2025", FormatDate("2025-12-26 20:00:00"))
	assert.Equal(t, "01:30 AM", FormatTime("2025-12-26 20:00:00"))
}

func TestFormat_PassesThroughGarbage(t *testing.T) {
	assert.Equal(t, "tomorrow-ish", FormatDate("tomorrow-ish"))
	assert.Equal(t, "", FormatTime(""))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00 AM", FormatClock("09:00:00"))
	assert.Equal(t, "02:30 PM", FormatClock("14:30"))
	assert.Equal(t, "02:30 PM", FormatClock("02:30 PM"))
	assert.Equal(t, "soon", FormatClock("soon"))
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want string
	}{
		{"2025-12-26T11:59:30Z", "just now"},
		{"2025-12-26T11:59:00Z", "1 minute ago"},
		{"2025-12-26T11:57:00Z", "3 minutes ago"},
		{"2025-12-26T10:00:00Z", "2 hours ago"},
		{"2025-12-25T11:00:00Z", "1 day ago"},
		{"2025-12-21T12:00:00Z", "5 days ago"},
		{"2025-12-01T06:34:00Z", "12:04 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.raw, now))
		})
	}
}
