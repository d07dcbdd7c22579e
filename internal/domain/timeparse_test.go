package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02T03:04:05.678Z", time.Date(2024, 1, 2, 3, 4, 5, 678_000_000, time.UTC)},
		{"2024-01-02T03:04:05+09:00", time.Date(2024, 1, 1, 18, 4, 5, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02T03:04", time.Date(2024, 1, 2, 3, 4, 0, 0, time.Local)},
		{"2024/01/02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)},
		{"Tue, 02 Jan 2024 03:04:05 +0000", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"Tue Jan 02 2024 12:04:05 GMT+0900 (Japan Standard Time)", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			assert.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseTimeRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2024-13-45", "yesterday"} {
		_, ok := ParseTime(in)
		assert.False(t, ok, in)
	}
}
