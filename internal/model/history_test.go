package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEntry_RelativeAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		age    time.Duration
		expect string
	}{
		{"seconds", 30 * time.Second, "Just now"},
		{"minutes", 5 * time.Minute, "5m ago"},
		{"just_under_hour", 59 * time.Minute, "59m ago"},
		{"hours", 3 * time.Hour, "3h ago"},
		{"just_under_day", 23 * time.Hour, "23h ago"},
		{"days", 49 * time.Hour, "2d ago"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := HistoryEntry{Date: now.Add(-tc.age)}
			assert.Equal(t, tc.expect, e.RelativeAge(now))
		})
	}
}
