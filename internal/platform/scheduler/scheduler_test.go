package scheduler

import (
	"testing"
	"time"

	memclock "github.com/family-archive/family-tree-api/internal/adapters/memory/clock"
)

func TestUntilNextRun(t *testing.T) {
	t.Parallel()

	cases := []struct {
		now  time.Time
		hour int
		want time.Duration
	}{
		// Before today's boundary.
		{time.Date(2024, time.May, 2, 6, 0, 0, 0, time.UTC), 8, 2 * time.Hour},
		// Exactly at the boundary: wait a full day.
		{time.Date(2024, time.May, 2, 8, 0, 0, 0, time.UTC), 8, 24 * time.Hour},
		// Past the boundary: tomorrow.
		{time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC), 8, 22*time.Hour + 30*time.Minute},
		// Midnight job at midnight.
		{time.Date(2024, time.May, 2, 0, 0, 1, 0, time.UTC), 0, 23*time.Hour + 59*time.Minute + 59*time.Second},
	}
	for _, tc := range cases {
		d := NewDaily("test", tc.hour, memclock.NewManualClock(tc.now), nil)
		if got := d.untilNextRun(); got != tc.want {
			t.Errorf("untilNextRun(now=%v, hour=%d) = %v, want %v", tc.now, tc.hour, got, tc.want)
		}
	}
}
