package progression

import (
	"testing"
	"time"
)

func TestSeasonWeek(t *testing.T) {
	season := Season{Start: time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"first instant", time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC), 1},
		{"mid week 1", time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC), 1},
		{"last day of week 1", time.Date(2025, 2, 2, 23, 59, 0, 0, time.UTC), 1},
		{"first day of week 2", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), 2},
		{"week 4", time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC), 4},
		{"week 5", time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), 5},
		{"week 8", time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), 8},
		{"past season end clamps to 8", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 8},
		{"before season start clamps to 1", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := season.Week(tt.now); got != tt.want {
				t.Errorf("Week(%v) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestSeasonMonthWindow(t *testing.T) {
	season := Season{Start: time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)}

	week4 := time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC)
	if got := season.MonthWindow(week4); got != WindowM1 {
		t.Errorf("MonthWindow in week 4 = %q, want %q", got, WindowM1)
	}

	week5 := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	if got := season.MonthWindow(week5); got != WindowM2 {
		t.Errorf("MonthWindow in week 5 = %q, want %q", got, WindowM2)
	}
}
