package progression

import "time"

// Month window tags. A season spans 8 weeks; monthly missions carry the
// window tag as a code prefix ("m1_streak") and are only current while
// their window is active.
const (
	WindowM1 = "m1"
	WindowM2 = "m2"
)

const seasonWeeks = 8

// DefaultSeasonStart is the season 1 anchor instant.
var DefaultSeasonStart = time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)

// Season anchors week and month-window arithmetic to a fixed start instant.
type Season struct {
	Start time.Time
}

// Week returns the 1-indexed season week containing now, clamped to
// [1, seasonWeeks]. Week N covers elapsed days 7(N-1) through 7N-1.
func (s Season) Week(now time.Time) int {
	diff := now.UTC().Sub(s.Start.UTC())
	days := int(diff / (24 * time.Hour))
	if diff < 0 {
		days-- // floor, not truncate
	}

	week := ceilDiv(days+1, 7)
	if week < 1 {
		week = 1
	}
	if week > seasonWeeks {
		week = seasonWeeks
	}
	return week
}

// MonthWindow returns WindowM1 during weeks 1-4 and WindowM2 during weeks 5-8.
func (s Season) MonthWindow(now time.Time) string {
	if s.Week(now) <= seasonWeeks/2 {
		return WindowM1
	}
	return WindowM2
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
