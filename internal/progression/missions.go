package progression

import (
	"sort"
	"strings"
	"time"
)

// Kind is a mission cadence.
type Kind string

const (
	KindDaily    Kind = "daily"
	KindWeekly   Kind = "weekly"
	KindMonthly  Kind = "monthly"
	KindSeasonal Kind = "seasonal"
)

// Mission is a single trackable progress goal. The Completed flag is
// authoritative (set by the store when progress reaches the target); the
// classifier reads it, never derives it.
type Mission struct {
	Code      string `json:"code"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title,omitempty"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
	Completed bool   `json:"completed"`
}

// Buckets holds the user's missions grouped by cadence, each sorted by
// progress priority.
type Buckets struct {
	Daily    []Mission `json:"daily"`
	Weekly   []Mission `json:"weekly"`
	Monthly  []Mission `json:"monthly"`
	Seasonal []Mission `json:"seasonal"`
}

// ClassifyAndSort buckets missions by cadence and orders each bucket.
//
// The daily bucket is narrowed to the user's deterministic daily selection
// (see PickDaily); the candidate pool is every daily-kind mission regardless
// of completion, so the selection stays stable as missions complete during
// the day. The monthly bucket keeps only codes prefixed with the current
// month-window tag. When showCompleted is false, completed missions are
// dropped before bucketing.
//
// Inputs are never mutated; all returned slices are freshly allocated.
func ClassifyAndSort(missions []Mission, userID string, showCompleted bool, season Season, now time.Time) Buckets {
	if userID == "" || len(missions) == 0 {
		return Buckets{}
	}

	visible := missions
	if !showCompleted {
		visible = make([]Mission, 0, len(missions))
		for _, m := range missions {
			if !m.Completed {
				visible = append(visible, m)
			}
		}
	}

	var b Buckets
	window := season.MonthWindow(now) + "_"
	for _, m := range visible {
		switch m.Kind {
		case KindDaily:
			b.Daily = append(b.Daily, m)
		case KindWeekly:
			b.Weekly = append(b.Weekly, m)
		case KindMonthly:
			if strings.HasPrefix(m.Code, window) {
				b.Monthly = append(b.Monthly, m)
			}
		case KindSeasonal:
			b.Seasonal = append(b.Seasonal, m)
		}
	}

	// Daily selection draws from the full mission list, not the visible
	// subset, so completing a selected mission never swaps another one in.
	var candidates []string
	for _, m := range missions {
		if m.Kind == KindDaily {
			candidates = append(candidates, m.Code)
		}
	}
	selected := make(map[string]bool, dailySelectionSize)
	for _, code := range PickDaily(userID, candidates, now) {
		selected[code] = true
	}
	picked := b.Daily[:0:0]
	for _, m := range b.Daily {
		if selected[m.Code] {
			picked = append(picked, m)
		}
	}
	b.Daily = picked

	sortMissions(b.Daily)
	sortMissions(b.Weekly)
	sortMissions(b.Monthly)
	sortMissions(b.Seasonal)
	return b
}

// sortMissions orders a bucket in place: in-progress missions first, by
// descending completion ratio; then the rest by ascending target. Completed
// missions retained via showCompleted fall into the second group.
func sortMissions(missions []Mission) {
	sort.SliceStable(missions, func(i, j int) bool {
		a, b := missions[i], missions[j]

		aActive := a.Progress > 0 && !a.Completed
		bActive := b.Progress > 0 && !b.Completed
		if aActive != bActive {
			return aActive
		}
		if aActive {
			return a.Ratio() > b.Ratio()
		}
		return a.Target < b.Target
	})
}

// Ratio returns progress/target with the denominator floored at 1, so a
// degenerate target of zero never divides by zero.
func (m Mission) Ratio() float64 {
	target := m.Target
	if target < 1 {
		target = 1
	}
	return float64(m.Progress) / float64(target)
}
