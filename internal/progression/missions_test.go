package progression

import (
	"testing"
	"time"
)

var testSeason = Season{Start: time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)}

func TestSortMissionsProgressPriority(t *testing.T) {
	missions := []Mission{
		{Code: "a", Progress: 5, Target: 10},
		{Code: "b", Progress: 0, Target: 3},
		{Code: "c", Progress: 8, Target: 10},
	}
	sortMissions(missions)

	want := []string{"c", "a", "b"} // 0.8 before 0.5, not-started last
	for i, code := range want {
		if missions[i].Code != code {
			t.Fatalf("sorted order = [%s %s %s], want %v",
				missions[0].Code, missions[1].Code, missions[2].Code, want)
		}
	}
}

func TestSortMissionsNotStartedByTarget(t *testing.T) {
	missions := []Mission{
		{Code: "big", Progress: 0, Target: 50},
		{Code: "small", Progress: 0, Target: 3},
		{Code: "mid", Progress: 0, Target: 10},
	}
	sortMissions(missions)

	want := []string{"small", "mid", "big"}
	for i, code := range want {
		if missions[i].Code != code {
			t.Fatalf("sorted order wrong at %d: got %s, want %s", i, missions[i].Code, code)
		}
	}
}

func TestSortMissionsZeroTarget(t *testing.T) {
	missions := []Mission{
		{Code: "broken", Progress: 3, Target: 0},
		{Code: "ok", Progress: 1, Target: 2},
	}
	sortMissions(missions) // must not panic

	// Ratio denominator floors at 1, so "broken" computes 3.0 and leads.
	if missions[0].Code != "broken" {
		t.Errorf("first = %s, want broken", missions[0].Code)
	}
}

func TestMissionRatio(t *testing.T) {
	tests := []struct {
		name    string
		mission Mission
		want    float64
	}{
		{"half", Mission{Progress: 5, Target: 10}, 0.5},
		{"zero target", Mission{Progress: 3, Target: 0}, 3},
		{"negative target", Mission{Progress: 2, Target: -4}, 2},
		{"overshoot", Mission{Progress: 12, Target: 10}, 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mission.Ratio(); got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func classifyFixture() []Mission {
	return []Mission{
		{Code: "d1", Kind: KindDaily, Target: 3},
		{Code: "d2", Kind: KindDaily, Target: 3},
		{Code: "d3", Kind: KindDaily, Target: 3},
		{Code: "d4", Kind: KindDaily, Target: 3},
		{Code: "d5", Kind: KindDaily, Target: 3},
		{Code: "d6", Kind: KindDaily, Target: 3},
		{Code: "w1", Kind: KindWeekly, Progress: 2, Target: 5},
		{Code: "w2", Kind: KindWeekly, Progress: 5, Target: 5, Completed: true},
		{Code: "m1_streak", Kind: KindMonthly, Target: 10},
		{Code: "m2_streak", Kind: KindMonthly, Target: 10},
		{Code: "s1", Kind: KindSeasonal, Target: 100},
	}
}

func TestClassifyAndSortBuckets(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC) // season week 3, window m1
	b := ClassifyAndSort(classifyFixture(), "u1", false, testSeason, now)

	if len(b.Daily) != dailySelectionSize {
		t.Errorf("daily bucket size = %d, want %d", len(b.Daily), dailySelectionSize)
	}
	if len(b.Weekly) != 1 || b.Weekly[0].Code != "w1" {
		t.Errorf("weekly bucket = %v, want [w1]", b.Weekly)
	}
	if len(b.Monthly) != 1 || b.Monthly[0].Code != "m1_streak" {
		t.Errorf("monthly bucket = %v, want [m1_streak]", b.Monthly)
	}
	if len(b.Seasonal) != 1 || b.Seasonal[0].Code != "s1" {
		t.Errorf("seasonal bucket = %v, want [s1]", b.Seasonal)
	}
}

func TestClassifyAndSortMonthWindowRollover(t *testing.T) {
	// Week 6 is inside the m2 window, so m1_streak is no longer current.
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	b := ClassifyAndSort(classifyFixture(), "u1", false, testSeason, now)

	if len(b.Monthly) != 1 || b.Monthly[0].Code != "m2_streak" {
		t.Errorf("monthly bucket in m2 window = %v, want [m2_streak]", b.Monthly)
	}
}

func TestClassifyAndSortShowCompleted(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	hidden := ClassifyAndSort(classifyFixture(), "u1", false, testSeason, now)
	for _, m := range hidden.Weekly {
		if m.Completed {
			t.Errorf("completed mission %s visible with showCompleted=false", m.Code)
		}
	}

	shown := ClassifyAndSort(classifyFixture(), "u1", true, testSeason, now)
	if len(shown.Weekly) != 2 {
		t.Errorf("weekly bucket with showCompleted = %d missions, want 2", len(shown.Weekly))
	}
}

func TestClassifyAndSortDailySelectionStable(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	a := ClassifyAndSort(classifyFixture(), "u1", false, testSeason, now)
	b := ClassifyAndSort(classifyFixture(), "u1", false, testSeason, now)
	if len(a.Daily) != len(b.Daily) {
		t.Fatalf("daily sizes differ: %d vs %d", len(a.Daily), len(b.Daily))
	}
	for i := range a.Daily {
		if a.Daily[i].Code != b.Daily[i].Code {
			t.Errorf("daily selection not stable at %d: %s vs %s", i, a.Daily[i].Code, b.Daily[i].Code)
		}
	}
}

func TestClassifyAndSortSelectionIgnoresCompletionFilter(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)

	missions := classifyFixture()
	before := ClassifyAndSort(missions, "u1", false, testSeason, now)
	if len(before.Daily) == 0 {
		t.Fatal("no daily missions selected")
	}

	// Completing one selected daily mission must not pull a replacement
	// into the selection: candidates come from the full list.
	completed := before.Daily[0].Code
	for i := range missions {
		if missions[i].Code == completed {
			missions[i].Completed = true
			missions[i].Progress = missions[i].Target
		}
	}
	after := ClassifyAndSort(missions, "u1", false, testSeason, now)
	if len(after.Daily) != len(before.Daily)-1 {
		t.Errorf("daily bucket after completion = %d missions, want %d",
			len(after.Daily), len(before.Daily)-1)
	}
	for _, m := range after.Daily {
		if m.Code == completed {
			t.Errorf("completed mission %s still visible", completed)
		}
	}
}

func TestClassifyAndSortEmptyUser(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	b := ClassifyAndSort(classifyFixture(), "", false, testSeason, now)
	if len(b.Daily)+len(b.Weekly)+len(b.Monthly)+len(b.Seasonal) != 0 {
		t.Errorf("expected empty buckets for empty user, got %+v", b)
	}
}

func TestClassifyAndSortDoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	missions := classifyFixture()
	ClassifyAndSort(missions, "u1", true, testSeason, now)

	want := classifyFixture()
	for i := range want {
		if missions[i] != want[i] {
			t.Fatalf("input mutated at %d: %+v", i, missions[i])
		}
	}
}
