package progression

// Level curve: completing level L costs 1000 + (L-1)*100 XP, so level 1
// costs 1000, level 2 costs 1100, and so on. Cumulative XP below level L
// is the closed-form triangular sum (L-1)*1000 + (L-1)(L-2)/2*100.
const (
	levelBaseXP = 1000
	levelStepXP = 100
	maxLevel    = 100
)

// LevelState is the display-ready position within the current level.
type LevelState struct {
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	CurrentLevelXP int     `json:"currentLevelXp"`
	Requirement    int     `json:"requirement"`
	Percent        float64 `json:"percent"`
}

// xpForLevel returns the XP cost of completing the given level.
func xpForLevel(level int) int {
	return levelBaseXP + (level-1)*levelStepXP
}

// xpBelowLevel returns the cumulative XP consumed by all levels strictly
// below the given level. Zero at level 1.
func xpBelowLevel(level int) int {
	return (level-1)*levelBaseXP + (level-1)*(level-2)/2*levelStepXP
}

// LevelProgress maps cumulative XP and the current level to within-level
// progress. Percent is clamped to [0, 100]: XP can briefly overshoot the
// requirement between an XP grant and the matching level-up, and a stale
// level can leave CurrentLevelXP negative; neither may escape the bar range.
func LevelProgress(xp, level int) LevelState {
	if level < 1 {
		level = 1
	}
	if xp < 0 {
		xp = 0
	}

	requirement := xpForLevel(level)
	current := xp - xpBelowLevel(level)
	if current < 0 {
		current = 0
	}

	percent := float64(current) / float64(requirement) * 100
	if percent > 100 {
		percent = 100
	}

	return LevelState{
		Level:          level,
		XP:             xp,
		CurrentLevelXP: current,
		Requirement:    requirement,
		Percent:        percent,
	}
}

// LevelForXP returns the level reached with the given cumulative XP,
// capped at maxLevel.
func LevelForXP(xp int) int {
	level := 1
	for level < maxLevel && xp >= xpBelowLevel(level+1) {
		level++
	}
	return level
}
