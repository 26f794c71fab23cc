package progression

import "time"

// dailySelectionSize is the number of daily missions shown to each user.
const dailySelectionSize = 4

// dateFormat is the UTC calendar-day component of the selection seed.
const dateFormat = "2006-01-02"

// PickDaily deterministically selects up to dailySelectionSize mission codes
// for the given user and day. The seed is derived from "{userID}:{YYYY-MM-DD}"
// (UTC), so repeated calls within the same calendar day return the identical
// ordered list, and the selection rolls over at the UTC date boundary.
//
// An empty userID yields an empty selection rather than hashing a bogus seed
// string. Pools smaller than the selection size are returned whole.
func PickDaily(userID string, codes []string, day time.Time) []string {
	if userID == "" || len(codes) == 0 {
		return nil
	}

	seed := hashString(userID + ":" + day.UTC().Format(dateFormat))
	shuffled := shuffleWithSeed(codes, seed)

	if len(shuffled) > dailySelectionSize {
		shuffled = shuffled[:dailySelectionSize]
	}
	return shuffled
}

// DayKey returns the cache key for a user's daily selection,
// e.g. "day:u1:2025-03-10".
func DayKey(userID string, day time.Time) string {
	return "day:" + userID + ":" + day.UTC().Format(dateFormat)
}
