package progression

import "sort"

// RewardTier gates an item to the free or premium track.
type RewardTier string

const (
	TierFree    RewardTier = "free"
	TierPremium RewardTier = "premium"
)

// RewardType identifies what a reward item grants.
type RewardType string

const (
	TypeBadge   RewardType = "badge"
	TypeBorder  RewardType = "border"
	TypeFrame   RewardType = "frame"
	TypeTitle   RewardType = "title"
	TypeCredits RewardType = "credits"
)

// RewardState is the per-user unlock state of a catalog item.
type RewardState string

const (
	StateLocked    RewardState = "locked"
	StateClaimable RewardState = "claimable"
	StateUnlocked  RewardState = "unlocked"
)

// RewardRow is a raw catalog row joined with the user's unlock flag, as it
// arrives from storage. Tier and type are free text at this boundary and
// are normalized before resolution.
type RewardRow struct {
	ID            string `json:"id" db:"id"`
	LevelRequired int    `json:"levelRequired" db:"level_required"`
	Tier          string `json:"tier" db:"tier"`
	RewardType    string `json:"rewardType" db:"reward_type"`
	RewardValue   string `json:"rewardValue" db:"reward_value"`
	AssetURL      string `json:"assetUrl,omitempty" db:"asset_url"`
	Unlocked      bool   `json:"unlocked" db:"unlocked"`
}

// RewardItem is a resolved catalog entry with computed state and asset URL.
type RewardItem struct {
	ID       string      `json:"id"`
	Level    int         `json:"level"`
	Tier     RewardTier  `json:"tier"`
	Type     RewardType  `json:"type"`
	Value    string      `json:"value"`
	AssetURL string      `json:"assetUrl"`
	State    RewardState `json:"state"`
}

// Track is the resolved reward track for one user: both tiers sorted by
// level, plus the next locked item on each side.
type Track struct {
	Free        []RewardItem `json:"free"`
	Premium     []RewardItem `json:"premium"`
	NextFree    *RewardItem  `json:"nextFree,omitempty"`
	NextPremium *RewardItem  `json:"nextPremium,omitempty"`
}

// normalizeTier defaults unknown tiers to free.
func normalizeTier(s string) RewardTier {
	if RewardTier(s) == TierPremium {
		return TierPremium
	}
	return TierFree
}

// normalizeType defaults unknown reward types to badge.
func normalizeType(s string) RewardType {
	switch RewardType(s) {
	case TypeBorder, TypeFrame, TypeTitle, TypeCredits:
		return RewardType(s)
	default:
		return TypeBadge
	}
}

// ResolveItem computes the unlock state and asset URL for one catalog row.
//
// State rules, in priority order:
//  1. An item the backend already marked unlocked stays unlocked, even if
//     premium entitlement has since lapsed.
//  2. A premium item is forced locked without active entitlement,
//     regardless of level.
//  3. Level reached on an accessible tier makes the item claimable.
//  4. Everything else is locked.
func ResolveItem(row RewardRow, currentLevel int, premiumActive bool) RewardItem {
	if currentLevel < 1 {
		currentLevel = 1
	}
	tier := normalizeTier(row.Tier)
	typ := normalizeType(row.RewardType)

	state := StateLocked
	switch {
	case row.Unlocked:
		state = StateUnlocked
	case tier == TierPremium && !premiumActive:
		state = StateLocked
	case row.LevelRequired <= currentLevel:
		state = StateClaimable
	}

	return RewardItem{
		ID:       row.ID,
		Level:    row.LevelRequired,
		Tier:     tier,
		Type:     typ,
		Value:    row.RewardValue,
		AssetURL: resolveAsset(typ, row.RewardValue, row.AssetURL),
		State:    state,
	}
}

// resolveAsset prefers the catalog's explicit asset URL, then a type-specific
// lookup of the reward value, then the generic per-type placeholder.
func resolveAsset(typ RewardType, value, explicit string) string {
	if explicit != "" {
		return explicit
	}

	var resolved string
	switch typ {
	case TypeFrame:
		resolved = ResolveFrameAsset(value)
	case TypeBorder:
		resolved = ResolveBorderAsset(value)
	case TypeBadge:
		resolved = ResolveBadgeAsset(value)
	case TypeCredits:
		resolved = creditsAsset
	}
	if resolved != "" {
		return resolved
	}
	return fallbackAssets[typ]
}

// ResolveTrack resolves every catalog row and splits the results into the
// free and premium tracks, each sorted by required level. NextFree is the
// first free item at or above the current level that is still locked;
// NextPremium is its premium counterpart and is only derived for entitled
// users. Input rows are not mutated.
func ResolveTrack(rows []RewardRow, currentLevel int, premiumActive bool) Track {
	var t Track
	for _, row := range rows {
		item := ResolveItem(row, currentLevel, premiumActive)
		if item.Tier == TierPremium {
			t.Premium = append(t.Premium, item)
		} else {
			t.Free = append(t.Free, item)
		}
	}

	sort.SliceStable(t.Free, func(i, j int) bool { return t.Free[i].Level < t.Free[j].Level })
	sort.SliceStable(t.Premium, func(i, j int) bool { return t.Premium[i].Level < t.Premium[j].Level })

	t.NextFree = nextLocked(t.Free, currentLevel)
	if premiumActive {
		t.NextPremium = nextLocked(t.Premium, currentLevel)
	}
	return t
}

// nextLocked returns a copy of the first locked item at or above level.
func nextLocked(items []RewardItem, level int) *RewardItem {
	if level < 1 {
		level = 1
	}
	for _, item := range items {
		if item.Level >= level && item.State == StateLocked {
			next := item
			return &next
		}
	}
	return nil
}
