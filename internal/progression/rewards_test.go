package progression

import "testing"

func TestResolveItemStates(t *testing.T) {
	tests := []struct {
		name          string
		row           RewardRow
		level         int
		premiumActive bool
		want          RewardState
	}{
		{
			name:  "free below level is locked",
			row:   RewardRow{Tier: "free", LevelRequired: 10},
			level: 3,
			want:  StateLocked,
		},
		{
			name:  "free at level is claimable",
			row:   RewardRow{Tier: "free", LevelRequired: 3},
			level: 3,
			want:  StateClaimable,
		},
		{
			name:  "premium without entitlement stays locked at any level",
			row:   RewardRow{Tier: "premium", LevelRequired: 1},
			level: 99,
			want:  StateLocked,
		},
		{
			name:          "premium with entitlement is claimable",
			row:           RewardRow{Tier: "premium", LevelRequired: 5},
			level:         5,
			premiumActive: true,
			want:          StateClaimable,
		},
		{
			name:  "backend unlock wins over everything",
			row:   RewardRow{Tier: "premium", LevelRequired: 50, Unlocked: true},
			level: 1,
			want:  StateUnlocked,
		},
		{
			name:          "unlock survives lapsed entitlement",
			row:           RewardRow{Tier: "premium", LevelRequired: 2, Unlocked: true},
			level:         10,
			premiumActive: false,
			want:          StateUnlocked,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveItem(tt.row, tt.level, tt.premiumActive)
			if got.State != tt.want {
				t.Errorf("state = %q, want %q", got.State, tt.want)
			}
		})
	}
}

func TestResolveItemNormalizesRow(t *testing.T) {
	item := ResolveItem(RewardRow{Tier: "gold", RewardType: "hat"}, 1, false)
	if item.Tier != TierFree {
		t.Errorf("unknown tier normalized to %q, want %q", item.Tier, TierFree)
	}
	if item.Type != TypeBadge {
		t.Errorf("unknown type normalized to %q, want %q", item.Type, TypeBadge)
	}
}

func TestResolveItemAssets(t *testing.T) {
	tests := []struct {
		name string
		row  RewardRow
		want string
	}{
		{
			name: "explicit asset url wins",
			row:  RewardRow{RewardType: "frame", RewardValue: "neon_pulse", AssetURL: "/custom.svg"},
			want: "/custom.svg",
		},
		{
			name: "frame short code",
			row:  RewardRow{RewardType: "frame", RewardValue: "neon_pulse"},
			want: "/assets/rewards/frames/neon_pulse.svg",
		},
		{
			name: "frame colon spelling",
			row:  RewardRow{RewardType: "frame", RewardValue: "frame:neon_pulse"},
			want: "/assets/rewards/frames/neon_pulse.svg",
		},
		{
			name: "frame canonical spelling with whitespace",
			row:  RewardRow{RewardType: "frame", RewardValue: "  Frame_Neon_Pulse "},
			want: "/assets/rewards/frames/neon_pulse.svg",
		},
		{
			name: "border legacy spelling",
			row:  RewardRow{RewardType: "border", RewardValue: "border:steel_static"},
			want: "/assets/rewards/border_steel_static.png",
		},
		{
			name: "badge lookup",
			row:  RewardRow{RewardType: "badge", RewardValue: "badge_hof_crown"},
			want: "/assets/rewards/badge_hof_crown.png",
		},
		{
			name: "unresolvable frame falls back to placeholder",
			row:  RewardRow{RewardType: "frame", RewardValue: "no_such_frame"},
			want: "/assets/rewards/frame_royal_gem.png",
		},
		{
			name: "unresolvable badge falls back to placeholder",
			row:  RewardRow{RewardType: "badge", RewardValue: "badge_missing"},
			want: "/assets/rewards/badge_neon_blue.png",
		},
		{
			name: "credits use the fixed icon",
			row:  RewardRow{RewardType: "credits", RewardValue: "500"},
			want: "/assets/rewards/credits.png",
		},
		{
			name: "title placeholder",
			row:  RewardRow{RewardType: "title", RewardValue: "Champion"},
			want: "/assets/rewards/title.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveItem(tt.row, 1, false)
			if got.AssetURL != tt.want {
				t.Errorf("AssetURL = %q, want %q", got.AssetURL, tt.want)
			}
		})
	}
}

func trackFixture() []RewardRow {
	return []RewardRow{
		{ID: "f1", Tier: "free", LevelRequired: 1, RewardType: "badge", RewardValue: "badge_starter_bronze", Unlocked: true},
		{ID: "f5", Tier: "free", LevelRequired: 5, RewardType: "credits", RewardValue: "250"},
		{ID: "f10", Tier: "free", LevelRequired: 10, RewardType: "frame", RewardValue: "neon_pulse"},
		{ID: "p3", Tier: "premium", LevelRequired: 3, RewardType: "border", RewardValue: "royal_gem"},
		{ID: "p8", Tier: "premium", LevelRequired: 8, RewardType: "title", RewardValue: "Legend"},
	}
}

func TestResolveTrackSplitAndOrder(t *testing.T) {
	track := ResolveTrack(trackFixture(), 5, false)

	if len(track.Free) != 3 || len(track.Premium) != 2 {
		t.Fatalf("track sizes = %d free, %d premium, want 3/2", len(track.Free), len(track.Premium))
	}
	for i := 1; i < len(track.Free); i++ {
		if track.Free[i-1].Level > track.Free[i].Level {
			t.Error("free track not sorted by level")
		}
	}

	states := map[string]RewardState{}
	for _, item := range track.Free {
		states[item.ID] = item.State
	}
	for _, item := range track.Premium {
		states[item.ID] = item.State
	}
	if states["f1"] != StateUnlocked {
		t.Errorf("f1 = %q, want unlocked", states["f1"])
	}
	if states["f5"] != StateClaimable {
		t.Errorf("f5 = %q, want claimable", states["f5"])
	}
	if states["f10"] != StateLocked {
		t.Errorf("f10 = %q, want locked", states["f10"])
	}
	if states["p3"] != StateLocked || states["p8"] != StateLocked {
		t.Error("premium items must be locked without entitlement")
	}
}

func TestResolveTrackNextItems(t *testing.T) {
	track := ResolveTrack(trackFixture(), 5, false)
	if track.NextFree == nil || track.NextFree.ID != "f10" {
		t.Errorf("NextFree = %+v, want f10", track.NextFree)
	}
	if track.NextPremium != nil {
		t.Errorf("NextPremium = %+v, want nil without entitlement", track.NextPremium)
	}

	entitled := ResolveTrack(trackFixture(), 5, true)
	if entitled.NextPremium == nil || entitled.NextPremium.ID != "p8" {
		t.Errorf("NextPremium = %+v, want p8", entitled.NextPremium)
	}
	// p3 is claimable at level 5 for an entitled user, so it is not "next".
	if entitled.NextPremium != nil && entitled.NextPremium.ID == "p3" {
		t.Error("claimable item reported as next")
	}
}

func TestResolveTrackAllClaimed(t *testing.T) {
	rows := []RewardRow{
		{ID: "f1", Tier: "free", LevelRequired: 1, Unlocked: true},
		{ID: "f2", Tier: "free", LevelRequired: 2, Unlocked: true},
	}
	track := ResolveTrack(rows, 10, false)
	if track.NextFree != nil {
		t.Errorf("NextFree = %+v, want nil when everything is unlocked", track.NextFree)
	}
}
