package progression

import "strings"

// Asset catalogs for visual rewards. Catalog rows reference items by short
// codes that have drifted across seasons ("neon_pulse", "frame:neon_pulse",
// "frame_neon_pulse"), so frames and borders resolve through alias tables
// that map every known spelling to the canonical asset path.

var frameAssets = map[string]string{
	"frame_basic_static":      "/assets/rewards/frames/frame_basic_static.svg",
	"frame_neon_pulse":        "/assets/rewards/frames/neon_pulse.svg",
	"frame_royal_gem":         "/assets/rewards/frames/royal_gem.svg",
	"frame_cyber_gold":        "/assets/rewards/frames/cyber_gold.svg",
	"frame_pulse_violet_anim": "/assets/rewards/frames/frame_pulse_violet_anim.svg",
}

var frameAliases = map[string]string{
	"frame:basic_static":      "frame_basic_static",
	"frame_basic_static":      "frame_basic_static",
	"basic_static":            "frame_basic_static",
	"frame:neon_pulse":        "frame_neon_pulse",
	"frame_neon_pulse":        "frame_neon_pulse",
	"neon_pulse":              "frame_neon_pulse",
	"frame:royal_gem":         "frame_royal_gem",
	"frame_royal_gem":         "frame_royal_gem",
	"royal_gem":               "frame_royal_gem",
	"frame:cyber_gold":        "frame_cyber_gold",
	"frame_cyber_gold":        "frame_cyber_gold",
	"cyber_gold":              "frame_cyber_gold",
	"frame:pulse_violet_anim": "frame_pulse_violet_anim",
	"frame_pulse_violet_anim": "frame_pulse_violet_anim",
	"pulse_violet_anim":       "frame_pulse_violet_anim",
}

var borderAssets = map[string]string{
	"border_neon_blue":          "/assets/rewards/border_neon_blue.png",
	"border_neon_pulse":         "/assets/rewards/border_neon_pulse.png",
	"border_royal_gem":          "/assets/rewards/border_royal_gem.png",
	"border_arcane_violet":      "/assets/rewards/border_arcane_violet.png",
	"border_steel_static":       "/assets/rewards/border_steel_static.png",
	"border_sunforge_gold_anim": "/assets/rewards/border_sunforge_gold_anim.png",
}

var borderAliases = map[string]string{
	"border:neon_blue":          "border_neon_blue",
	"border_neon_blue":          "border_neon_blue",
	"neon_blue":                 "border_neon_blue",
	"border:neon_pulse":         "border_neon_pulse",
	"border_neon_pulse":         "border_neon_pulse",
	"neon_pulse":                "border_neon_pulse",
	"border:royal_gem":          "border_royal_gem",
	"border_royal_gem":          "border_royal_gem",
	"royal_gem":                 "border_royal_gem",
	"border:arcane_violet":      "border_arcane_violet",
	"border_arcane_violet":      "border_arcane_violet",
	"arcane_violet":             "border_arcane_violet",
	"border:steel_static":       "border_steel_static",
	"border_steel_static":       "border_steel_static",
	"steel_static":              "border_steel_static",
	"border:sunforge_gold_anim": "border_sunforge_gold_anim",
	"border_sunforge_gold_anim": "border_sunforge_gold_anim",
	"sunforge_gold_anim":        "border_sunforge_gold_anim",
}

var badgeAssets = map[string]string{
	"badge_starter_bronze":          "/assets/rewards/badge_starter_bronze.png",
	"badge_starter_silver":          "/assets/rewards/badge_starter_silver.png",
	"badge_starter_gold_anim":       "/assets/rewards/badge_starter_gold_anim.png",
	"badge_season_survivor_silver":  "/assets/rewards/badge_season_survivor_silver.png",
	"badge_underdog_bronze":         "/assets/rewards/badge_underdog_bronze.png",
	"badge_underdog_gold_anim":      "/assets/rewards/badge_underdog_gold_anim.png",
	"badge_elite_static":            "/assets/rewards/badge_elite_static.png",
	"badge_legend_diamond_anim":     "/assets/rewards/badge_legend_diamond_anim.png",
	"badge_neon_blue":               "/assets/rewards/badge_neon_blue.png",
	"badge_hof_crown":               "/assets/rewards/badge_hof_crown.png",
}

const creditsAsset = "/assets/rewards/credits.png"

// fallbackAssets are the generic per-type placeholders used when a reward's
// value does not resolve to a known asset. Callers always get a renderable
// path, never a broken reference.
var fallbackAssets = map[RewardType]string{
	TypeBadge:   "/assets/rewards/badge_neon_blue.png",
	TypeFrame:   "/assets/rewards/frame_royal_gem.png",
	TypeBorder:  "/assets/rewards/border_neon_pulse.png",
	TypeCredits: creditsAsset,
	TypeTitle:   "/assets/rewards/title.png",
}

// ResolveFrameAsset maps a frame item code (any known spelling) to its
// canonical asset path. Unknown codes return "".
func ResolveFrameAsset(code string) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := frameAliases[key]; ok {
		return frameAssets[canonical]
	}
	return ""
}

// ResolveBorderAsset maps a border item code to its canonical asset path.
// Unknown codes return "".
func ResolveBorderAsset(code string) string {
	key := strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := borderAliases[key]; ok {
		return borderAssets[canonical]
	}
	return ""
}

// ResolveBadgeAsset maps a badge code to its asset path. Unknown codes
// return "".
func ResolveBadgeAsset(code string) string {
	return badgeAssets[strings.ToLower(strings.TrimSpace(code))]
}
