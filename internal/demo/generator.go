// Package demo seeds a sample season catalog and simulates mission traffic
// so connected clients see live progression without a real game feed.
package demo

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/gridclash/backend/internal/progression"
	"github.com/gridclash/backend/internal/store"
	"github.com/gridclash/backend/internal/ws"
)

type missionDef struct {
	code     string
	kind     progression.Kind
	title    string
	target   int
	xpReward int
}

type rewardDef struct {
	id          string
	level       int
	tier        string
	rewardType  string
	rewardValue string
}

type demoUser struct {
	id      string
	name    string
	premium bool
}

var missionCatalog = []missionDef{
	{"d_pick_team", progression.KindDaily, "Pick your fantasy team", 1, 50},
	{"d_watch_match", progression.KindDaily, "Watch 3 matches", 3, 75},
	{"d_predict_score", progression.KindDaily, "Predict a match score", 1, 50},
	{"d_vote_mvp", progression.KindDaily, "Vote for a match MVP", 1, 50},
	{"d_open_packs", progression.KindDaily, "Open 2 player packs", 2, 60},
	{"d_trade_player", progression.KindDaily, "Make a roster trade", 1, 40},
	{"w_win_rounds", progression.KindWeekly, "Win 5 prediction rounds", 5, 200},
	{"w_league_points", progression.KindWeekly, "Score 500 league points", 500, 250},
	{"m1_streak", progression.KindMonthly, "Keep a 7-day login streak", 7, 300},
	{"m1_top_percent", progression.KindMonthly, "Finish a round in the top 10%", 1, 400},
	{"m2_streak", progression.KindMonthly, "Keep a 7-day login streak", 7, 300},
	{"m2_top_percent", progression.KindMonthly, "Finish a round in the top 10%", 1, 400},
	{"s_season_veteran", progression.KindSeasonal, "Play 30 days this season", 30, 1000},
	{"s_grand_final", progression.KindSeasonal, "Predict the grand final winner", 1, 500},
}

var rewardCatalog = []rewardDef{
	{"free_badge_1", 1, "free", "badge", "rookie"},
	{"free_credits_3", 3, "free", "credits", "500"},
	{"free_frame_5", 5, "free", "frame", "gold"},
	{"free_border_8", 8, "free", "border", "neon_pulse"},
	{"free_badge_12", 12, "free", "badge", "veteran"},
	{"premium_badge_2", 2, "premium", "badge", "mvp"},
	{"premium_frame_4", 4, "premium", "frame", "diamond"},
	{"premium_border_7", 7, "premium", "border", "royal_gem"},
	{"premium_title_10", 10, "premium", "title", "Grid Champion"},
	{"premium_credits_15", 15, "premium", "credits", "2000"},
}

var demoUsers = []demoUser{
	{"8a1f8e9c-33d1-4a8a-9f50-0f2c1e6b7a01", "stormcaller", true},
	{"2b7c4d5e-91a0-4c3b-8d72-6e5f4a3b2c02", "pixelmage", false},
	{"c3d9e0f1-7b86-4e2d-a541-9d8c7b6a5f03", "nightshade", false},
}

// Generator drives simulated progression traffic through the real store so
// demo data follows the same completion and XP rules as production traffic.
type Generator struct {
	store       *store.Store
	broadcaster *ws.Broadcaster
	rng         *rand.Rand
}

func NewGenerator(st *store.Store, b *ws.Broadcaster) *Generator {
	return &Generator{
		store:       st,
		broadcaster: b,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed loads the demo mission and reward catalogs and marks one demo user
// premium. Safe to call on every start: definitions are upserted.
func (g *Generator) Seed() error {
	for _, m := range missionCatalog {
		if err := g.store.AddMission(m.code, m.kind, m.title, m.target, m.xpReward); err != nil {
			return err
		}
	}
	for _, r := range rewardCatalog {
		if err := g.store.AddReward(r.id, r.level, r.tier, r.rewardType, r.rewardValue, ""); err != nil {
			return err
		}
	}
	for _, u := range demoUsers {
		if err := g.store.SetPremium(u.id, u.premium); err != nil {
			return err
		}
	}
	return nil
}

// Start begins the simulation loop. It returns after seeding; the loop runs
// until ctx is canceled.
func (g *Generator) Start(ctx context.Context) error {
	if err := g.Seed(); err != nil {
		return err
	}
	go g.run(ctx)
	return nil
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// tick advances one random user on one random mission by 1.
func (g *Generator) tick() {
	user := demoUsers[g.rng.Intn(len(demoUsers))]
	mission := missionCatalog[g.rng.Intn(len(missionCatalog))]

	upd, err := g.store.IncrementMission(user.id, mission.code, 1)
	if err != nil {
		log.Printf("demo: incrementing %s for %s: %v", mission.code, user.name, err)
		return
	}

	if g.broadcaster == nil {
		return
	}
	g.broadcaster.Publish(ws.Message{
		Type:   ws.MsgMissionUpdate,
		UserID: user.id,
		Payload: ws.MissionUpdatePayload{
			Mission:       upd.Mission,
			JustCompleted: upd.JustCompleted,
			XPAwarded:     upd.XPAwarded,
		},
	})
	if upd.XPAwarded > 0 {
		g.broadcaster.Publish(ws.Message{
			Type:   ws.MsgProgress,
			UserID: user.id,
			Payload: ws.ProgressPayload{
				Progress:  upd.Progress,
				Level:     progression.LevelProgress(upd.Progress.XP, upd.Progress.Level),
				LeveledUp: upd.LeveledUp,
			},
		})
	}
}
