// Package store persists mission definitions, per-user progress, the season
// reward catalog, and premium entitlements in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gridclash/backend/internal/progression"
)

// ErrUnknownMission is returned when progress is reported for a mission
// code that is not in the catalog.
var ErrUnknownMission = errors.New("unknown mission")

// ErrUnknownReward is returned when a reward ID is not in the catalog.
var ErrUnknownReward = errors.New("unknown reward")

// ErrNotClaimable is returned when a claim is attempted on a reward that is
// locked or already unlocked for the user.
var ErrNotClaimable = errors.New("reward not claimable")

// Store wraps the database handle and provides typed data access.
type Store struct {
	db *sqlx.DB
}

// Progress is the per-user progression counters row.
type Progress struct {
	UserID      string `json:"userId" db:"user_id"`
	XP          int    `json:"xp" db:"xp"`
	Level       int    `json:"level" db:"level"`
	StreakCount int    `json:"streakCount" db:"streak_count"`
}

// MissionUpdate describes the outcome of a progress increment.
type MissionUpdate struct {
	Mission        progression.Mission `json:"mission"`
	JustCompleted  bool                `json:"justCompleted"`
	XPAwarded      int                 `json:"xpAwarded"`
	Progress       Progress            `json:"progress"`
	LeveledUp      bool                `json:"leveledUp"`
	PreviousLevel  int                 `json:"previousLevel,omitempty"`
}

// Open opens (creating if needed) the SQLite database at path and
// initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS missions (
			code TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			target INTEGER NOT NULL,
			xp_reward INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS user_missions (
			user_id TEXT NOT NULL,
			code TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS season_rewards (
			id TEXT PRIMARY KEY,
			level_required INTEGER NOT NULL,
			tier TEXT NOT NULL DEFAULT 'free',
			reward_type TEXT NOT NULL DEFAULT 'badge',
			reward_value TEXT NOT NULL DEFAULT '',
			asset_url TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS user_rewards (
			user_id TEXT NOT NULL,
			reward_id TEXT NOT NULL,
			unlocked_at TEXT NOT NULL,
			PRIMARY KEY (user_id, reward_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_progress (
			user_id TEXT PRIMARY KEY,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			streak_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS entitlements (
			user_id TEXT PRIMARY KEY,
			premium_active INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_missions_user ON user_missions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_rewards_user ON user_rewards(user_id)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// MissionsForUser returns every catalog mission joined with the user's
// progress. Missions the user has never touched appear with zero progress.
// Rows are normalized at this boundary: negative progress is coerced to 0
// and targets below 1 to 1 before they reach the core.
func (s *Store) MissionsForUser(userID string) ([]progression.Mission, error) {
	rows := []struct {
		Code      string `db:"code"`
		Kind      string `db:"kind"`
		Title     string `db:"title"`
		Target    int    `db:"target"`
		Progress  int    `db:"progress"`
		Completed bool   `db:"completed"`
	}{}

	err := s.db.Select(&rows, `
		SELECT m.code, m.kind, m.title, m.target,
		       COALESCE(um.progress, 0) AS progress,
		       COALESCE(um.completed, 0) AS completed
		FROM missions m
		LEFT JOIN user_missions um
		       ON um.code = m.code AND um.user_id = ?
		ORDER BY m.kind, m.code`, userID)
	if err != nil {
		return nil, fmt.Errorf("selecting missions: %w", err)
	}

	missions := make([]progression.Mission, 0, len(rows))
	for _, r := range rows {
		progress := r.Progress
		if progress < 0 {
			progress = 0
		}
		target := r.Target
		if target < 1 {
			target = 1
		}
		missions = append(missions, progression.Mission{
			Code:      r.Code,
			Kind:      progression.Kind(r.Kind),
			Title:     r.Title,
			Progress:  progress,
			Target:    target,
			Completed: r.Completed,
		})
	}
	return missions, nil
}

// RewardRows returns the full season reward catalog joined with the user's
// unlock records.
func (s *Store) RewardRows(userID string) ([]progression.RewardRow, error) {
	var rows []progression.RewardRow
	err := s.db.Select(&rows, `
		SELECT sr.id, sr.level_required, sr.tier, sr.reward_type, sr.reward_value, sr.asset_url,
		       CASE WHEN ur.reward_id IS NULL THEN 0 ELSE 1 END AS unlocked
		FROM season_rewards sr
		LEFT JOIN user_rewards ur
		       ON ur.reward_id = sr.id AND ur.user_id = ?
		ORDER BY sr.level_required, sr.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("selecting rewards: %w", err)
	}
	return rows, nil
}

// Progress returns the user's progression counters, defaulting to a fresh
// level-1 row for unknown users.
func (s *Store) Progress(userID string) (Progress, error) {
	p := Progress{UserID: userID, Level: 1}
	err := s.db.Get(&p, `SELECT user_id, xp, level, streak_count FROM user_progress WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{UserID: userID, Level: 1}, nil
	}
	if err != nil {
		return p, fmt.Errorf("selecting progress: %w", err)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p, nil
}

// PremiumActive reports whether the user holds an active premium entitlement.
func (s *Store) PremiumActive(userID string) (bool, error) {
	var active bool
	err := s.db.Get(&active, `SELECT premium_active FROM entitlements WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("selecting entitlement: %w", err)
	}
	return active, nil
}

// SetPremium records the user's premium entitlement flag.
func (s *Store) SetPremium(userID string, active bool) error {
	_, err := s.db.Exec(`
		INSERT INTO entitlements (user_id, premium_active) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET premium_active = excluded.premium_active`,
		userID, active)
	if err != nil {
		return fmt.Errorf("setting entitlement: %w", err)
	}
	return nil
}

// IncrementMission adds amount to the user's progress on the given mission
// code. When progress reaches the target the mission is marked completed
// exactly once and its XP reward is granted, recomputing the user's level
// from cumulative XP. The completed flag set here is what the classifier
// later treats as authoritative.
func (s *Store) IncrementMission(userID, code string, amount int) (MissionUpdate, error) {
	var upd MissionUpdate
	if amount < 0 {
		amount = 0
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return upd, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var def struct {
		Code     string `db:"code"`
		Kind     string `db:"kind"`
		Title    string `db:"title"`
		Target   int    `db:"target"`
		XPReward int    `db:"xp_reward"`
	}
	err = tx.Get(&def, `SELECT code, kind, title, target, xp_reward FROM missions WHERE code = ?`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return upd, fmt.Errorf("%w: %s", ErrUnknownMission, code)
	}
	if err != nil {
		return upd, fmt.Errorf("selecting mission: %w", err)
	}
	target := def.Target
	if target < 1 {
		target = 1
	}

	var cur struct {
		Progress  int  `db:"progress"`
		Completed bool `db:"completed"`
	}
	err = tx.Get(&cur, `SELECT progress, completed FROM user_missions WHERE user_id = ? AND code = ?`,
		userID, code)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return upd, fmt.Errorf("selecting user mission: %w", err)
	}

	progress := cur.Progress + amount
	completed := cur.Completed
	justCompleted := false
	if !completed && progress >= target {
		completed = true
		justCompleted = true
	}

	_, err = tx.Exec(`
		INSERT INTO user_missions (user_id, code, progress, completed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, code) DO UPDATE SET
			progress = excluded.progress,
			completed = excluded.completed,
			updated_at = excluded.updated_at`,
		userID, code, progress, completed, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return upd, fmt.Errorf("updating user mission: %w", err)
	}

	prog, err := progressTx(tx, userID)
	if err != nil {
		return upd, err
	}
	prevLevel := prog.Level

	if justCompleted && def.XPReward > 0 {
		prog.XP += def.XPReward
		prog.Level = progression.LevelForXP(prog.XP)
		_, err = tx.Exec(`
			INSERT INTO user_progress (user_id, xp, level, streak_count) VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET xp = excluded.xp, level = excluded.level`,
			userID, prog.XP, prog.Level, prog.StreakCount)
		if err != nil {
			return upd, fmt.Errorf("updating progress: %w", err)
		}
		upd.XPAwarded = def.XPReward
	}

	if err := tx.Commit(); err != nil {
		return upd, fmt.Errorf("committing: %w", err)
	}

	upd.Mission = progression.Mission{
		Code:      def.Code,
		Kind:      progression.Kind(def.Kind),
		Title:     def.Title,
		Progress:  progress,
		Target:    target,
		Completed: completed,
	}
	upd.JustCompleted = justCompleted
	upd.Progress = prog
	upd.PreviousLevel = prevLevel
	upd.LeveledUp = prog.Level > prevLevel
	return upd, nil
}

func progressTx(tx *sqlx.Tx, userID string) (Progress, error) {
	p := Progress{UserID: userID, Level: 1}
	err := tx.Get(&p, `SELECT user_id, xp, level, streak_count FROM user_progress WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{UserID: userID, Level: 1}, nil
	}
	if err != nil {
		return p, fmt.Errorf("selecting progress: %w", err)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	return p, nil
}

// ClaimReward validates that the reward is claimable for the user (via the
// resolver's state rules) and records the unlock. Once recorded, the unlock
// is permanent: later entitlement changes never revoke it. The check and the
// insert run in one transaction; a concurrent claim that lands first makes
// the loser report ErrNotClaimable rather than a storage error.
func (s *Store) ClaimReward(userID, rewardID string) (progression.RewardItem, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return progression.RewardItem{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var row progression.RewardRow
	err = tx.Get(&row, `
		SELECT sr.id, sr.level_required, sr.tier, sr.reward_type, sr.reward_value, sr.asset_url,
		       CASE WHEN ur.reward_id IS NULL THEN 0 ELSE 1 END AS unlocked
		FROM season_rewards sr
		LEFT JOIN user_rewards ur ON ur.reward_id = sr.id AND ur.user_id = ?
		WHERE sr.id = ?`, userID, rewardID)
	if errors.Is(err, sql.ErrNoRows) {
		return progression.RewardItem{}, fmt.Errorf("%w: %s", ErrUnknownReward, rewardID)
	}
	if err != nil {
		return progression.RewardItem{}, fmt.Errorf("selecting reward: %w", err)
	}

	prog, err := progressTx(tx, userID)
	if err != nil {
		return progression.RewardItem{}, err
	}
	premium, err := premiumActiveTx(tx, userID)
	if err != nil {
		return progression.RewardItem{}, err
	}

	item := progression.ResolveItem(row, prog.Level, premium)
	if item.State != progression.StateClaimable {
		return item, fmt.Errorf("%w: %s is %s", ErrNotClaimable, rewardID, item.State)
	}

	res, err := tx.Exec(`INSERT OR IGNORE INTO user_rewards (user_id, reward_id, unlocked_at) VALUES (?, ?, ?)`,
		userID, rewardID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return item, fmt.Errorf("recording unlock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		item.State = progression.StateUnlocked
		return item, fmt.Errorf("%w: %s is already unlocked", ErrNotClaimable, rewardID)
	}
	if err := tx.Commit(); err != nil {
		return item, fmt.Errorf("committing: %w", err)
	}

	item.State = progression.StateUnlocked
	return item, nil
}

func premiumActiveTx(tx *sqlx.Tx, userID string) (bool, error) {
	var active bool
	err := tx.Get(&active, `SELECT premium_active FROM entitlements WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("selecting entitlement: %w", err)
	}
	return active, nil
}

// AddMission inserts or replaces a mission definition. Codes are the global
// mission identity: redefining a code updates it in place, and per-user
// progress stays attached to the code.
func (s *Store) AddMission(code string, kind progression.Kind, title string, target, xpReward int) error {
	if target < 1 {
		target = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO missions (code, kind, title, target, xp_reward) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			kind = excluded.kind, title = excluded.title,
			target = excluded.target, xp_reward = excluded.xp_reward`,
		code, string(kind), title, target, xpReward)
	if err != nil {
		return fmt.Errorf("adding mission: %w", err)
	}
	return nil
}

// AddReward inserts or replaces a season reward catalog entry.
func (s *Store) AddReward(id string, levelRequired int, tier, rewardType, rewardValue, assetURL string) error {
	_, err := s.db.Exec(`
		INSERT INTO season_rewards (id, level_required, tier, reward_type, reward_value, asset_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			level_required = excluded.level_required, tier = excluded.tier,
			reward_type = excluded.reward_type, reward_value = excluded.reward_value,
			asset_url = excluded.asset_url`,
		id, levelRequired, tier, rewardType, rewardValue, assetURL)
	if err != nil {
		return fmt.Errorf("adding reward: %w", err)
	}
	return nil
}
