package ws

import (
	"github.com/gridclash/backend/internal/progression"
	"github.com/gridclash/backend/internal/store"
)

type MessageType string

const (
	MsgMissionUpdate  MessageType = "mission_update"
	MsgProgress       MessageType = "progress"
	MsgRewardUnlocked MessageType = "reward_unlocked"
)

type Message struct {
	Type    MessageType `json:"type"`
	UserID  string      `json:"userId"`
	Payload interface{} `json:"payload"`
}

// MissionUpdatePayload is broadcast after a progress increment.
type MissionUpdatePayload struct {
	Mission       progression.Mission `json:"mission"`
	JustCompleted bool                `json:"justCompleted"`
	XPAwarded     int                 `json:"xpAwarded,omitempty"`
}

// ProgressPayload is broadcast when XP or level changes.
type ProgressPayload struct {
	Progress  store.Progress         `json:"progress"`
	Level     progression.LevelState `json:"level"`
	LeveledUp bool                   `json:"leveledUp"`
}

// RewardUnlockedPayload is broadcast after a successful claim.
type RewardUnlockedPayload struct {
	Reward progression.RewardItem `json:"reward"`
}
