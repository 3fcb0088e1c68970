package models

import "time"

// ProgressEvent is broadcast over the websocket feed when the engine
// changes someone's progression state.
type ProgressEvent struct {
	Type        string    `json:"type"` // "xp_gained", "level_up", "challenge_completed"
	UserID      string    `json:"userId"`
	ChallengeID string    `json:"challengeId,omitempty"`
	XP          int       `json:"xp,omitempty"`
	Level       int       `json:"level,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
