package models

import "time"

// NextAction is what the host does after scoring
type NextAction string

const (
	// NextActionNextRound restarts at the role question phase
	NextActionNextRound NextAction = "next_round"

	// NextActionEndGame ends the session
	NextActionEndGame NextAction = "end_game"
)

// Standing is one player's placement after a round
type Standing struct {
	// PlayerID is the connection id
	PlayerID uint64 `json:"playerId"`

	// DisplayName is the owner-written name at scoring time
	DisplayName string `json:"displayName"`

	// Votes is the tally received this round
	Votes int `json:"votes"`

	// Score is the cumulative score after this round
	Score int `json:"score"`

	// Placement is 1-based; ties share the better placement
	Placement int `json:"placement"`
}

// RoundResult is recorded once per completed round
type RoundResult struct {
	// ID is the unique identifier of the record
	ID string `json:"id"`

	// SessionID identifies the host session
	SessionID string `json:"sessionId"`

	// Round is 1-based
	Round int `json:"round"`

	// ActivityIndex is the activity that was played
	ActivityIndex int `json:"activityIndex"`

	// Standings is ordered by placement
	Standings []Standing `json:"standings"`

	// NextAction is what scoring decided
	NextAction NextAction `json:"nextAction"`

	// CreatedAt is when scoring finished
	CreatedAt time.Time `json:"createdAt"`
}
