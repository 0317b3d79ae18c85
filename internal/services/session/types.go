package session

import (
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/clock"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/collector"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/content"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
	"github.com/rs/zerolog"
)

// DefaultTickInterval drives phase deadlines
const DefaultTickInterval = 100 * time.Millisecond

// Rules are the tunables of a game
type Rules struct {
	QuestionDuration   time.Duration
	BotCreationTimeout time.Duration
	VotingTimeout      time.Duration
	ScoreThreshold     int
	SubmissionPolicy   collector.Policy
}

// Config holds configuration for the session host
type Config struct {
	Content  *content.Service
	Mixer    *fragments.Mixer
	Dialogue dialogue.Service
	Random   random.Source

	// Clock times the ticker and round records
	Clock clock.Clock

	// UUID names the session and its round records
	UUID uuid.UUID

	// History is optional
	History history.Repository

	Rules Rules

	// TickInterval defaults to DefaultTickInterval
	TickInterval time.Duration

	// MaxPlayers defaults to models.MaxPlayers
	MaxPlayers int

	Logger *zerolog.Logger
}

// JoinInput is the input for Join
type JoinInput struct {
	// Sink receives change batches on the session goroutine. It must not block.
	Sink replication.Sink
}

// JoinOutput is the output for Join
type JoinOutput struct {
	PlayerID  uint64
	SessionID string

	// Snapshot is the full state at the moment of joining. Batches delivered
	// to the sink start right after it.
	Snapshot *replication.Snapshot
}

// LeaveInput is the input for Leave
type LeaveInput struct {
	PlayerID uint64
}

// UpdateProfileInput is the input for UpdateProfile. Nil fields are left as they are.
type UpdateProfileInput struct {
	PlayerID    uint64
	DisplayName *string
	AvatarIndex *int
	LobbyState  *models.LobbyState
}

// StartGameInput is the input for StartGame
type StartGameInput struct {
	PlayerID uint64
}

// SubmitAnswerInput is the input for SubmitAnswer
type SubmitAnswerInput struct {
	PlayerID uint64
	Text     string
}

// SubmitBotPersonaInput is the input for SubmitBotPersona
type SubmitBotPersonaInput struct {
	PlayerID uint64
	Text     string
}

// SubmitVoteInput is the input for SubmitVote
type SubmitVoteInput struct {
	PlayerID uint64
	Target   uint64
}

// AdvanceConversationInput is the input for AdvanceConversation
type AdvanceConversationInput struct {
	PlayerID uint64
}

// StartNextRoundInput is the input for StartNextRound
type StartNextRoundInput struct {
	PlayerID uint64
}

// EndGameInput is the input for EndGame
type EndGameInput struct {
	PlayerID uint64
}

// GetStateOutput is the output for GetState
type GetStateOutput struct {
	SessionID     string                `json:"sessionId"`
	Phase         models.Phase          `json:"phase"`
	Round         int                   `json:"round"`
	TimeRemaining time.Duration         `json:"timeRemaining"`
	NextAction    models.NextAction     `json:"nextAction,omitempty"`
	Standings     []models.Standing     `json:"standings,omitempty"`
	Snapshot      *replication.Snapshot `json:"snapshot"`
}

// ListRoundsOutput is the output for ListRounds
type ListRoundsOutput struct {
	Rounds []*models.RoundResult `json:"rounds"`
}

type command struct {
	fn    func() error
	reply chan error
}
