package coordinator

import (
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/clock"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/collector"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/content"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
	"github.com/rs/zerolog"
)

// Defaults applied by New
const (
	DefaultQuestionDuration = 30 * time.Second
	DefaultScoreThreshold   = 10
	OptionsPerPlayer        = 2
	OptionSeparator         = ";"
	historySaveTimeout      = 5 * time.Second
)

// Config holds the coordinator's collaborators and tunables
type Config struct {
	Session  SessionContext
	Content  *content.Service
	Mixer    *fragments.Mixer
	Dialogue dialogue.Service
	Random   random.Source
	Clock    clock.Clock
	UUID     uuid.UUID

	// History is optional; nil skips round records
	History history.Repository

	// SessionID tags round records
	SessionID string

	// QuestionDuration is the deadline of each question phase
	QuestionDuration time.Duration

	// BotCreationTimeout ends bot creation with fallback personas. Zero waits
	// for every player.
	BotCreationTimeout time.Duration

	// VotingTimeout ends voting with the missing ballots abstaining. Zero
	// waits for every player.
	VotingTimeout time.Duration

	// ScoreThreshold is the cumulative score that ends the game
	ScoreThreshold int

	// SubmissionPolicy for repeated answers within a question phase
	SubmissionPolicy collector.Policy

	// OnPhaseChange is called on the session goroutine after every transition
	OnPhaseChange func(from, to models.Phase)

	Logger *zerolog.Logger
}

// Allocation records one collected response handed to a recipient as an option
type Allocation struct {
	Kind      models.QuestionKind
	Response  string
	Author    uint64
	Recipient uint64
}

type generationResult struct {
	epoch   int
	outputs map[uint64]*dialogue.GetConversationOutput
}

type turnConversation struct {
	encoded      string
	conversation *models.Conversation
	persona      string
}
