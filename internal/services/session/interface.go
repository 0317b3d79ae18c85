package session

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/BraydenJenkins/chatbot-showdown/internal/services/session Service

import "context"

// Service defines the operations transports perform on a game session
type Service interface {
	// Join connects a new player and registers the sink that receives every
	// following change batch
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Leave disconnects a player and drops their sink
	Leave(ctx context.Context, input *LeaveInput) error

	// UpdateProfile writes the player's own name, avatar and lobby state
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) error

	// StartGame leaves the lobby. Only the lobby leader may start.
	StartGame(ctx context.Context, input *StartGameInput) error

	// SubmitAnswer answers the open question
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) error

	// SubmitBotPersona writes the player's bot persona
	SubmitBotPersona(ctx context.Context, input *SubmitBotPersonaInput) error

	// SubmitVote casts the player's ballot
	SubmitVote(ctx context.Context, input *SubmitVoteInput) error

	// AdvanceConversation moves conversation playback forward
	AdvanceConversation(ctx context.Context, input *AdvanceConversationInput) error

	// StartNextRound carries out the action decided at scoring
	StartNextRound(ctx context.Context, input *StartNextRoundInput) error

	// EndGame ends the session for everyone
	EndGame(ctx context.Context, input *EndGameInput) error

	// GetState returns the session status and full replicated state
	GetState(ctx context.Context) (*GetStateOutput, error)

	// ListRounds returns the recorded rounds of this session
	ListRounds(ctx context.Context) (*ListRoundsOutput, error)
}
