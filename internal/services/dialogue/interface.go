package dialogue

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue Service,Generator

// Service produces the conversation one player's bot has during an activity
type Service interface {
	// GetConversation never fails on generation errors; it retries and then
	// returns the fallback conversation
	GetConversation(ctx context.Context, input *GetConversationInput) (*GetConversationOutput, error)
}

// Generator is a text generation backend. It returns the raw model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
