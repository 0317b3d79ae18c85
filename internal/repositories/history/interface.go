package history

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history Repository

import (
	"context"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// Repository defines the interface for round result persistence
type Repository interface {
	// SaveRound persists the result of one scored round
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// GetRound retrieves a round result by ID
	GetRound(ctx context.Context, input *GetRoundInput) (*models.RoundResult, error)

	// ListRounds retrieves every round of a session ordered by round number
	ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error)
}
