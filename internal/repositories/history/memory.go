package history

import (
	"context"
	"sort"
	"sync"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// memoryRepository keeps round results in process. Used when no Redis is
// configured; results are lost when the host exits.
type memoryRepository struct {
	mu     sync.RWMutex
	rounds map[string]*models.RoundResult
}

// NewMemory creates an in-process history repository
func NewMemory() *memoryRepository {
	return &memoryRepository{rounds: make(map[string]*models.RoundResult)}
}

func (m *memoryRepository) SaveRound(_ context.Context, input *SaveRoundInput) error {
	if input == nil || input.Result == nil || input.Result.ID == "" || input.Result.SessionID == "" {
		return ErrInvalidInput
	}

	result := *input.Result
	result.Standings = append([]models.Standing(nil), input.Result.Standings...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[result.ID] = &result
	return nil
}

func (m *memoryRepository) GetRound(_ context.Context, input *GetRoundInput) (*models.RoundResult, error) {
	if input == nil || input.RoundID == "" {
		return nil, ErrInvalidInput
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result, ok := m.rounds[input.RoundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	out := *result
	return &out, nil
}

func (m *memoryRepository) ListRounds(_ context.Context, input *ListRoundsInput) (*ListRoundsOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, ErrInvalidInput
	}

	m.mu.RLock()
	rounds := make([]*models.RoundResult, 0)
	for _, result := range m.rounds {
		if result.SessionID == input.SessionID {
			out := *result
			rounds = append(rounds, &out)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Round < rounds[j].Round
	})
	return &ListRoundsOutput{Rounds: rounds}, nil
}
