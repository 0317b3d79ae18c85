package history

import "github.com/BraydenJenkins/chatbot-showdown/internal/models"

type SaveRoundInput struct {
	Result *models.RoundResult
}

type GetRoundInput struct {
	RoundID string
}

type ListRoundsInput struct {
	SessionID string
}

type ListRoundsOutput struct {
	Rounds []*models.RoundResult
}
