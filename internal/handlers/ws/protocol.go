package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/session"
)

// Action types sent by clients
const (
	ActionProfile   = "profile"
	ActionStart     = "start"
	ActionAnswer    = "answer"
	ActionPersona   = "persona"
	ActionVote      = "vote"
	ActionAdvance   = "advance"
	ActionNextRound = "next_round"
	ActionEndGame   = "end_game"
)

// Frame types sent to clients
const (
	FrameWelcome  = "welcome"
	FrameChanges  = "changes"
	FrameRejected = "rejected"
)

// Action is one inbound client message
type Action struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Target uint64 `json:"target,omitempty"`

	// profile only
	AvatarIndex *int               `json:"avatarIndex,omitempty"`
	LobbyState  *models.LobbyState `json:"lobbyState,omitempty"`
}

// Frame is one outbound server message. A changes frame carries exactly one
// replication batch.
type Frame struct {
	Type      string                `json:"type"`
	PlayerID  uint64                `json:"playerId,omitempty"`
	SessionID string                `json:"sessionId,omitempty"`
	Snapshot  *replication.Snapshot `json:"snapshot,omitempty"`
	Changes   []replication.Change  `json:"changes,omitempty"`
	Action    string                `json:"action,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// ParseAction decodes an inbound message
func ParseAction(data []byte) (*Action, error) {
	var action Action
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAction, err)
	}
	if action.Type == "" {
		return nil, ErrBadAction
	}
	return &action, nil
}

// dispatch performs action on behalf of playerID
func dispatch(ctx context.Context, svc session.Service, playerID uint64, action *Action) error {
	switch action.Type {
	case ActionProfile:
		input := &session.UpdateProfileInput{
			PlayerID:    playerID,
			AvatarIndex: action.AvatarIndex,
			LobbyState:  action.LobbyState,
		}
		if action.Text != "" {
			input.DisplayName = &action.Text
		}
		return svc.UpdateProfile(ctx, input)
	case ActionStart:
		return svc.StartGame(ctx, &session.StartGameInput{PlayerID: playerID})
	case ActionAnswer:
		return svc.SubmitAnswer(ctx, &session.SubmitAnswerInput{PlayerID: playerID, Text: action.Text})
	case ActionPersona:
		return svc.SubmitBotPersona(ctx, &session.SubmitBotPersonaInput{PlayerID: playerID, Text: action.Text})
	case ActionVote:
		return svc.SubmitVote(ctx, &session.SubmitVoteInput{PlayerID: playerID, Target: action.Target})
	case ActionAdvance:
		return svc.AdvanceConversation(ctx, &session.AdvanceConversationInput{PlayerID: playerID})
	case ActionNextRound:
		return svc.StartNextRound(ctx, &session.StartNextRoundInput{PlayerID: playerID})
	case ActionEndGame:
		return svc.EndGame(ctx, &session.EndGameInput{PlayerID: playerID})
	}
	return ErrUnknownAction
}
