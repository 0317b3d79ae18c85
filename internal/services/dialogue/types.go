package dialogue

import (
	"context"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/rs/zerolog"
)

// Defaults applied by New
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config for the dialogue service
type Config struct {
	// Generator is the backend. Required.
	Generator Generator

	// MaxAttempts defaults to DefaultMaxAttempts
	MaxAttempts int

	// BaseDelay is the first backoff; attempt n waits BaseDelay * 2^n
	BaseDelay time.Duration

	// Sleep defaults to a timer honoring ctx
	Sleep SleepFunc

	Logger *zerolog.Logger
}

// GetConversationInput describes the bot and the activity it plays
type GetConversationInput struct {
	// PlayerID tags log lines
	PlayerID uint64

	// Persona is the player's free-text description of their bot
	Persona string

	// Objective is what the bot is trying to achieve
	Objective string

	// Goal describes the conversation to write
	Goal string

	// CounterpartRole is the personality of whoever the bot talks to
	CounterpartRole string

	// Opener is the counterpart's first line
	Opener string
}

// GetConversationOutput is the settled result of one request
type GetConversationOutput struct {
	Conversation *models.Conversation

	// Attempts is the number of generator calls made
	Attempts int

	// Fallback is set when the fixed conversation was returned
	Fallback bool
}

// InputForActivity builds a request from a persona and an activity
func InputForActivity(playerID uint64, persona string, activity models.Activity) *GetConversationInput {
	return &GetConversationInput{
		PlayerID:        playerID,
		Persona:         persona,
		Objective:       activity.Description,
		Goal:            activity.Goal,
		CounterpartRole: activity.RoleName,
		Opener:          activity.ConversationStarter,
	}
}
