package dialogue

import (
	"context"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/rs/zerolog"
)

type service struct {
	generator   Generator
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
	log         zerolog.Logger
}

// New creates a dialogue service over a generator
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Generator == nil {
		return nil, ErrNilGenerator
	}

	s := &service{
		generator:   cfg.Generator,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		sleep:       cfg.Sleep,
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = DefaultMaxAttempts
	}
	if s.baseDelay <= 0 {
		s.baseDelay = DefaultBaseDelay
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}

	log := logging.OrNop(cfg.Logger)
	s.log = log.With().Str("component", "dialogue").Logger()
	return s, nil
}

// GetConversation asks the generator for a conversation, retrying with
// exponential backoff. Once attempts run out, or ctx ends, it settles on the
// fallback conversation.
func (s *service) GetConversation(ctx context.Context, input *GetConversationInput) (*GetConversationOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	prompt := BuildPrompt(input)
	log := s.log.With().Uint64("player_id", input.PlayerID).Logger()

	attempts := 0
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		attempts++
		raw, err := s.generator.Generate(ctx, prompt)
		if err == nil {
			conv, parseErr := ParseConversation(raw)
			if parseErr == nil {
				return &GetConversationOutput{Conversation: conv, Attempts: attempts}, nil
			}
			err = parseErr
		}

		log.Error().Err(err).Int("attempt", attempts).Msg("conversation generation failed")
		if attempt == s.maxAttempts-1 {
			break
		}
		if err := s.sleep(ctx, s.baseDelay<<attempt); err != nil {
			log.Warn().Err(err).Msg("backoff interrupted")
			break
		}
	}

	log.Error().Int("attempts", attempts).Msg("using fallback conversation")
	return &GetConversationOutput{
		Conversation: FallbackConversation(),
		Attempts:     attempts,
		Fallback:     true,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
