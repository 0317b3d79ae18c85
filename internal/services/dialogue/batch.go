package dialogue

import (
	"context"
	"fmt"
	"sync"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/rs/zerolog"
)

// GenerateAll requests every conversation concurrently and returns once all
// have settled. A failing or panicking request settles on the fallback and
// never affects the others.
func GenerateAll(ctx context.Context, svc Service, inputs map[uint64]*GetConversationInput, logger *zerolog.Logger) map[uint64]*GetConversationOutput {
	log := logging.OrNop(logger)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[uint64]*GetConversationOutput, len(inputs))
	)

	for id, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := generateOne(ctx, svc, id, input, log)
			mu.Lock()
			out[id] = result
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

func generateOne(ctx context.Context, svc Service, id uint64, input *GetConversationInput, log zerolog.Logger) (result *GetConversationOutput) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Uint64("player_id", id).Str("panic", fmt.Sprint(r)).Msg("conversation generation panicked")
			result = &GetConversationOutput{Conversation: FallbackConversation(), Fallback: true}
		}
	}()

	output, err := svc.GetConversation(ctx, input)
	if err != nil || output == nil || output.Conversation.MessageCount() == 0 {
		log.Error().Err(err).Uint64("player_id", id).Msg("conversation request did not settle")
		return &GetConversationOutput{Conversation: FallbackConversation(), Fallback: true}
	}
	return output
}
