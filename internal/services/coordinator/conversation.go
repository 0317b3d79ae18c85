package coordinator

import (
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/turnorder"
)

// AdvanceConversation moves playback forward for the player whose turn it
// is. Past the last message the next player's turn starts.
func (c *Coordinator) AdvanceConversation(playerID uint64) error {
	if c.phase != models.PhaseTurnBasedConversation {
		return c.reject(ErrWrongPhase, playerID, "advance conversation")
	}
	if !c.hasTurn || playerID != c.currentTurn {
		return c.reject(ErrNotYourTurn, playerID, "advance conversation")
	}
	player, err := c.player(playerID, "advance conversation")
	if err != nil {
		return err
	}
	if !player.IsMyTurn.Get() {
		return c.reject(ErrNotYourTurn, playerID, "advance conversation")
	}

	turn := c.conversations[playerID]
	if c.conversationIndex < turn.conversation.MessageCount() {
		c.conversationIndex++
		c.session.Batch(func() {
			for _, p := range c.connectedStates() {
				set(c.log, p.CurrentConversationIndex, c.conversationIndex)
			}
		})
		return nil
	}

	c.advanceTurn()
	return nil
}

// startActivityIntro requests one conversation per persona. Generation runs
// off the session goroutine; the settled batch comes back through Update.
func (c *Coordinator) startActivityIntro() {
	c.setPhase(models.PhaseActivityIntro)
	c.epoch++
	epoch := c.epoch

	inputs := make(map[uint64]*dialogue.GetConversationInput, len(c.personas))
	for _, id := range c.expected {
		if !c.connected(id) {
			continue
		}
		inputs[id] = dialogue.InputForActivity(id, c.personas[id], c.activity)
	}
	c.log.Info().Int("requests", len(inputs)).Msg("generating conversations")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		outputs := dialogue.GenerateAll(c.ctx, c.dialogue, inputs, &c.log)
		select {
		case c.results <- generationResult{epoch: epoch, outputs: outputs}:
		case <-c.ctx.Done():
		}
	}()
}

// onGenerated stores the settled conversations and starts playback
func (c *Coordinator) onGenerated(result generationResult) {
	if result.epoch != c.epoch || c.phase != models.PhaseActivityIntro {
		c.log.Debug().Int("epoch", result.epoch).Msg("discarding stale conversations")
		return
	}

	c.conversations = make(map[uint64]*turnConversation, len(result.outputs))
	var ids []uint64
	for _, id := range c.session.ConnectedPlayers() {
		output, ok := result.outputs[id]
		if !ok {
			continue
		}
		encoded, fitted, err := dialogue.EncodeForReplication(output.Conversation, replication.ConversationBytes)
		if err != nil {
			c.log.Error().Err(err).Uint64("player_id", id).Msg("conversation does not fit, using fallback")
			encoded, fitted, err = dialogue.EncodeForReplication(dialogue.FallbackConversation(), replication.ConversationBytes)
			if err != nil {
				continue
			}
		}
		if output.Fallback {
			c.log.Warn().Uint64("player_id", id).Msg("playing fallback conversation")
		}
		c.conversations[id] = &turnConversation{
			encoded:      encoded,
			conversation: fitted,
			persona:      c.personas[id],
		}
		ids = append(ids, id)
	}

	c.session.Batch(func() {
		c.setPhase(models.PhaseTurnBasedConversation)
		c.turnOrder = turnorder.Shuffle(c.random, ids)
		c.advanceTurn()
	})
}

// advanceTurn hands the turn to the next connected player in the order, or
// opens voting once the order is exhausted. All fields of a turn change are
// published as one batch.
func (c *Coordinator) advanceTurn() {
	if c.phase != models.PhaseTurnBasedConversation {
		return
	}

	c.session.Batch(func() {
		if c.hasTurn {
			if prev, ok := c.session.Player(c.currentTurn); ok {
				set(c.log, prev.IsMyTurn, false)
			}
			c.hasTurn = false
		}

		next, remainder, ok := turnorder.AdvanceConnected(c.turnOrder, func(id uint64) bool {
			_, has := c.conversations[id]
			return has && c.connected(id)
		})
		c.turnOrder = remainder
		c.conversationIndex = 0
		set(c.log, c.session.Session().PlayerTurnOrder, turnorder.Serialize(remainder))

		if !ok {
			c.log.Info().Msg("turn order exhausted")
			c.startVoting()
			return
		}

		c.currentTurn = next
		c.hasTurn = true
		turn := c.conversations[next]
		for _, player := range c.connectedStates() {
			set(c.log, player.CurrentConversation, turn.encoded)
			set(c.log, player.CurrentBotPrompt, turn.persona)
			set(c.log, player.CurrentConversationIndex, 0)
			set(c.log, player.IsMyTurn, player.ID() == next)
		}
		c.log.Info().Uint64("player_id", next).Int("remaining", len(remainder)).Msg("turn started")
	})
}
