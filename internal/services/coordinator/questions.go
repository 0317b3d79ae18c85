package coordinator

import (
	"fmt"
	"strings"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
)

var questionPhases = map[models.QuestionKind]models.Phase{
	models.QuestionKindRole:      models.PhaseRoleQuestion,
	models.QuestionKindAdjective: models.PhaseAdjectiveQuestion,
	models.QuestionKindFree:      models.PhaseFreeQuestion,
}

// SubmitAnswer writes a player's answer to the open question
func (c *Coordinator) SubmitAnswer(playerID uint64, text string) error {
	kind, ok := models.QuestionKindForPhase(c.phase)
	if !ok {
		return c.reject(ErrWrongPhase, playerID, "submit answer")
	}
	if strings.TrimSpace(text) == "" {
		return c.reject(ErrEmptySubmission, playerID, "submit answer")
	}
	player, err := c.player(playerID, "submit answer")
	if err != nil {
		return err
	}

	writer := replication.Client(playerID)
	_, answer := player.QuestionFields(kind)
	if err := answer.Set(writer, text); err != nil {
		return c.reject(fmt.Errorf("failed to write answer: %w", err), playerID, "submit answer")
	}
	if err := player.Answer.Set(writer, text); err != nil {
		c.log.Warn().Err(err).Uint64("player_id", playerID).Msg("failed to mirror answer")
	}
	return nil
}

func (c *Coordinator) startQuestion(kind models.QuestionKind) {
	c.session.Batch(func() {
		c.setPhase(questionPhases[kind])

		err := c.collector.StartRound(kind, c.connectedStates(), func(playerID uint64) string {
			question, err := c.content.RandomQuestion(kind)
			if err != nil {
				c.log.Error().Err(err).Uint64("player_id", playerID).Msg("no question available")
			}
			return question
		})
		if err != nil {
			c.log.Error().Err(err).Str("kind", string(kind)).Msg("failed to open question round")
		}

		c.startTimer(c.questionDuration)
	})
}

// closeQuestion ends the open question round on its deadline, regardless of
// how many players answered
func (c *Coordinator) closeQuestion() {
	kind := c.collector.Kind()
	c.collector.Close()

	for id, values := range c.collector.Responses() {
		responses, ok := c.responses[id]
		if !ok {
			responses = &models.RolesResponses{}
			c.responses[id] = responses
		}
		responses.Set(kind, values)
	}
	c.log.Info().Str("kind", string(kind)).Int("answered", c.collector.Answered()).Msg("question round closed")

	switch kind {
	case models.QuestionKindRole:
		c.startQuestion(models.QuestionKindAdjective)
	case models.QuestionKindAdjective:
		c.startQuestion(models.QuestionKindFree)
	default:
		c.startBotCreation()
	}
}
