package coordinator

import (
	"maps"
	"slices"
	"strings"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
)

// SubmitBotPersona writes a player's bot persona
func (c *Coordinator) SubmitBotPersona(playerID uint64, text string) error {
	if c.phase != models.PhaseBotCreation {
		return c.reject(ErrWrongPhase, playerID, "submit bot persona")
	}
	if strings.TrimSpace(text) == "" {
		return c.reject(ErrEmptySubmission, playerID, "submit bot persona")
	}
	player, err := c.player(playerID, "submit bot persona")
	if err != nil {
		return err
	}
	if err := player.BotPersona.Set(replication.Client(playerID), text); err != nil {
		return c.reject(err, playerID, "submit bot persona")
	}
	return nil
}

// startBotCreation hands out options, fragments and the activity, then waits
// for every player's persona
func (c *Coordinator) startBotCreation() {
	players := c.connectedStates()
	ids := make([]uint64, len(players))
	for i, player := range players {
		ids[i] = player.ID()
	}

	c.activityIndex, c.activity = c.content.RandomActivity()
	c.allocations = nil
	options := make(map[models.QuestionKind]map[uint64][]string, 3)
	for _, kind := range []models.QuestionKind{models.QuestionKindRole, models.QuestionKindAdjective, models.QuestionKindFree} {
		byPlayer, allocations := Redistribute(c.random, kind, ids, c.responses, c.content.ExampleAnswers(kind))
		options[kind] = byPlayer
		c.allocations = append(c.allocations, allocations...)
	}
	pools := c.mixer.MixAll(ids, c.collectedAnswers())

	c.expected = ids
	c.personas = make(map[uint64]string, len(ids))
	defaults := c.content.DefaultOptions()

	c.session.Batch(func() {
		c.setPhase(models.PhaseBotCreation)
		for _, player := range players {
			id := player.ID()
			set(c.log, player.RoleOptions, joinOptions(append(options[models.QuestionKindRole][id], defaults...), replication.TextBytes))
			set(c.log, player.AdjectiveOptions, joinOptions(options[models.QuestionKindAdjective][id], replication.TextBytes))
			set(c.log, player.FreeOptions, joinOptions(options[models.QuestionKindFree][id], replication.TextBytes))
			set(c.log, player.Fragments, pools[id].Fragments)
			set(c.log, player.ActivityIndex, c.activityIndex)

			watch(&c.personaWatch, player.BotPersona, func(_, cur string) {
				c.onPersona(id, cur)
			})
		}
		c.startTimer(c.botCreationTimeout)
	})
	c.log.Info().Int("activity", c.activityIndex).Int("players", len(ids)).Int("allocations", len(c.allocations)).Msg("bot creation started")
}

// collectedAnswers flattens every collected response in a stable order for
// the fragment mixer
func (c *Coordinator) collectedAnswers() []fragments.Answer {
	var answers []fragments.Answer
	for _, id := range slices.Sorted(maps.Keys(c.responses)) {
		r := c.responses[id]
		for _, values := range [][]string{r.Role, r.Adjective, r.Free} {
			for _, text := range values {
				answers = append(answers, fragments.Answer{PlayerID: id, Text: text})
			}
		}
	}
	return answers
}

func (c *Coordinator) onPersona(playerID uint64, persona string) {
	if c.phase != models.PhaseBotCreation {
		return
	}
	persona = strings.TrimSpace(persona)
	if persona == "" {
		delete(c.personas, playerID)
		return
	}
	c.personas[playerID] = persona
	c.checkPersonas()
}

// checkPersonas finishes bot creation once every expected player still
// connected has a persona
func (c *Coordinator) checkPersonas() {
	if c.phase != models.PhaseBotCreation {
		return
	}
	for _, id := range c.expected {
		if !c.connected(id) {
			continue
		}
		if _, ok := c.personas[id]; !ok {
			return
		}
	}
	c.finishBotCreation()
}

// fillMissingPersonas ends bot creation on its deadline with the fallback
// persona for everyone who did not write one
func (c *Coordinator) fillMissingPersonas() {
	c.personaWatch.clear()
	fallback := c.content.FallbackPersona()

	c.session.Batch(func() {
		for _, id := range c.expected {
			player, ok := c.session.Player(id)
			if !ok {
				continue
			}
			if _, ok := c.personas[id]; ok {
				continue
			}
			c.personas[id] = fallback
			set(c.log, player.BotPersona, fallback)
			c.log.Info().Uint64("player_id", id).Msg("using fallback persona")
		}
	})
	c.finishBotCreation()
}

func (c *Coordinator) finishBotCreation() {
	c.personaWatch.clear()
	c.countdown.Stop()
	c.startActivityIntro()
}
