package collector

import (
	"slices"
	"strings"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/rs/zerolog"
)

type subscription struct {
	answer *replication.Var[string]
	token  replication.Token
}

// Collector runs one "ask every player, collect the replies" round at a time.
// It must be used from the goroutine that owns the registry.
type Collector struct {
	policy Policy
	log    zerolog.Logger

	kind      models.QuestionKind
	open      bool
	order     []uint64
	responses map[uint64][]string
	subs      []subscription
}

// New creates a collector
func New(cfg *Config) *Collector {
	if cfg == nil {
		cfg = &Config{}
	}
	log := logging.OrNop(cfg.Logger)
	return &Collector{
		policy: cfg.Policy,
		log:    log.With().Str("component", "collector").Logger(),
	}
}

// StartRound writes each player's question for kind and subscribes to the
// matching answer field. The round stays open until Close.
func (c *Collector) StartRound(kind models.QuestionKind, players []*replication.PlayerState, supplier QuestionSupplier) error {
	if c.open {
		return ErrRoundOpen
	}
	if supplier == nil {
		return ErrNilSupplier
	}
	switch kind {
	case models.QuestionKindRole, models.QuestionKindAdjective, models.QuestionKindFree:
	default:
		return ErrUnknownQuestion
	}

	c.kind = kind
	c.open = true
	c.order = c.order[:0]
	c.responses = make(map[uint64][]string, len(players))
	c.subs = c.subs[:0]

	for _, player := range players {
		id := player.ID()
		question, answer := player.QuestionFields(kind)
		if err := question.Set(replication.Host, supplier(id)); err != nil {
			c.log.Warn().Err(err).Uint64("player_id", id).Msg("failed to write question")
			continue
		}
		if err := player.Question.Set(replication.Host, question.Get()); err != nil {
			c.log.Warn().Err(err).Uint64("player_id", id).Msg("failed to mirror question")
		}

		tok := answer.Subscribe(func(_, cur string) {
			c.OnAnswerChanged(id, cur)
		})
		c.subs = append(c.subs, subscription{answer: answer, token: tok})
		c.order = append(c.order, id)
	}

	c.log.Debug().Str("kind", string(kind)).Int("players", len(c.order)).Msg("round opened")
	return nil
}

// OnAnswerChanged records a submission. Submissions outside an open round,
// from players not asked this round, or blank ones are ignored.
func (c *Collector) OnAnswerChanged(playerID uint64, value string) {
	if !c.open {
		return
	}
	if !slices.Contains(c.order, playerID) {
		c.log.Warn().Uint64("player_id", playerID).Msg("answer from a player outside the round")
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch c.policy {
	case PolicyAccumulate:
		c.responses[playerID] = append(c.responses[playerID], value)
	default:
		c.responses[playerID] = []string{value}
	}
}

// Close removes every answer subscription of the round. Closing twice is a no-op.
func (c *Collector) Close() {
	if !c.open {
		return
	}
	for _, sub := range c.subs {
		sub.answer.Unsubscribe(sub.token)
	}
	c.subs = c.subs[:0]
	c.open = false
	c.log.Debug().Str("kind", string(c.kind)).Int("answered", c.Answered()).Msg("round closed")
}

// Open reports whether a round is collecting
func (c *Collector) Open() bool {
	return c.open
}

// Kind is the question kind of the current or last round
func (c *Collector) Kind() models.QuestionKind {
	return c.kind
}

// Answered counts the players with at least one response
func (c *Collector) Answered() int {
	return len(c.responses)
}

// Responses returns a copy of the collected responses keyed by player id
func (c *Collector) Responses() map[uint64][]string {
	out := make(map[uint64][]string, len(c.responses))
	for id, values := range c.responses {
		out[id] = slices.Clone(values)
	}
	return out
}

// Players returns the ids asked this round in the order they were asked
func (c *Collector) Players() []uint64 {
	return slices.Clone(c.order)
}
