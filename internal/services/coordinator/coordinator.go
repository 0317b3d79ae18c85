package coordinator

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/clock"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/collector"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/content"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/dialogue"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/fragments"
	"github.com/rs/zerolog"
)

// Coordinator is the host's game state machine. Every method must be called
// from the goroutine that owns the SessionContext; only conversation
// generation and history writes run elsewhere, and their results come back
// through Update.
type Coordinator struct {
	session   SessionContext
	content   *content.Service
	mixer     *fragments.Mixer
	dialogue  dialogue.Service
	history   history.Repository
	random    random.Source
	clock     clock.Clock
	uuid      uuid.UUID
	sessionID string

	questionDuration   time.Duration
	botCreationTimeout time.Duration
	votingTimeout      time.Duration
	scoreThreshold     int
	onPhaseChange      func(from, to models.Phase)
	log                zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	results chan generationResult

	phase     models.Phase
	round     int
	epoch     int
	countdown collector.Countdown
	collector *collector.Collector
	responses map[uint64]*models.RolesResponses

	allocations   []Allocation
	activityIndex int
	activity      models.Activity
	expected      []uint64
	personas      map[uint64]string
	personaWatch  watchers

	conversations     map[uint64]*turnConversation
	turnOrder         []uint64
	currentTurn       uint64
	hasTurn           bool
	conversationIndex int

	voters     []uint64
	ballots    map[uint64]uint64
	voteWatch  watchers
	standings  []models.Standing
	nextAction models.NextAction
}

// New creates a coordinator in the lobby phase
func New(cfg *Config) (*Coordinator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	switch {
	case cfg.Session == nil:
		return nil, ErrNilSession
	case cfg.Content == nil:
		return nil, ErrNilContent
	case cfg.Mixer == nil:
		return nil, ErrNilMixer
	case cfg.Dialogue == nil:
		return nil, ErrNilDialogue
	case cfg.Random == nil:
		return nil, ErrNilRandom
	case cfg.Clock == nil:
		return nil, ErrNilClock
	case cfg.UUID == nil:
		return nil, ErrNilUUIDGenerator
	}

	questionDuration := cfg.QuestionDuration
	if questionDuration <= 0 {
		questionDuration = DefaultQuestionDuration
	}
	threshold := cfg.ScoreThreshold
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}

	log := logging.OrNop(cfg.Logger)
	log = log.With().Str("component", "coordinator").Str("session_id", uuid.Short(cfg.SessionID)).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		session:            cfg.Session,
		content:            cfg.Content,
		mixer:              cfg.Mixer,
		dialogue:           cfg.Dialogue,
		history:            cfg.History,
		random:             cfg.Random,
		clock:              cfg.Clock,
		uuid:               cfg.UUID,
		sessionID:          cfg.SessionID,
		questionDuration:   questionDuration,
		botCreationTimeout: cfg.BotCreationTimeout,
		votingTimeout:      cfg.VotingTimeout,
		scoreThreshold:     threshold,
		onPhaseChange:      cfg.OnPhaseChange,
		log:                log,
		ctx:                ctx,
		cancel:             cancel,
		results:            make(chan generationResult, 1),
		phase:              models.PhaseLobby,
		collector:          collector.New(&collector.Config{Policy: cfg.SubmissionPolicy, Logger: &log}),
		responses:          make(map[uint64]*models.RolesResponses),
		activityIndex:      -1,
	}, nil
}

// Close cancels outstanding generation and waits for background work
func (c *Coordinator) Close() {
	c.cancel()
	c.wg.Wait()
}

// Phase returns the current phase
func (c *Coordinator) Phase() models.Phase {
	return c.phase
}

// Round returns the 1-based round number, 0 in the lobby
func (c *Coordinator) Round() int {
	return c.round
}

// ActivityIndex is the activity of the current round, -1 before bot creation
func (c *Coordinator) ActivityIndex() int {
	return c.activityIndex
}

// CurrentTurn returns the player whose conversation is playing
func (c *Coordinator) CurrentTurn() (uint64, bool) {
	return c.currentTurn, c.hasTurn
}

// ConversationIndex is the shared playback position
func (c *Coordinator) ConversationIndex() int {
	return c.conversationIndex
}

// TurnOrder returns the players still to act
func (c *Coordinator) TurnOrder() []uint64 {
	return slices.Clone(c.turnOrder)
}

// Allocations returns the responses handed out during the last bot creation
func (c *Coordinator) Allocations() []Allocation {
	return slices.Clone(c.allocations)
}

// Responses returns the collected responses of the current round
func (c *Coordinator) Responses() map[uint64]models.RolesResponses {
	out := make(map[uint64]models.RolesResponses, len(c.responses))
	for id, r := range c.responses {
		out[id] = models.RolesResponses{
			Role:      slices.Clone(r.Role),
			Adjective: slices.Clone(r.Adjective),
			Free:      slices.Clone(r.Free),
		}
	}
	return out
}

// Standings returns the ranking computed at the last scoring
func (c *Coordinator) Standings() []models.Standing {
	return slices.Clone(c.standings)
}

// NextAction is what the last scoring decided
func (c *Coordinator) NextAction() models.NextAction {
	return c.nextAction
}

// TimeRemaining is the time left on the running phase deadline
func (c *Coordinator) TimeRemaining() time.Duration {
	return c.countdown.Remaining()
}

// StartGame leaves the lobby and opens the first round
func (c *Coordinator) StartGame() error {
	if c.phase != models.PhaseLobby {
		return c.reject(ErrWrongPhase, 0, "start game")
	}
	if len(c.session.ConnectedPlayers()) < models.MinPlayers {
		return c.reject(ErrNotEnoughPlayers, 0, "start game")
	}

	c.round = 1
	c.startRound()
	return nil
}

// Update advances the phase deadline by delta and applies settled
// conversation generation
func (c *Coordinator) Update(delta time.Duration) {
	if c.countdown.Update(delta) {
		c.onDeadline()
	}

	for {
		select {
		case result := <-c.results:
			c.onGenerated(result)
		default:
			return
		}
	}
}

// PlayerDisconnected re-evaluates every gate the departed player could be
// holding. Call it after the player's record has been removed.
func (c *Coordinator) PlayerDisconnected(id uint64) {
	c.log.Info().Uint64("player_id", id).Str("phase", c.phase.String()).Msg("player disconnected")

	// ActivityIntro needs nothing here: onGenerated keeps only players still
	// connected when the conversations arrive.
	switch c.phase {
	case models.PhaseBotCreation:
		c.checkPersonas()
	case models.PhaseTurnBasedConversation:
		if c.hasTurn && c.currentTurn == id {
			c.hasTurn = false
			c.advanceTurn()
		}
	case models.PhaseVoting:
		delete(c.ballots, id)
		c.checkVotes()
	}
}

func (c *Coordinator) onDeadline() {
	c.log.Info().Str("phase", c.phase.String()).Msg("phase deadline reached")

	switch {
	case c.phase.IsQuestion():
		c.closeQuestion()
	case c.phase == models.PhaseBotCreation:
		c.fillMissingPersonas()
	case c.phase == models.PhaseVoting:
		c.finishVoting()
	}
}

func (c *Coordinator) startRound() {
	c.responses = make(map[uint64]*models.RolesResponses)
	c.allocations = nil
	c.activityIndex = -1
	c.conversations = nil
	c.turnOrder = nil
	c.hasTurn = false
	c.conversationIndex = 0
	c.standings = nil
	c.nextAction = ""

	c.session.Batch(func() {
		session := c.session.Session()
		set(c.log, session.Round, c.round)
		set(c.log, session.VotingState, models.VotingStateClosed)
		set(c.log, session.PlayerTurnOrder, "")
		for _, player := range c.connectedStates() {
			player.ResetRound()
		}
		c.startQuestion(models.QuestionKindRole)
	})
	c.log.Info().Int("round", c.round).Msg("round started")
}

func (c *Coordinator) setPhase(next models.Phase) {
	prev := c.phase
	if !prev.CanTransitionTo(next) {
		c.log.Error().Str("from", prev.String()).Str("to", next.String()).Msg("invalid phase transition")
		return
	}
	c.phase = next
	set(c.log, c.session.Session().Phase, next)
	c.log.Info().Str("from", prev.String()).Str("to", next.String()).Int("round", c.round).Msg("phase changed")
	if c.onPhaseChange != nil {
		c.onPhaseChange(prev, next)
	}
}

// startTimer arms the phase deadline and publishes its start for countdown
// display. Non-positive durations leave the phase untimed.
func (c *Coordinator) startTimer(d time.Duration) {
	c.countdown.Start(d)
	if d > 0 {
		set(c.log, c.session.Session().TimerStart, c.clock.Now().Unix())
	}
}

func (c *Coordinator) connectedStates() []*replication.PlayerState {
	ids := c.session.ConnectedPlayers()
	players := make([]*replication.PlayerState, 0, len(ids))
	for _, id := range ids {
		if player, ok := c.session.Player(id); ok {
			players = append(players, player)
		}
	}
	return players
}

func (c *Coordinator) connected(id uint64) bool {
	_, ok := c.session.Player(id)
	return ok
}

func (c *Coordinator) player(id uint64, action string) (*replication.PlayerState, error) {
	player, ok := c.session.Player(id)
	if !ok {
		return nil, c.reject(ErrPlayerNotFound, id, action)
	}
	return player, nil
}

// reject logs a refused inbound action and returns err
func (c *Coordinator) reject(err error, playerID uint64, action string) error {
	c.log.Warn().Err(err).Uint64("player_id", playerID).Str("action", action).Str("phase", c.phase.String()).Msg("action rejected")
	return err
}

// set writes a host field, logging the rare write the field refuses
func set[T comparable](log zerolog.Logger, v *replication.Var[T], value T) {
	if err := v.Set(replication.Host, value); err != nil {
		log.Error().Err(err).Str("field", string(v.Field())).Msg("host write failed")
	}
}

// watchers keeps the subscription tokens of one gate so they can all be
// removed when the gate closes
type watchers struct {
	cancels []func()
}

func watch[T comparable](w *watchers, v *replication.Var[T], fn func(prev, cur T)) {
	tok := v.Subscribe(fn)
	w.cancels = append(w.cancels, func() { v.Unsubscribe(tok) })
}

func (w *watchers) clear() {
	for _, cancel := range w.cancels {
		cancel()
	}
	w.cancels = nil
}
