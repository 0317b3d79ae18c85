package session

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/clock"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid"
	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/replication"
	"github.com/BraydenJenkins/chatbot-showdown/internal/repositories/history"
	"github.com/BraydenJenkins/chatbot-showdown/internal/services/coordinator"
	"github.com/rs/zerolog"
)

// Host runs one game session. A single goroutine, started by Run, owns the
// registry and the coordinator; every exported method posts a command to it
// and waits for the result, so Host is safe for concurrent use.
type Host struct {
	id          string
	registry    *replication.Registry
	coordinator *coordinator.Coordinator
	history     history.Repository
	clock       clock.Clock
	tick        time.Duration
	log         zerolog.Logger

	inbox   chan command
	done    chan struct{}
	running atomic.Bool

	// owned by the session goroutine
	sinks  map[uint64]replication.Sink
	nextID uint64
}

var _ Service = (*Host)(nil)

// New creates a session host with a fresh session id
func New(cfg *Config) (*Host, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUID == nil {
		return nil, ErrNilUUIDGenerator
	}

	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}

	id := cfg.UUID.NewUUID()
	log := logging.OrNop(cfg.Logger)
	log = log.With().Str("component", "session").Str("session_id", uuid.Short(id)).Logger()

	h := &Host{
		id:      id,
		history: cfg.History,
		clock:   cfg.Clock,
		tick:    tick,
		log:     log,
		inbox:   make(chan command),
		done:    make(chan struct{}),
		sinks:   make(map[uint64]replication.Sink),
	}
	h.registry = replication.NewRegistry(&replication.Config{
		Sink:       replication.SinkFunc(h.publish),
		MaxPlayers: cfg.MaxPlayers,
	})

	coord, err := coordinator.New(&coordinator.Config{
		Session:            h.registry,
		Content:            cfg.Content,
		Mixer:              cfg.Mixer,
		Dialogue:           cfg.Dialogue,
		Random:             cfg.Random,
		Clock:              cfg.Clock,
		UUID:               cfg.UUID,
		History:            cfg.History,
		SessionID:          id,
		QuestionDuration:   cfg.Rules.QuestionDuration,
		BotCreationTimeout: cfg.Rules.BotCreationTimeout,
		VotingTimeout:      cfg.Rules.VotingTimeout,
		ScoreThreshold:     cfg.Rules.ScoreThreshold,
		SubmissionPolicy:   cfg.Rules.SubmissionPolicy,
		Logger:             cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}
	h.coordinator = coord

	return h, nil
}

// ID returns the session id
func (h *Host) ID() string {
	return h.id
}

// Run owns the session until ctx is done. It may be called once.
func (h *Host) Run(ctx context.Context) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		close(h.done)
		h.coordinator.Close()
		h.log.Info().Msg("session stopped")
	}()

	ticker := h.clock.NewTicker(h.tick)
	defer ticker.Stop()
	ticks := ticker.C()
	last := h.clock.Now()
	h.log.Info().Dur("tick", h.tick).Msg("session started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-h.inbox:
			cmd.reply <- cmd.fn()
		case now := <-ticks:
			delta := now.Sub(last)
			last = now
			if delta < 0 {
				delta = 0
			}
			h.coordinator.Update(delta)
		}
	}
}

// do runs fn on the session goroutine and waits for its result
func (h *Host) do(ctx context.Context, fn func() error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case h.inbox <- cmd:
	case <-h.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish fans a batch out to every joined player's sink
func (h *Host) publish(changes []replication.Change) {
	for _, sink := range h.sinks {
		sink.Publish(changes)
	}
}

func (h *Host) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.Sink == nil {
		return nil, ErrNilSink
	}

	var output *JoinOutput
	err := h.do(ctx, func() error {
		if h.coordinator.Phase() != models.PhaseLobby {
			return ErrGameInProgress
		}

		h.nextID++
		id := h.nextID
		if _, err := h.registry.Connect(id); err != nil {
			return fmt.Errorf("failed to connect player: %w", err)
		}
		h.sinks[id] = input.Sink

		output = &JoinOutput{
			PlayerID:  id,
			SessionID: h.id,
			Snapshot:  h.registry.Snapshot(),
		}
		h.log.Info().Uint64("player_id", id).Int("players", len(h.sinks)).Msg("player joined")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (h *Host) Leave(ctx context.Context, input *LeaveInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		delete(h.sinks, input.PlayerID)
		if err := h.registry.Disconnect(input.PlayerID); err != nil {
			return err
		}
		h.coordinator.PlayerDisconnected(input.PlayerID)
		h.log.Info().Uint64("player_id", input.PlayerID).Msg("player left")
		return nil
	})
}

func (h *Host) UpdateProfile(ctx context.Context, input *UpdateProfileInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		player, ok := h.registry.Player(input.PlayerID)
		if !ok {
			return replication.ErrPlayerNotFound
		}

		var err error
		writer := replication.Client(input.PlayerID)
		h.registry.Batch(func() {
			if input.DisplayName != nil {
				if err = player.DisplayName.Set(writer, *input.DisplayName); err != nil {
					return
				}
			}
			if input.AvatarIndex != nil {
				if err = player.AvatarIndex.Set(writer, *input.AvatarIndex); err != nil {
					return
				}
			}
			if input.LobbyState != nil {
				err = player.LobbyState.Set(writer, *input.LobbyState)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		return nil
	})
}

func (h *Host) StartGame(ctx context.Context, input *StartGameInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		players := h.registry.ConnectedPlayers()
		if len(players) == 0 || players[0] != input.PlayerID {
			return ErrNotLeader
		}
		return h.coordinator.StartGame()
	})
}

func (h *Host) SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.SubmitAnswer(input.PlayerID, input.Text)
	})
}

func (h *Host) SubmitBotPersona(ctx context.Context, input *SubmitBotPersonaInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.SubmitBotPersona(input.PlayerID, input.Text)
	})
}

func (h *Host) SubmitVote(ctx context.Context, input *SubmitVoteInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.SubmitVote(input.PlayerID, input.Target)
	})
}

func (h *Host) AdvanceConversation(ctx context.Context, input *AdvanceConversationInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.AdvanceConversation(input.PlayerID)
	})
}

func (h *Host) StartNextRound(ctx context.Context, input *StartNextRoundInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.RequestStartNextRound(input.PlayerID)
	})
}

func (h *Host) EndGame(ctx context.Context, input *EndGameInput) error {
	if input == nil {
		return ErrNilInput
	}
	return h.do(ctx, func() error {
		return h.coordinator.RequestEndGame(input.PlayerID)
	})
}

func (h *Host) GetState(ctx context.Context) (*GetStateOutput, error) {
	var output *GetStateOutput
	err := h.do(ctx, func() error {
		output = &GetStateOutput{
			SessionID:     h.id,
			Phase:         h.coordinator.Phase(),
			Round:         h.coordinator.Round(),
			TimeRemaining: h.coordinator.TimeRemaining(),
			NextAction:    h.coordinator.NextAction(),
			Standings:     h.coordinator.Standings(),
			Snapshot:      h.registry.Snapshot(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// ListRounds reads the history repository directly; it never touches
// session state
func (h *Host) ListRounds(ctx context.Context) (*ListRoundsOutput, error) {
	if h.history == nil {
		return &ListRoundsOutput{}, nil
	}
	out, err := h.history.ListRounds(ctx, &history.ListRoundsInput{SessionID: h.id})
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return &ListRoundsOutput{Rounds: out.Rounds}, nil
}
