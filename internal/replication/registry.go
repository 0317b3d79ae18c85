package replication

import (
	"slices"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// Config for the registry
type Config struct {
	// Sink receives outbound change batches. Nil discards them.
	Sink Sink

	// MaxPlayers defaults to models.MaxPlayers
	MaxPlayers int
}

// Registry owns the replicated state of one session: the session fields and
// exactly one PlayerState per connected player, in connection order.
// It is not safe for concurrent use.
type Registry struct {
	bus        *Bus
	session    *SessionState
	players    map[uint64]*PlayerState
	order      []uint64
	maxPlayers int
}

// NewRegistry creates an empty registry
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = &Config{}
	}
	maxPlayers := cfg.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = models.MaxPlayers
	}

	bus := NewBus(cfg.Sink)
	return &Registry{
		bus:        bus,
		session:    newSessionState(bus),
		players:    make(map[uint64]*PlayerState),
		maxPlayers: maxPlayers,
	}
}

// Connect creates the record for a new connection
func (r *Registry) Connect(id uint64) (*PlayerState, error) {
	if _, ok := r.players[id]; ok {
		return nil, ErrPlayerExists
	}
	if id == models.NoVote {
		return nil, ErrInvalidValue
	}
	if len(r.order) >= r.maxPlayers {
		return nil, ErrSessionFull
	}

	player := newPlayerState(r.bus, id)
	r.bus.Batch(func() {
		r.players[id] = player
		r.order = append(r.order, id)
		r.bus.emit(Change{PlayerID: id, Field: FieldConnected, Value: true})
		_ = r.session.ConnectedPlayerIDs.Set(Host, r.order)
	})
	return player, nil
}

// Disconnect destroys the record and drops every subscription on it
func (r *Registry) Disconnect(id uint64) error {
	player, ok := r.players[id]
	if !ok {
		return ErrPlayerNotFound
	}

	r.bus.Batch(func() {
		player.dispose()
		delete(r.players, id)
		r.order = slices.DeleteFunc(r.order, func(pid uint64) bool { return pid == id })
		r.bus.emit(Change{PlayerID: id, Field: FieldConnected, Value: false})
		_ = r.session.ConnectedPlayerIDs.Set(Host, r.order)
	})
	return nil
}

// ConnectedPlayers returns the connected ids in connection order
func (r *Registry) ConnectedPlayers() []uint64 {
	return slices.Clone(r.order)
}

// Player looks up a connected player
func (r *Registry) Player(id uint64) (*PlayerState, bool) {
	player, ok := r.players[id]
	return player, ok
}

// Session returns the session-level fields
func (r *Registry) Session() *SessionState {
	return r.session
}

// Batch publishes every change made by fn as one batch
func (r *Registry) Batch(fn func()) {
	r.bus.Batch(fn)
}

// Snapshot is the full replicated state, sent to late joiners
type Snapshot struct {
	Session map[Field]any            `json:"session"`
	Players map[uint64]map[Field]any `json:"players"`
	Order   []uint64                 `json:"order"`
}

// Snapshot captures the full replicated state
func (r *Registry) Snapshot() *Snapshot {
	players := make(map[uint64]map[Field]any, len(r.players))
	for id, player := range r.players {
		players[id] = player.Snapshot()
	}
	return &Snapshot{
		Session: r.session.Snapshot(),
		Players: players,
		Order:   slices.Clone(r.order),
	}
}
