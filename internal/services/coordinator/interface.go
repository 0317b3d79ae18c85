package coordinator

import "github.com/BraydenJenkins/chatbot-showdown/internal/replication"

// SessionContext is the coordinator's view of the connected players. The
// replication registry implements it.
type SessionContext interface {
	// ConnectedPlayers returns the connected ids in connection order
	ConnectedPlayers() []uint64

	// Player looks up a connected player's replicated record
	Player(id uint64) (*replication.PlayerState, bool)

	// Session returns the session-level replicated fields
	Session() *replication.SessionState

	// Batch publishes every change made by fn as one batch
	Batch(fn func())
}
