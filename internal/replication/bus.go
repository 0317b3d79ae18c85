package replication

// Field names a replicated value
type Field string

// Player fields
const (
	FieldConnected                Field = "connected"
	FieldDisplayName              Field = "displayName"
	FieldAvatarIndex              Field = "avatarIndex"
	FieldLobbyState               Field = "lobbyState"
	FieldQuestion                 Field = "question"
	FieldAnswer                   Field = "answer"
	FieldFragments                Field = "fragments"
	FieldRoleQuestion             Field = "roleQuestion"
	FieldRoleAnswer               Field = "roleAnswer"
	FieldAdjectiveQuestion        Field = "adjectiveQuestion"
	FieldAdjectiveAnswer          Field = "adjectiveAnswer"
	FieldFreeQuestion             Field = "freeQuestion"
	FieldFreeAnswer               Field = "freeAnswer"
	FieldRoleOptions              Field = "roleOptions"
	FieldAdjectiveOptions         Field = "adjectiveOptions"
	FieldFreeOptions              Field = "freeOptions"
	FieldBotPersona               Field = "botPersona"
	FieldActivityIndex            Field = "activityIndex"
	FieldIsMyTurn                 Field = "isMyTurn"
	FieldCurrentConversation      Field = "currentConversation"
	FieldCurrentBotPrompt         Field = "currentBotPrompt"
	FieldCurrentConversationIndex Field = "currentConversationIndex"
	FieldVotedPlayer              Field = "votedPlayer"
	FieldVotes                    Field = "votes"
	FieldScore                    Field = "score"
)

// Session fields
const (
	FieldPhase              Field = "phase"
	FieldRound              Field = "round"
	FieldTimerStart         Field = "timerStart"
	FieldVotingState        Field = "votingState"
	FieldPlayerTurnOrder    Field = "playerTurnOrder"
	FieldConnectedPlayerIDs Field = "connectedPlayerIds"
	FieldGameOver           Field = "gameOver"
)

// Change is one outbound field-change notification
type Change struct {
	// Session is set for session-level fields; PlayerID is then meaningless
	Session bool `json:"session,omitempty"`

	// PlayerID is the owner of a player field
	PlayerID uint64 `json:"playerId"`

	// Field is the replicated field name
	Field Field `json:"field"`

	// Value is the new value, always the full value
	Value any `json:"value"`
}

// Sink receives outbound changes. Each call is one atomic batch.
type Sink interface {
	Publish(changes []Change)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(changes []Change)

// Publish calls f
func (f SinkFunc) Publish(changes []Change) {
	f(changes)
}

// Token identifies one subscription. Tokens are never reused within a Bus.
type Token uint64

// Bus allocates subscription tokens and groups outbound changes into batches.
// It is not safe for concurrent use; the session goroutine owns it.
type Bus struct {
	sink      Sink
	depth     int
	pending   []Change
	nextToken Token
}

// NewBus creates a bus publishing to sink. A nil sink discards changes.
func NewBus(sink Sink) *Bus {
	return &Bus{sink: sink}
}

// Batch runs fn and publishes every change it produced as a single batch.
// Batches nest; only the outermost one flushes.
func (b *Bus) Batch(fn func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 {
			b.flush()
		}
	}()
	fn()
}

func (b *Bus) emit(change Change) {
	b.pending = append(b.pending, change)
	if b.depth == 0 {
		b.flush()
	}
}

func (b *Bus) flush() {
	if len(b.pending) == 0 {
		return
	}
	changes := b.pending
	b.pending = nil
	if b.sink != nil {
		b.sink.Publish(changes)
	}
}

func (b *Bus) token() Token {
	b.nextToken++
	return b.nextToken
}
