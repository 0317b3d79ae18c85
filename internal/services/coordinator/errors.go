package coordinator

// CoordinatorError is a custom error type for coordinator errors
type CoordinatorError string

// Error implements the error interface
func (e CoordinatorError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig        CoordinatorError = "config cannot be nil"
	ErrNilSession       CoordinatorError = "session context cannot be nil"
	ErrNilContent       CoordinatorError = "content service cannot be nil"
	ErrNilMixer         CoordinatorError = "fragment mixer cannot be nil"
	ErrNilDialogue      CoordinatorError = "dialogue service cannot be nil"
	ErrNilRandom        CoordinatorError = "random source cannot be nil"
	ErrNilClock         CoordinatorError = "clock cannot be nil"
	ErrNilUUIDGenerator CoordinatorError = "UUID generator cannot be nil"
	ErrWrongPhase       CoordinatorError = "action is not allowed in the current phase"
	ErrNotYourTurn      CoordinatorError = "it is not this player's turn"
	ErrPlayerNotFound   CoordinatorError = "player not found"
	ErrNotEnoughPlayers CoordinatorError = "not enough players to start"
	ErrSelfVote         CoordinatorError = "players cannot vote for themselves"
	ErrUnknownTarget    CoordinatorError = "vote target is not a connected player"
	ErrAlreadyVoted     CoordinatorError = "player already voted this round"
	ErrEmptySubmission  CoordinatorError = "submission cannot be empty"
	ErrGameOver         CoordinatorError = "game is over"
)
