package session

// SessionError is a custom error type for session host errors
type SessionError string

// Error implements the error interface
func (e SessionError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig        SessionError = "config cannot be nil"
	ErrNilClock         SessionError = "clock cannot be nil"
	ErrNilUUIDGenerator SessionError = "UUID generator cannot be nil"
	ErrNilInput         SessionError = "input cannot be nil"
	ErrNilSink          SessionError = "sink cannot be nil"
	ErrStopped          SessionError = "session host is not running"
	ErrAlreadyRunning   SessionError = "session host is already running"
	ErrGameInProgress   SessionError = "game already started"
	ErrNotLeader        SessionError = "only the lobby leader can start the game"
)
