package ws

// TransportError is a custom error type for websocket transport errors
type TransportError string

// Error implements the error interface
func (e TransportError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig     TransportError = "config cannot be nil"
	ErrNilSession    TransportError = "session service cannot be nil"
	ErrUnknownAction TransportError = "unknown action"
	ErrRateLimited   TransportError = "too many actions"
	ErrBadAction     TransportError = "malformed action"
)
