package replication

// ReplicationError is a custom error type for replication errors
type ReplicationError string

// Error implements the error interface
func (e ReplicationError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrWriteDenied    ReplicationError = "writer is not allowed to change this field"
	ErrValueTooLarge  ReplicationError = "value exceeds the field's byte budget"
	ErrInvalidValue   ReplicationError = "value rejected by field validator"
	ErrDisposed       ReplicationError = "field belongs to a disconnected player"
	ErrPlayerExists   ReplicationError = "player already connected"
	ErrPlayerNotFound ReplicationError = "player not found"
	ErrSessionFull    ReplicationError = "session is at maximum capacity"
)
