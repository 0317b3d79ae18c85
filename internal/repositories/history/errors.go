package history

// HistoryError is a custom error type for history repository errors
type HistoryError string

// Error implements the error interface
func (e HistoryError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoundNotFound  HistoryError = "round not found"
	ErrNilConfig      HistoryError = "config cannot be nil"
	ErrNilRedisClient HistoryError = "redis client cannot be nil"
	ErrInvalidInput   HistoryError = "input is missing required fields"
)
