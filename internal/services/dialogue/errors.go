package dialogue

// DialogueError is a custom error type for dialogue errors
type DialogueError string

// Error implements the error interface
func (e DialogueError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig         DialogueError = "config cannot be nil"
	ErrNilGenerator      DialogueError = "generator cannot be nil"
	ErrNilInput          DialogueError = "input cannot be nil"
	ErrEmptyConversation DialogueError = "conversation has no messages"
	ErrMalformedOutput   DialogueError = "generator output is not a conversation"
	ErrTooSmall          DialogueError = "byte budget cannot hold any message"
)
