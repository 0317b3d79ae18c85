package content

// ContentError is a custom error type for content errors
type ContentError string

// Error implements the error interface
func (e ContentError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrEmptyQuestionBank ContentError = "question bank is empty"
	ErrEmptyAnswerBank   ContentError = "example answer bank is empty"
	ErrNoActivities      ContentError = "activity bank is empty"
	ErrUnknownKind       ContentError = "unknown question kind"
)
