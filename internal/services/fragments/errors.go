package fragments

// FragmentError is a custom error type for fragment errors
type FragmentError string

// Error implements the error interface
func (e FragmentError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig      FragmentError = "config cannot be nil"
	ErrNilRandom      FragmentError = "random source cannot be nil"
	ErrNoExamples     FragmentError = "example answer bank cannot be empty"
	ErrInvalidSetting FragmentError = "mixer settings must be positive"
)
