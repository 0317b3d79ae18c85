package collector

// CollectorError is a custom error type for collector errors
type CollectorError string

// Error implements the error interface
func (e CollectorError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoundOpen       CollectorError = "a round is already open"
	ErrNilSupplier     CollectorError = "question supplier cannot be nil"
	ErrUnknownQuestion CollectorError = "unknown question kind"
)
