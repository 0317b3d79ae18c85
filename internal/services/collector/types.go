package collector

import (
	"github.com/rs/zerolog"
)

// Policy decides what a repeated submission within one round does
type Policy int

const (
	// PolicyLastWins keeps only the latest submission of each player
	PolicyLastWins Policy = iota

	// PolicyAccumulate keeps every submission in arrival order
	PolicyAccumulate
)

// Config for a collector
type Config struct {
	// Policy for repeated submissions. Defaults to PolicyLastWins.
	Policy Policy

	Logger *zerolog.Logger
}

// QuestionSupplier picks the question text for one player
type QuestionSupplier func(playerID uint64) string
