package fragments

import (
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/rs/zerolog"
)

// Defaults applied by New
const (
	DefaultGroupSize        = 3
	DefaultMinimumFragments = 30
	DefaultMaxAttempts      = 5
	DefaultMaxBytes         = 500
)

// Config for the mixer
type Config struct {
	// GroupSize is the block size tokens are shuffled in
	GroupSize int

	// MinimumFragments is the pool size the example bank tops up to
	MinimumFragments int

	// MaxAttempts bounds the example bank top-up draws
	MaxAttempts int

	// MaxBytes is the byte budget of the joined pool
	MaxBytes int

	// RequiredFragments appear in every pool
	RequiredFragments []string

	// ExampleAnswers is the filler bank. Required.
	ExampleAnswers []string

	// Random is required
	Random random.Source

	Logger *zerolog.Logger
}

// Answer is one collected response and its author
type Answer struct {
	PlayerID uint64
	Text     string
}

// Result is the pool built for one player
type Result struct {
	// Fragments is the space joined pool written to the fragments field
	Fragments string

	// Tokens is the pool before joining and truncation
	Tokens []string

	// Attempts is the number of example bank draws used
	Attempts int

	// Truncated is set when tokens were dropped to fit MaxBytes
	Truncated bool
}
