package fragments

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/BraydenJenkins/chatbot-showdown/internal/common/logging"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/rs/zerolog"
)

var punctuation = regexp.MustCompile(`([^\p{L}\p{N}\s])`)

// Mixer turns other players' answers into word banks
type Mixer struct {
	groupSize   int
	minimum     int
	maxAttempts int
	maxBytes    int
	required    []string
	examples    []string
	random      random.Source
	log         zerolog.Logger
}

// New creates a mixer, applying defaults to zero settings
func New(cfg *Config) (*Mixer, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Random == nil {
		return nil, ErrNilRandom
	}
	if len(cfg.ExampleAnswers) == 0 {
		return nil, ErrNoExamples
	}

	m := &Mixer{
		groupSize:   orDefault(cfg.GroupSize, DefaultGroupSize),
		minimum:     orDefault(cfg.MinimumFragments, DefaultMinimumFragments),
		maxAttempts: orDefault(cfg.MaxAttempts, DefaultMaxAttempts),
		maxBytes:    orDefault(cfg.MaxBytes, DefaultMaxBytes),
		examples:    slices.Clone(cfg.ExampleAnswers),
		random:      cfg.Random,
	}
	if m.groupSize < 0 || m.minimum < 0 || m.maxAttempts < 0 || m.maxBytes < 0 {
		return nil, ErrInvalidSetting
	}
	for _, f := range cfg.RequiredFragments {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			m.required = append(m.required, f)
		}
	}

	log := logging.OrNop(cfg.Logger)
	m.log = log.With().Str("component", "fragments").Logger()
	return m, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Tokenize splits text into words, with every punctuation character as its
// own token
func Tokenize(text string) []string {
	return strings.Fields(punctuation.ReplaceAllString(text, " $1 "))
}

// Mix builds the pool for target from every answer not authored by target
func (m *Mixer) Mix(target uint64, answers []Answer) *Result {
	var pool []string
	for _, answer := range answers {
		if answer.PlayerID == target {
			continue
		}
		pool = append(pool, m.shuffleHalf(Tokenize(answer.Text))...)
	}

	for _, req := range m.required {
		if !slices.ContainsFunc(pool, func(t string) bool { return strings.EqualFold(t, req) }) {
			at := m.random.Intn(len(pool) + 1)
			pool = slices.Insert(pool, at, req)
		}
	}

	tokens := dedupLower(pool)
	attempts := 0
	for len(tokens) < m.minimum && attempts < m.maxAttempts {
		attempts++
		example := random.Pick(m.random, m.examples)
		tokens = dedupLower(append(tokens, m.shuffleHalf(Tokenize(example))...))
	}

	fragments, truncated := m.fit(tokens)
	if truncated {
		m.log.Warn().Uint64("player_id", target).Int("tokens", len(tokens)).Msg("fragment pool truncated")
	}

	return &Result{
		Fragments: fragments,
		Tokens:    tokens,
		Attempts:  attempts,
		Truncated: truncated,
	}
}

// MixAll builds one pool per player
func (m *Mixer) MixAll(players []uint64, answers []Answer) map[uint64]*Result {
	out := make(map[uint64]*Result, len(players))
	for _, id := range players {
		out[id] = m.Mix(id, answers)
	}
	return out
}

// shuffleHalf permutes the order of groupSize blocks and keeps the first half
// of the resulting tokens
func (m *Mixer) shuffleHalf(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	blocks := slices.Collect(slices.Chunk(tokens, m.groupSize))
	random.Shuffle(m.random, blocks)

	shuffled := make([]string, 0, len(tokens))
	for _, block := range blocks {
		shuffled = append(shuffled, block...)
	}
	return shuffled[:len(shuffled)/2]
}

// fit joins tokens within maxBytes. When the pool is too large, trailing
// tokens that are not required are dropped until it fits.
func (m *Mixer) fit(tokens []string) (string, bool) {
	joined := strings.Join(tokens, " ")
	if len(joined) <= m.maxBytes {
		return strings.TrimRight(joined, " "), false
	}

	kept := slices.Clone(tokens)
	size := len(joined)
	for i := len(kept) - 1; i >= 0 && size > m.maxBytes; i-- {
		if slices.Contains(m.required, kept[i]) {
			continue
		}
		size -= len(kept[i]) + 1
		kept = slices.Delete(kept, i, i+1)
	}
	joined = strings.Join(kept, " ")
	if len(joined) > m.maxBytes {
		joined = cutRunes(joined, m.maxBytes)
	}
	return strings.TrimRight(joined, " "), true
}

// cutRunes cuts s to at most n bytes without splitting a UTF-8 sequence
func cutRunes(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && n < len(s) && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func dedupLower(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(t)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
