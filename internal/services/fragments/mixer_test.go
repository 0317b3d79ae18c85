package fragments

import (
	"fmt"
	"strings"
	"testing"

	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	testRequired = []string{"i", "you", "am", "a", "the", "."}
	testExamples = []string{
		"my dog eats homework every single day",
		"never trust a penguin wearing a suit",
		"coffee tastes better when someone else makes it",
		"the moon is just a big night light",
	}
	threePlayers = []Answer{
		{PlayerID: 1, Text: "I like turtles"},
		{PlayerID: 2, Text: "Pasta is great"},
		{PlayerID: 3, Text: "Cats are cool"},
	}
)

type MixerTestSuite struct {
	suite.Suite
	mixer *Mixer
}

func (s *MixerTestSuite) SetupTest() {
	s.mixer = newTestMixer(s.T(), 42, nil)
}

func TestMixerTestSuite(t *testing.T) {
	suite.Run(t, new(MixerTestSuite))
}

func newTestMixer(t *testing.T, seed int64, tweak func(*Config)) *Mixer {
	cfg := &Config{
		RequiredFragments: testRequired,
		ExampleAnswers:    testExamples,
		Random:            random.New(&random.Config{Seed: seed}),
	}
	if tweak != nil {
		tweak(cfg)
	}
	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

func (s *MixerTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{ExampleAnswers: testExamples})
	s.ErrorIs(err, ErrNilRandom)

	_, err = New(&Config{Random: random.New(nil)})
	s.ErrorIs(err, ErrNoExamples)

	_, err = New(&Config{Random: random.New(nil), ExampleAnswers: testExamples, GroupSize: -1})
	s.ErrorIs(err, ErrInvalidSetting)
}

func (s *MixerTestSuite) TestDeterministicUnderFixedSeed() {
	first := newTestMixer(s.T(), 7, nil).Mix(1, threePlayers)
	second := newTestMixer(s.T(), 7, nil).Mix(1, threePlayers)

	if diff := cmp.Diff(first, second); diff != "" {
		s.Failf("pools differ", "(-first +second):\n%s", diff)
	}
}

func (s *MixerTestSuite) TestThreePlayerRound() {
	result := s.mixer.Mix(1, threePlayers)

	allowed := map[string]bool{}
	for _, text := range append([]string{"Pasta is great", "Cats are cool"}, testExamples...) {
		for _, tok := range Tokenize(text) {
			allowed[strings.ToLower(tok)] = true
		}
	}
	for _, req := range testRequired {
		allowed[req] = true
	}

	seen := map[string]bool{}
	for _, tok := range strings.Fields(result.Fragments) {
		s.True(allowed[tok], "unexpected token %q", tok)
		s.Equal(strings.ToLower(tok), tok)
		s.False(seen[tok], "duplicate token %q", tok)
		seen[tok] = true
	}
	s.NotContains(seen, "turtles")
	s.NotContains(seen, "like")
	s.LessOrEqual(len(result.Fragments), DefaultMaxBytes)
}

func (s *MixerTestSuite) TestRequiredFragmentsAlwaysPresent() {
	for _, target := range []uint64{1, 2, 3} {
		tokens := strings.Fields(s.mixer.Mix(target, threePlayers).Fragments)
		for _, req := range testRequired {
			s.Contains(tokens, req, "player %d", target)
		}
	}
}

func (s *MixerTestSuite) TestMinimumSizeOrAttemptsExhausted() {
	for seed := int64(1); seed <= 20; seed++ {
		result := newTestMixer(s.T(), seed, nil).Mix(1, threePlayers)
		s.True(len(result.Tokens) >= DefaultMinimumFragments || result.Attempts == DefaultMaxAttempts,
			"seed %d: %d tokens after %d attempts", seed, len(result.Tokens), result.Attempts)
	}
}

func (s *MixerTestSuite) TestMinimumReachedWithoutExtraDraws() {
	m := newTestMixer(s.T(), 3, func(cfg *Config) { cfg.MinimumFragments = 1 })
	result := m.Mix(1, threePlayers)
	s.Equal(0, result.Attempts)
}

func (s *MixerTestSuite) TestNoPeersUsesExampleBank() {
	result := s.mixer.Mix(1, []Answer{{PlayerID: 1, Text: "only my own words here"}})

	allowed := map[string]bool{}
	for _, text := range testExamples {
		for _, tok := range Tokenize(text) {
			allowed[strings.ToLower(tok)] = true
		}
	}
	for _, req := range testRequired {
		allowed[req] = true
	}
	for _, tok := range result.Tokens {
		s.True(allowed[tok], "unexpected token %q", tok)
	}
	s.Positive(result.Attempts)
}

func (s *MixerTestSuite) TestLargePoolIsTruncatedKeepingRequired() {
	answers := []Answer{{PlayerID: 1, Text: "mine"}}
	for id := 2; id <= 8; id++ {
		words := make([]string, 0, 30)
		for n := 0; n < 30; n++ {
			words = append(words, fmt.Sprintf("player%dword%d", id, n))
		}
		answers = append(answers, Answer{PlayerID: uint64(id), Text: strings.Join(words, " ")})
	}

	result := s.mixer.Mix(1, answers)
	s.True(result.Truncated)
	s.LessOrEqual(len(result.Fragments), DefaultMaxBytes)
	s.Equal(strings.TrimRight(result.Fragments, " "), result.Fragments)
	tokens := strings.Fields(result.Fragments)
	for _, req := range testRequired {
		s.Contains(tokens, req)
	}
}

func (s *MixerTestSuite) TestMixAllBuildsEveryPool() {
	pools := s.mixer.MixAll([]uint64{1, 2, 3}, threePlayers)
	s.Len(pools, 3)
	for _, id := range []uint64{1, 2, 3} {
		s.NotEmpty(pools[id].Fragments)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "plain", text: "I like turtles", want: []string{"I", "like", "turtles"}},
		{name: "punctuation", text: "Hi, there!", want: []string{"Hi", ",", "there", "!"}},
		{name: "whitespace runs", text: "  a \t b\n\nc ", want: []string{"a", "b", "c"}},
		{name: "apostrophe", text: "don't", want: []string{"don", "'", "t"}},
		{name: "unicode letters", text: "café 42", want: []string{"café", "42"}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCutRunesKeepsValidUTF8(t *testing.T) {
	s := "ééé"
	assert.Equal(t, "é", cutRunes(s, 3))
	assert.Equal(t, "éé", cutRunes(s, 4))
	assert.Equal(t, s, cutRunes(s, 6))
	assert.Equal(t, s, cutRunes(s, 10))
	assert.Equal(t, "", cutRunes("", 4))
}
