package content

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
	"github.com/BraydenJenkins/chatbot-showdown/internal/random"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultBank []byte

// Service serves questions, example answers and activities
type Service struct {
	bank   *Bank
	random random.Source
}

// New creates a content service. src picks questions and activities.
func New(cfg *Config, src random.Source) (*Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if src == nil {
		src = random.New(nil)
	}

	bank := cfg.Bank
	if bank == nil {
		var err error
		if cfg.Path != "" {
			bank, err = LoadFile(cfg.Path)
		} else {
			bank, err = Parse(defaultBank)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := bank.Validate(); err != nil {
		return nil, err
	}

	return &Service{bank: bank, random: src}, nil
}

// LoadFile reads a YAML bank from disk
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content bank: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML bank
func Parse(data []byte) (*Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse content bank: %w", err)
	}
	return &bank, nil
}

// Validate checks that every bank the game draws from has entries
func (b *Bank) Validate() error {
	for _, kind := range []models.QuestionKind{models.QuestionKindRole, models.QuestionKindAdjective, models.QuestionKindFree} {
		if len(b.questions(kind)) == 0 {
			return fmt.Errorf("%s: %w", kind, ErrEmptyQuestionBank)
		}
		if len(b.examples(kind)) == 0 {
			return fmt.Errorf("%s: %w", kind, ErrEmptyAnswerBank)
		}
	}
	if len(b.Activities) == 0 {
		return ErrNoActivities
	}
	return nil
}

func (b *Bank) questions(kind models.QuestionKind) []string {
	switch kind {
	case models.QuestionKindRole:
		return b.RoleQuestions
	case models.QuestionKindAdjective:
		return b.AdjectiveQuestions
	case models.QuestionKindFree:
		return b.FreeQuestions
	}
	return nil
}

func (b *Bank) examples(kind models.QuestionKind) []string {
	switch kind {
	case models.QuestionKindRole:
		return b.ExampleRoleAnswers
	case models.QuestionKindAdjective:
		return b.ExampleAdjectiveAnswers
	case models.QuestionKindFree:
		return b.ExampleFreeAnswers
	}
	return nil
}

// RandomQuestion picks a question uniformly from the bank for kind
func (s *Service) RandomQuestion(kind models.QuestionKind) (string, error) {
	questions := s.bank.questions(kind)
	if len(questions) == 0 {
		return "", ErrUnknownKind
	}
	return random.Pick(s.random, questions), nil
}

// ExampleAnswers returns a copy of the example answers for kind
func (s *Service) ExampleAnswers(kind models.QuestionKind) []string {
	return slices.Clone(s.bank.examples(kind))
}

// DefaultOptions are appended to every player's role options
func (s *Service) DefaultOptions() []string {
	return slices.Clone(s.bank.DefaultOptions)
}

// RequiredFragments must appear in every fragment pool
func (s *Service) RequiredFragments() []string {
	return slices.Clone(s.bank.RequiredFragments)
}

// FallbackPersona replaces a persona that never arrived
func (s *Service) FallbackPersona() string {
	return s.bank.FallbackPersona
}

// Activities returns the activity bank
func (s *Service) Activities() []models.Activity {
	return slices.Clone(s.bank.Activities)
}

// Activity returns the activity at index
func (s *Service) Activity(index int) (models.Activity, bool) {
	if index < 0 || index >= len(s.bank.Activities) {
		return models.Activity{}, false
	}
	return s.bank.Activities[index], true
}

// RandomActivityIndex picks an activity uniformly
func (s *Service) RandomActivityIndex() int {
	return s.random.Intn(len(s.bank.Activities))
}

// RandomExampleAnswer picks one example answer for kind
func (s *Service) RandomExampleAnswer(kind models.QuestionKind) string {
	return random.Pick(s.random, s.bank.examples(kind))
}

// RandomActivity picks an activity and returns it with its index
func (s *Service) RandomActivity() (int, models.Activity) {
	index := s.RandomActivityIndex()
	return index, s.bank.Activities[index]
}
