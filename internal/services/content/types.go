package content

import "github.com/BraydenJenkins/chatbot-showdown/internal/models"

// Bank is the static game content. It can be loaded from YAML.
type Bank struct {
	RoleQuestions      []string `yaml:"role_questions"`
	AdjectiveQuestions []string `yaml:"adjective_questions"`
	FreeQuestions      []string `yaml:"free_questions"`

	ExampleRoleAnswers      []string `yaml:"example_role_answers"`
	ExampleAdjectiveAnswers []string `yaml:"example_adjective_answers"`
	ExampleFreeAnswers      []string `yaml:"example_free_answers"`

	// DefaultOptions are always appended to every player's role options
	DefaultOptions []string `yaml:"default_options"`

	// RequiredFragments must appear in every fragment pool
	RequiredFragments []string `yaml:"required_fragments"`

	// FallbackPersona stands in for a persona that never arrived
	FallbackPersona string `yaml:"fallback_persona"`

	Activities []models.Activity `yaml:"activities"`
}

// Config for the content service
type Config struct {
	// Bank to serve. Nil loads the embedded default.
	Bank *Bank

	// Path to a YAML bank overriding the embedded default
	Path string
}
