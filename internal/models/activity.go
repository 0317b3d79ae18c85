package models

// Activity is a scripted scenario the bots take part in
type Activity struct {
	// Name is a short label
	Name string `yaml:"name" json:"name"`

	// Description tells the bot what it is trying to achieve
	Description string `yaml:"description" json:"description"`

	// Goal describes the conversation to generate
	Goal string `yaml:"goal" json:"goal"`

	// RoleName is the personality of the counterpart the bot talks to
	RoleName string `yaml:"role_name" json:"roleName"`

	// ConversationStarter is how the counterpart opens the conversation
	ConversationStarter string `yaml:"conversation_starter" json:"conversationStarter"`

	// AvatarIndex is the counterpart's avatar
	AvatarIndex int `yaml:"avatar_index" json:"avatarIndex"`
}
