package dialogue

import (
	"context"
	"encoding/json"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// FallbackConversation is returned once every attempt has failed
func FallbackConversation() *models.Conversation {
	return &models.Conversation{Messages: []models.Message{
		{Role: "agent", Content: "Hi there! Welcome in. How can I help you today?", Animation: "smile"},
		{Role: "bot", Content: "Hello! I was hoping to have a charming conversation with you.", Animation: "wink"},
		{Role: "agent", Content: "Oh no! It looks like our conversation generator is on a coffee break. Technical difficulties, you know?", Animation: "surprised"},
		{Role: "bot", Content: "Oh dear, even computers need a caffeine fix sometimes! How about I come back later?", Animation: "laugh"},
		{Role: "agent", Content: "That sounds like a plan! In the meantime, enjoy a virtual coffee on us. Cheers!", Animation: "cheerful"},
	}}
}

// StaticGenerator always returns the same example conversation. It stands in
// for a real backend during offline play.
type StaticGenerator struct{}

// Generate returns the example conversation as JSON
func (StaticGenerator) Generate(_ context.Context, _ string) (string, error) {
	data, err := json.Marshal(exampleConversation)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var exampleConversation = models.Conversation{Messages: []models.Message{
	{Role: "agent", Content: "Hi!", Animation: "neutral"},
	{Role: "bot", Content: "Hello there!", Animation: "wave"},
	{Role: "agent", Content: "How can I assist you today?", Animation: "question"},
	{Role: "bot", Content: "I need help with my account.", Animation: "thinking"},
	{Role: "agent", Content: "Sure, I can help with that. What seems to be the issue?", Animation: "neutral"},
	{Role: "bot", Content: "I forgot my password.", Animation: "sad"},
}}
