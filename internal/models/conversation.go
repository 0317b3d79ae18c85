package models

// Message is one line of a generated conversation
type Message struct {
	// Role is "agent" (the activity counterpart) or "bot" (the player's persona)
	Role string `json:"role"`

	// Content is the spoken text
	Content string `json:"content"`

	// Animation is a presentation hint, dropped first when the conversation is too large
	Animation string `json:"animation,omitempty"`
}

// Conversation is the structured dialogue generated for one player per activity
type Conversation struct {
	Messages []Message `json:"messages"`
}

// MessageCount returns the number of messages
func (c *Conversation) MessageCount() int {
	if c == nil {
		return 0
	}
	return len(c.Messages)
}

// Clone returns a deep copy
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	messages := make([]Message, len(c.Messages))
	copy(messages, c.Messages)
	return &Conversation{Messages: messages}
}
