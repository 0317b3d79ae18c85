package dialogue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BraydenJenkins/chatbot-showdown/internal/models"
)

// ParseConversation decodes generator output. A surrounding markdown code
// fence is tolerated.
func ParseConversation(raw string) (*models.Conversation, error) {
	text := stripFence(raw)
	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}

	var conv models.Conversation
	if err := json.Unmarshal([]byte(text), &conv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(conv.Messages) == 0 {
		return nil, ErrEmptyConversation
	}
	for i, msg := range conv.Messages {
		if strings.TrimSpace(msg.Content) == "" {
			return nil, fmt.Errorf("%w: message %d is empty", ErrMalformedOutput, i)
		}
	}
	return &conv, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// EncodeForReplication serializes conv within maxBytes. Animations are
// stripped first, then trailing messages are dropped until it fits. The
// returned conversation is the one actually encoded; conv is not modified.
func EncodeForReplication(conv *models.Conversation, maxBytes int) (string, *models.Conversation, error) {
	if conv == nil || len(conv.Messages) == 0 {
		return "", nil, ErrEmptyConversation
	}

	fitted := conv.Clone()
	data, err := json.Marshal(fitted)
	if err != nil {
		return "", nil, err
	}
	if len(data) <= maxBytes {
		return string(data), fitted, nil
	}

	for i := range fitted.Messages {
		fitted.Messages[i].Animation = ""
	}
	for len(fitted.Messages) > 0 {
		data, err = json.Marshal(fitted)
		if err != nil {
			return "", nil, err
		}
		if len(data) <= maxBytes {
			return string(data), fitted, nil
		}
		fitted.Messages = fitted.Messages[:len(fitted.Messages)-1]
	}
	return "", nil, ErrTooSmall
}

// DecodeReplicated parses a conversation written by EncodeForReplication
func DecodeReplicated(s string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := json.Unmarshal([]byte(s), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}
