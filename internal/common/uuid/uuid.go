package uuid

import "github.com/google/uuid"

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/BraydenJenkins/chatbot-showdown/internal/common/uuid UUID

// UUID generates identifiers for sessions and round history records
type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using random (v4) UUIDs
type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new random UUID string
func (d *DefaultUUID) NewUUID() string {
	return uuid.NewString()
}

// Short returns the first block of an id, used to tag log lines
func Short(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		if len(id) > 8 {
			return id[:8]
		}
		return id
	}
	return parsed.String()[:8]
}
