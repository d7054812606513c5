package session

import (
	"time"

	"qbank/internal/domain"
)

// Snapshot is a read-only copy of a session for rendering layers.
type Snapshot struct {
	ID              string
	State           State
	DocumentLoading bool
	SourceName      string
	HasDocument     bool
	Settings        domain.GenerationSettings
	Messages        []domain.Message
	Questions       []domain.Question
	Draft           string
	HasCredential   bool
	LastActivity    time.Time
}
