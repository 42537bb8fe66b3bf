package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session is one conversation thread. Archived sessions keep their turns for
// export but no longer accept new ones.
type Session struct {
	ID         string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Location   string
	Language   string
	ArchivedAt time.Time // zero when the session is active
}

// Turn is a single message in a session, from the user or the assistant.
type Turn struct {
	ID        int64
	SessionID string
	Role      string // "user" or "assistant"
	Content   string
	Source    string // provider ID, "cache", or "rule-based" for assistant turns
	CreatedAt time.Time
}
