// Package session tracks conversation state across turns. The manager keeps
// per-session locks so concurrent requests for the same session serialize
// while distinct sessions proceed in parallel.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/storage"
)

// Turn mirrors storage.Turn for callers that should not depend on the
// storage package directly.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// Export is a full session transcript.
type Export struct {
	SessionID string `json:"session_id"`
	Location  string `json:"location,omitempty"`
	Language  string `json:"language,omitempty"`
	Turns     []Turn `json:"turns"`
}

// Manager mediates all session reads and writes.
type Manager struct {
	store *storage.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a manager backed by the given store.
func NewManager(store *storage.Store) *Manager {
	return &Manager{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	return l
}

// Ensure returns the session with the given ID, creating it first if needed.
// An empty ID creates a fresh session with a generated ID.
func (m *Manager) Ensure(sessionID string) (storage.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	l := m.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	sess, err := m.store.GetSession(sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		sess = storage.Session{ID: sessionID, Language: "en"}
		if err := m.store.CreateSession(sess); err != nil {
			return storage.Session{}, fmt.Errorf("creating session: %w", err)
		}
		return sess, nil
	}
	if err != nil {
		return storage.Session{}, err
	}
	return sess, nil
}

// Append records a user/assistant exchange and updates the session's
// location and language when the turn revealed them.
func (m *Manager) Append(sessionID string, userMsg, assistantMsg, source, location, language string) error {
	l := m.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	if _, err := m.store.AppendTurn(storage.Turn{SessionID: sessionID, Role: "user", Content: userMsg}); err != nil {
		return fmt.Errorf("appending user turn: %w", err)
	}
	if _, err := m.store.AppendTurn(storage.Turn{SessionID: sessionID, Role: "assistant", Content: assistantMsg, Source: source}); err != nil {
		return fmt.Errorf("appending assistant turn: %w", err)
	}
	return m.store.TouchSession(sessionID, location, language)
}

// Recent returns the newest limit turns in chronological order.
func (m *Manager) Recent(sessionID string, limit int) ([]Turn, error) {
	stored, err := m.store.RecentTurns(sessionID, limit)
	if err != nil {
		return nil, err
	}
	return convert(stored), nil
}

// ExportFull returns the complete transcript of a session.
func (m *Manager) ExportFull(sessionID string) (Export, error) {
	sess, err := m.store.GetSession(sessionID)
	if err != nil {
		return Export{}, err
	}
	stored, err := m.store.SessionTurns(sessionID)
	if err != nil {
		return Export{}, err
	}
	return Export{
		SessionID: sess.ID,
		Location:  sess.Location,
		Language:  sess.Language,
		Turns:     convert(stored),
	}, nil
}

// ArchiveAndReset retires the session and returns a fresh one carrying over
// its location and language. The old transcript stays exportable.
func (m *Manager) ArchiveAndReset(sessionID string) (storage.Session, error) {
	l := m.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	old, err := m.store.GetSession(sessionID)
	if err != nil {
		return storage.Session{}, err
	}
	if err := m.store.ArchiveSession(sessionID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storage.Session{}, fmt.Errorf("archiving session: %w", err)
	}

	fresh := storage.Session{
		ID:       uuid.NewString(),
		Location: old.Location,
		Language: old.Language,
	}
	if err := m.store.CreateSession(fresh); err != nil {
		return storage.Session{}, fmt.Errorf("creating replacement session: %w", err)
	}
	return fresh, nil
}

func convert(stored []storage.Turn) []Turn {
	turns := make([]Turn, 0, len(stored))
	for _, t := range stored {
		turns = append(turns, Turn{Role: t.Role, Content: t.Content, Source: t.Source})
	}
	return turns
}
