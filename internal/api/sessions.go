package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stxaviers/campusbot/internal/chat"
)

const sessionTTL = 30 * time.Minute

type sessionEntry struct {
	orch     *chat.Orchestrator
	sink     *swappableSink
	lastSeen time.Time
}

// SessionManager keeps one orchestrator (and so one conversation window)
// per widget session. Idle sessions are dropped after sessionTTL.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	build    func(chat.Sink) *chat.Orchestrator
	now      func() time.Time
}

// NewSessionManager creates a manager that builds orchestrators with the
// given factory.
func NewSessionManager(build func(chat.Sink) *chat.Orchestrator) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*sessionEntry),
		build:    build,
		now:      time.Now,
	}
}

// acquire returns the session's orchestrator with its output attached to
// sink, creating the session if needed. The returned id identifies the
// session (freshly generated when the caller sent none) and release must
// be called when the request finishes.
func (m *SessionManager) acquire(id string, sink chat.Sink) (string, *chat.Orchestrator, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeLocked()

	if id == "" {
		id = uuid.New().String()
	}
	entry, ok := m.sessions[id]
	if !ok {
		sw := &swappableSink{}
		entry = &sessionEntry{orch: m.build(sw), sink: sw}
		m.sessions[id] = entry
	}
	entry.lastSeen = m.now()
	entry.sink.swap(sink)

	release := func() { entry.sink.swap(nil) }
	return id, entry.orch, release
}

func (m *SessionManager) purgeLocked() {
	cutoff := m.now().Add(-sessionTTL)
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
