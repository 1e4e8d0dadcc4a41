package report

import "sync"

// Store is the session repository keyed by chat id. Implementations must be
// safe for concurrent use; the machine serializes access per chat on top.
type Store interface {
	Get(chatID int64) (*Session, bool)
	// Create installs a fresh session for the chat, replacing any existing one.
	Create(chatID int64, submitter string) *Session
	Delete(chatID int64)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs the in-memory Store used in production; session
// state is ephemeral by design and does not survive restarts.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]*Session)}
}

func (m *memoryStore) Get(chatID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

func (m *memoryStore) Create(chatID int64, submitter string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := newSession(chatID, submitter)
	m.sessions[chatID] = s
	return s
}

func (m *memoryStore) Delete(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
