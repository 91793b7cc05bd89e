// Package session holds per-conversation chat transcripts. Transcripts
// live in memory only and vanish with the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/girogi/internal/models"
)

// Session is one conversation's append-only transcript. Each session
// is mutated only by the interaction that owns it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
}

// Append adds a message to the transcript.
func (s *Session) Append(msg models.ChatMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

// History returns a copy of the transcript in order.
func (s *Session) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Manager tracks the live sessions of this process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a new session with a generated identifier.
func (m *Manager) Create() *Session {
	s := &Session{ID: uuid.NewString(), CreatedAt: time.Now()}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given identifier.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with the given identifier, creating
// a fresh one when id is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}
