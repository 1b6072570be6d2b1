package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
	"github.com/wricardo/mcp-training/navalbattle/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDAttempts bounds the search for an unused generated ID
const maxIDAttempts = 16

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create creates a new session with the given ID and configuration.
// An empty ID is replaced by a generated 4-character one.
func (m *Manager) Create(id string, config *engine.MatchConfig) (*service.Session, error) {
	if strings.TrimSpace(id) != id {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		var err error
		if id, err = m.generateSessionID(); err != nil {
			return nil, err
		}
	}

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	// Create the match wired to a recording presenter
	events := engine.NewEventRecorder()
	match, err := engine.NewMatch(config, events)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	session := &service.Session{
		ID:             id,
		Match:          match,
		Events:         events,
		Config:         match.Config(),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[strings.ToLower(id)] = session
	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, config *engine.MatchConfig) (*service.Session, error) {
	// Try to get existing session first
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	// Create new session if not found
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration.
// Only the session entry is dropped. The match is left alone since a service call
// may still be playing a turn on it under the service lock.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Info("expired sessions removed", "count", removed, "max_age", maxAge)
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random unused 4-character session ID.
// Callers must hold the write lock.
func (m *Manager) generateSessionID() (string, error) {
	bytes := make([]byte, 2)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		// 2 random bytes give 4 hex characters
		if _, err := rand.Read(bytes); err != nil {
			return "", fmt.Errorf("generate session ID: %w", err)
		}
		id := hex.EncodeToString(bytes)
		if !m.sessionExists(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no free ID after %d attempts", ErrSessionAlreadyExists, maxIDAttempts)
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}
