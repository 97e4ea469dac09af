package session

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ktgame/knights-tour/game/engine"
	"github.com/ktgame/knights-tour/game/service"
)

var (
	// ErrSessionNotFound is returned when a session ID does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned when creating a session with a
	// taken ID.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Manager is a thread-safe in-memory session store with optional file
// persistence.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

// NewManager creates a session manager without persistence.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a session manager that saves sessions
// through the given persistence backend.
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// Create starts a new session. An empty id requests a generated one. Session
// IDs are case-insensitive.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = newSessionID()
	}
	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyExists, id)
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             key,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = session
	m.persist(session)
	return session, nil
}

// Get returns the session for the given ID.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// GetOrCreate returns an existing session or creates one with the given
// config.
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, err := m.Get(id); err == nil {
		return session, nil
	}
	session, err := m.Create(id, config)
	if err != nil && errors.Is(err, ErrSessionAlreadyExists) {
		// Lost the race to another creator.
		return m.Get(id)
	}
	return session, err
}

// List returns all sessions.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Delete removes a session and its persisted state.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, key)
	if m.persistence != nil {
		if err := m.persistence.DeleteSession(key); err != nil {
			log.Printf("Warning: failed to delete persisted session %s: %v", key, err)
		}
	}
	return nil
}

// DeleteFromMemory removes a session from memory without touching its
// persisted state. Used when the file was already removed externally.
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed refreshes the session's access time.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// Save writes the session's current state through the persistence backend.
func (m *Manager) Save(id string) error {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.persist(session)
	return nil
}

// SaveAllSessions persists every active session.
func (m *Manager) SaveAllSessions() {
	m.mu.RLock()
	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		m.persist(session)
	}
}

// LoadPersistedSessions restores sessions from the persistence backend.
// Sessions that fail to restore are skipped with a warning.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListSessions()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	restored := 0
	for _, id := range ids {
		data, err := m.persistence.LoadSession(id)
		if err != nil {
			log.Printf("Warning: failed to load session %s: %v", id, err)
			continue
		}
		session, err := restoreSession(data)
		if err != nil {
			log.Printf("Warning: failed to restore session %s: %v", id, err)
			continue
		}
		m.sessions[session.ID] = session
		restored++
	}
	if restored > 0 {
		log.Printf("Restored %d persisted session(s)", restored)
	}
	return nil
}

// CleanupExpiredSessions removes sessions idle longer than maxAge and returns
// how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			if m.persistence != nil {
				if err := m.persistence.DeleteSession(key); err != nil {
					log.Printf("Warning: failed to delete persisted session %s: %v", key, err)
				}
			}
			removed++
		}
	}
	return removed
}

func (m *Manager) persist(session *service.Session) {
	if m.persistence == nil {
		return
	}
	data := &PersistedSessionData{
		ID:             session.ID,
		Config:         session.Config,
		GameState:      session.Engine.GetState(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}
	if err := m.persistence.SaveSession(session.ID, data); err != nil {
		log.Printf("Warning: failed to persist session %s: %v", session.ID, err)
	}
}

func restoreSession(data *PersistedSessionData) (*service.Session, error) {
	eng, err := engine.NewEngine(data.Config)
	if err != nil {
		return nil, err
	}
	if data.GameState != nil {
		if err := eng.SetState(data.GameState); err != nil {
			return nil, err
		}
	}
	return &service.Session{
		ID:             strings.ToLower(data.ID),
		Engine:         eng,
		Config:         data.Config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// newSessionID returns a short random identifier.
func newSessionID() string {
	return strings.Split(uuid.NewString(), "-")[0]
}
