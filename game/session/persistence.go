package session

import (
	"time"

	"github.com/ktgame/knights-tour/game/engine"
)

// SessionPersistence stores and restores session state across restarts.
type SessionPersistence interface {
	SaveSession(id string, data *PersistedSessionData) error
	LoadSession(id string) (*PersistedSessionData, error)
	DeleteSession(id string) error
	ListSessions() ([]string, error)
	Exists(id string) bool
}

// PersistedSessionData is the serialized form of a session.
type PersistedSessionData struct {
	ID             string             `json:"id"`
	Config         *engine.GameConfig `json:"config"`
	GameState      *engine.GameState  `json:"game_state"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
}
