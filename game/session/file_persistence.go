package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FilePersistence stores each session as a JSON file in a directory.
type FilePersistence struct {
	dir string
	mu  sync.Mutex
}

// NewFilePersistence creates the storage directory if needed.
func NewFilePersistence(dir string) (*FilePersistence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FilePersistence{dir: dir}, nil
}

// SaveSession writes the session to <dir>/<id>.json atomically.
func (p *FilePersistence) SaveSession(id string, data *PersistedSessionData) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", id, err)
	}

	path := p.sessionPath(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// LoadSession reads a persisted session by ID.
func (p *FilePersistence) LoadSession(id string) (*PersistedSessionData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	payload, err := os.ReadFile(p.sessionPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &data, nil
}

// DeleteSession removes the session file. Missing files are not an error.
func (p *FilePersistence) DeleteSession(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := os.Remove(p.sessionPath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// ListSessions returns the IDs of all persisted sessions.
func (p *FilePersistence) ListSessions() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// Exists reports whether a session file is present on disk.
func (p *FilePersistence) Exists(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := os.Stat(p.sessionPath(id))
	return err == nil
}

func (p *FilePersistence) sessionPath(id string) string {
	// Session IDs are lowercased hex segments, but guard against path
	// separators anyway.
	safe := strings.ReplaceAll(strings.ToLower(id), string(os.PathSeparator), "_")
	return filepath.Join(p.dir, safe+".json")
}
