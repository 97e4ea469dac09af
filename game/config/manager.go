package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ktgame/knights-tour/game/engine"
	"github.com/ktgame/knights-tour/game/service"
)

const defaultConfigName = "classic_5"

// Manager loads board definitions from a directory of JSON files and caches
// them.
type Manager struct {
	dir   string
	cache map[string]*engine.GameConfig
	mu    sync.RWMutex
}

// NewManager creates a config manager rooted at dir.
func NewManager(dir string) *Manager {
	return &Manager{
		dir:   dir,
		cache: make(map[string]*engine.GameConfig),
	}
}

// LoadConfig returns the named board definition, reading it from disk on
// first access.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if config, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another loader may have filled the cache while we waited.
	if config, ok := m.cache[name]; ok {
		return config, nil
	}

	config, err := m.readConfigFile(name)
	if err != nil {
		return nil, err
	}
	m.cache[name] = config
	return config, nil
}

// ListConfigs returns summaries of every board definition in the directory,
// sorted by name.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	infos := make([]*service.ConfigInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		config, err := m.LoadConfig(strings.TrimSuffix(name, ".json"))
		if err != nil {
			log.Printf("Warning: skipping invalid config %s: %v", name, err)
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			Name:        config.Name,
			Description: config.Description,
			BoardSize:   config.BoardSize,
			HintsOn:     config.HintsOn,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// GetDefault returns the default board definition, falling back to a built-in
// 5x5 board when no config file is available.
func (m *Manager) GetDefault() *engine.GameConfig {
	if config, err := m.LoadConfig(defaultConfigName); err == nil {
		return config
	}
	return minimalConfig()
}

// SaveConfig validates and writes a board definition to the directory,
// updating the cache.
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}

	name = strings.TrimSuffix(name, ".json")
	payload, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name+".json"), payload, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	m.cache[name] = config
	return nil
}

// RefreshCache drops all cached configs, forcing re-reads from disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]*engine.GameConfig)
}

func (m *Manager) readConfigFile(name string) (*engine.GameConfig, error) {
	payload, err := os.ReadFile(filepath.Join(m.dir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", name, err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(payload, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", name, err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", name, err)
	}
	return &config, nil
}

// minimalConfig is the built-in fallback board definition.
func minimalConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "default",
		Description: "Default 5x5 knight's tour board",
		BoardSize:   engine.MinBoardSize,
		HintsOn:     false,
		Messages: engine.Messages{
			Welcome:  "Place the knight on any square to begin.",
			Complete: "Tour complete! You visited all %d squares.",
			Lost:     "No moves remain. The tour is over.",
		},
	}
}
