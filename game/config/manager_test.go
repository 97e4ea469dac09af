package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ktgame/knights-tour/game/engine"
)

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	payload, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func testConfig(name string, size int) *engine.GameConfig {
	return &engine.GameConfig{
		Name:        name,
		Description: "test board",
		BoardSize:   size,
		Messages: engine.Messages{
			Welcome:  "welcome",
			Complete: "done %d",
			Lost:     "lost",
		},
	}
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "test_board", testConfig("test_board", 6))

	m := NewManager(dir)

	config, err := m.LoadConfig("test_board")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.BoardSize != 6 {
		t.Errorf("BoardSize = %d, want 6", config.BoardSize)
	}

	// The .json suffix is accepted too.
	config2, err := m.LoadConfig("test_board.json")
	if err != nil {
		t.Fatalf("LoadConfig with suffix failed: %v", err)
	}
	if config2 != config {
		t.Error("expected cached config to be returned")
	}
}

func TestManager_LoadConfig_NotFound(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.LoadConfig("missing"); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestManager_LoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	writeConfigFile(t, dir, "bad_size", testConfig("bad_size", 9))

	m := NewManager(dir)
	if _, err := m.LoadConfig("bad"); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := m.LoadConfig("bad_size"); err == nil {
		t.Error("expected error for invalid board size")
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "beta", testConfig("beta", 6))
	writeConfigFile(t, dir, "alpha", testConfig("alpha", 5))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(dir)
	infos, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d configs, want 2", len(infos))
	}
	if infos[0].Name != "alpha" || infos[1].Name != "beta" {
		t.Errorf("configs not sorted by name: %s, %s", infos[0].Name, infos[1].Name)
	}
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("falls back to built-in board", func(t *testing.T) {
		m := NewManager(t.TempDir())
		config := m.GetDefault()
		if config == nil {
			t.Fatal("GetDefault returned nil")
		}
		if config.BoardSize != engine.MinBoardSize {
			t.Errorf("BoardSize = %d, want %d", config.BoardSize, engine.MinBoardSize)
		}
		if err := engine.ValidateGameConfig(config); err != nil {
			t.Errorf("built-in config is invalid: %v", err)
		}
	})

	t.Run("prefers classic_5 when present", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic_5", testConfig("classic_5", 5))
		m := NewManager(dir)
		config := m.GetDefault()
		if config.Name != "classic_5" {
			t.Errorf("Name = %q, want classic_5", config.Name)
		}
	})
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	config := testConfig("saved", 7)
	if err := m.SaveConfig("saved", config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	loaded, err := m.LoadConfig("saved")
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if loaded.BoardSize != 7 {
		t.Errorf("BoardSize = %d, want 7", loaded.BoardSize)
	}

	if err := m.SaveConfig("bad", testConfig("bad", 3)); err == nil {
		t.Error("expected validation error for board size 3")
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "board", testConfig("board", 5))

	m := NewManager(dir)
	first, err := m.LoadConfig("board")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	writeConfigFile(t, dir, "board", testConfig("board", 6))
	m.RefreshCache()

	second, err := m.LoadConfig("board")
	if err != nil {
		t.Fatalf("LoadConfig after refresh failed: %v", err)
	}
	if second.BoardSize != 6 {
		t.Errorf("BoardSize = %d, want 6 after refresh", second.BoardSize)
	}
	_ = first
}
