package session

import (
	"testing"
	"time"

	"github.com/ktgame/knights-tour/game/engine"
)

func TestFilePersistence_RoundTrip(t *testing.T) {
	p, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	state := engine.InitGameStateFromConfig(testConfig())
	data := &PersistedSessionData{
		ID:             "abc123",
		Config:         testConfig(),
		GameState:      state,
		CreatedAt:      time.Now().Truncate(time.Second),
		LastAccessedAt: time.Now().Truncate(time.Second),
	}

	if err := p.SaveSession("abc123", data); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	loaded, err := p.LoadSession("abc123")
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if loaded.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", loaded.ID)
	}
	if loaded.GameState == nil || loaded.GameState.BoardSize != 5 {
		t.Error("game state did not survive the round trip")
	}

	ids, err := p.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "abc123" {
		t.Errorf("ListSessions = %v, want [abc123]", ids)
	}
}

func TestFilePersistence_Delete(t *testing.T) {
	p, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	data := &PersistedSessionData{ID: "gone", Config: testConfig()}
	if err := p.SaveSession("gone", data); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := p.DeleteSession("gone"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := p.LoadSession("gone"); err == nil {
		t.Error("expected error loading deleted session")
	}

	// Deleting a missing session is not an error.
	if err := p.DeleteSession("never-existed"); err != nil {
		t.Errorf("DeleteSession on missing file: %v", err)
	}
}

func TestManager_PersistenceIntegration(t *testing.T) {
	dir := t.TempDir()
	p, err := NewFilePersistence(dir)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(p)
	session, err := m.Create("persisted", testConfig())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Play an opening move and save.
	if outcome := session.Engine.AttemptMove(engine.Position{X: 2, Y: 2}); !outcome.Accepted() {
		t.Fatalf("opening move rejected: %s", outcome)
	}
	if err := m.Save("persisted"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh manager restores the session including the move.
	m2 := NewManagerWithPersistence(p)
	if err := m2.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	restored, err := m2.Get("persisted")
	if err != nil {
		t.Fatalf("Get after restore failed: %v", err)
	}
	knight := restored.Engine.GetKnight()
	if knight == nil || knight.X != 2 || knight.Y != 2 {
		t.Errorf("knight = %v, want (2,2)", knight)
	}
	if restored.Engine.GetMoveCounter() != 2 {
		t.Errorf("move counter = %d, want 2", restored.Engine.GetMoveCounter())
	}
}
