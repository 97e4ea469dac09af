package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ktgame/knights-tour/game/engine"
	"github.com/ktgame/knights-tour/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	PlaceKnightFunc  func(ctx context.Context, sessionID string, target engine.Position, reset bool) (*service.MoveResult, error)
	PlayPathFunc     func(ctx context.Context, sessionID string, targets []engine.Position, reset bool) (*service.PathResult, error)
	ResetFunc        func(ctx context.Context, sessionID string) (*engine.GameState, error)
	SetBoardSizeFunc func(ctx context.Context, sessionID string, size int) (*engine.GameState, error)
	ToggleHintsFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error
}

func testState() *engine.GameState {
	return engine.InitGameStateFromConfig(nil)
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		BoardSize:  5,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "test-config",
		BoardSize:  5,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) PlaceKnight(ctx context.Context, sessionID string, target engine.Position, reset bool) (*service.MoveResult, error) {
	if m.PlaceKnightFunc != nil {
		return m.PlaceKnightFunc(ctx, sessionID, target, reset)
	}
	return &service.MoveResult{
		Outcome:   engine.OutcomeAccepted,
		Accepted:  true,
		GameState: testState(),
	}, nil
}

func (m *MockGameService) PlayPath(ctx context.Context, sessionID string, targets []engine.Position, reset bool) (*service.PathResult, error) {
	if m.PlayPathFunc != nil {
		return m.PlayPathFunc(ctx, sessionID, targets, reset)
	}
	return &service.PathResult{
		RequestedMoves: len(targets),
		MovesExecuted:  len(targets),
		MovesAccepted:  len(targets),
		StopReason:     service.StopReasonDone,
		GameState:      testState(),
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) SetBoardSize(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	if m.SetBoardSizeFunc != nil {
		return m.SetBoardSizeFunc(ctx, sessionID, size)
	}
	return testState(), nil
}

func (m *MockGameService) ToggleHints(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ToggleHintsFunc != nil {
		return m.ToggleHintsFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{Entries: []engine.MoveHistoryEntry{}}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return &engine.GameConfig{Name: configName, BoardSize: 5}, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHandleCreateSession(t *testing.T) {
	mock := &MockGameService{}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "POST", "/api/sessions", map[string]string{"config_name": "classic_5"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var info service.SessionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if info.ConfigName != "classic_5" {
		t.Errorf("ConfigName = %q, want classic_5", info.ConfigName)
	}
}

func TestHandleGetSession_NotFound(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, errors.New("session not found: " + sessionID)
		},
	}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "GET", "/api/sessions/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleMove(t *testing.T) {
	var gotTarget engine.Position
	var gotReset bool
	mock := &MockGameService{
		PlaceKnightFunc: func(ctx context.Context, sessionID string, target engine.Position, reset bool) (*service.MoveResult, error) {
			gotTarget = target
			gotReset = reset
			state := testState()
			return &service.MoveResult{
				Outcome:   engine.OutcomeAccepted,
				Accepted:  true,
				GameState: state,
			}, nil
		},
	}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "POST", "/api/sessions/abc/move", map[string]interface{}{"x": 2, "y": 3, "reset": true})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if gotTarget.X != 2 || gotTarget.Y != 3 {
		t.Errorf("target = %+v, want (2,3)", gotTarget)
	}
	if !gotReset {
		t.Error("reset flag not forwarded")
	}

	var result service.MoveResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !result.Accepted {
		t.Error("Accepted = false, want true")
	}
}

func TestHandleMove_InvalidBody(t *testing.T) {
	srv := NewServer(&MockGameService{}, nil)

	req := httptest.NewRequest("POST", "/api/sessions/abc/move", bytes.NewBufferString("{bad"))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandlePlayPath(t *testing.T) {
	mock := &MockGameService{
		PlayPathFunc: func(ctx context.Context, sessionID string, targets []engine.Position, reset bool) (*service.PathResult, error) {
			return &service.PathResult{
				RequestedMoves: len(targets),
				MovesExecuted:  2,
				MovesAccepted:  1,
				StopReason:     service.StopReasonRejected,
				GameState:      testState(),
			}, nil
		},
	}
	srv := NewServer(mock, nil)

	body := map[string]interface{}{
		"targets": []map[string]int{{"x": 0, "y": 0}, {"x": 2, "y": 1}, {"x": 3, "y": 3}},
	}
	w := doJSON(t, srv, "POST", "/api/sessions/abc/path", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result service.PathResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.StopReason != service.StopReasonRejected {
		t.Errorf("StopReason = %q, want move_rejected", result.StopReason)
	}
}

func TestHandlePlayPath_EmptyTargets(t *testing.T) {
	srv := NewServer(&MockGameService{}, nil)

	w := doJSON(t, srv, "POST", "/api/sessions/abc/path", map[string]interface{}{"targets": []engine.Position{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleSetBoardSize(t *testing.T) {
	var gotSize int
	mock := &MockGameService{
		SetBoardSizeFunc: func(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
			gotSize = size
			if size < engine.MinBoardSize || size > engine.MaxBoardSize {
				return nil, errors.New("unsupported board size")
			}
			return testState(), nil
		},
	}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "POST", "/api/sessions/abc/board-size", map[string]int{"size": 7})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotSize != 7 {
		t.Errorf("size = %d, want 7", gotSize)
	}

	w = doJSON(t, srv, "POST", "/api/sessions/abc/board-size", map[string]int{"size": 9})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unsupported size", w.Code)
	}
}

func TestHandleGetHistory_QueryParams(t *testing.T) {
	var gotOpts service.HistoryOptions
	mock := &MockGameService{
		GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			gotOpts = opts
			return &service.HistoryResponse{}, nil
		},
	}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "GET", "/api/sessions/abc/history?limit=5&offset=10&failed_only=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotOpts.Limit != 5 || gotOpts.Offset != 10 || !gotOpts.FailedOnly {
		t.Errorf("opts = %+v, want limit=5 offset=10 failed_only", gotOpts)
	}
}

func TestHandleConfigs(t *testing.T) {
	mock := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{{Name: "classic_5", BoardSize: 5}}, nil
		},
	}
	srv := NewServer(mock, nil)

	w := doJSON(t, srv, "GET", "/api/configs", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Count   int                   `json:"count"`
		Configs []*service.ConfigInfo `json:"configs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 || resp.Configs[0].Name != "classic_5" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandleCreateConfig_Validation(t *testing.T) {
	srv := NewServer(&MockGameService{}, nil)

	w := doJSON(t, srv, "POST", "/api/configs", map[string]interface{}{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing name/config", w.Code)
	}
}
