package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ktgame/knights-tour/game/engine"
)

// GameServiceImpl implements GameService on top of a session manager and a
// config manager.
type GameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service.
func NewGameService(sessions SessionManager, configs ConfigManager) *GameServiceImpl {
	return &GameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession starts a new session using the named board definition, or the
// default definition when configName is empty.
func (s *GameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(session), nil
}

// GetSession returns summary information for an existing session.
func (s *GameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(session), nil
}

// ListSessions returns summaries for all active sessions.
func (s *GameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, s.sessionInfo(session))
	}
	return infos, nil
}

// DeleteSession removes a session.
func (s *GameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// PlaceKnight attempts to place the knight on the target square. When reset
// is true the board is cleared first, making the placement an opening move.
func (s *GameServiceImpl) PlaceKnight(ctx context.Context, sessionID string, target engine.Position, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if reset {
		session.Engine.Reset()
	}

	outcome := session.Engine.AttemptMove(target)
	state := session.Engine.GetState()

	result := &MoveResult{
		Outcome:    outcome,
		Accepted:   outcome.Accepted(),
		Message:    state.Message,
		GameState:  state,
		ValidMoves: session.Engine.GetValidMoves(),
		Events:     s.moveEvents(sessionID, outcome, state),
	}

	s.touchAndSave(sessionID)
	return result, nil
}

// PlayPath executes a sequence of placements, stopping at the first rejected
// move or terminal state. The sequence length is capped at engine.MaxPathMoves.
func (s *GameServiceImpl) PlayPath(ctx context.Context, sessionID string, targets []engine.Position, reset bool) (*PathResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if reset {
		session.Engine.Reset()
	}

	requested := len(targets)
	truncated := false
	if len(targets) > engine.MaxPathMoves {
		targets = targets[:engine.MaxPathMoves]
		truncated = true
	}

	startPos := session.Engine.GetKnight()
	result := &PathResult{
		RequestedMoves: requested,
		Truncated:      truncated,
		Limit:          engine.MaxPathMoves,
		StopReason:     StopReasonDone,
		Steps:          make([]StepInfo, 0, len(targets)),
	}

	for i, target := range targets {
		outcome := session.Engine.AttemptMove(target)
		result.Steps = append(result.Steps, StepInfo{
			Index:    i,
			Target:   target,
			Outcome:  outcome,
			Accepted: outcome.Accepted(),
		})
		result.MovesExecuted++
		if outcome.Accepted() {
			result.MovesAccepted++
		} else {
			result.StopReason = StopReasonRejected
			break
		}
		if session.Engine.IsComplete() {
			result.StopReason = StopReasonComplete
			break
		}
		if session.Engine.Status() == engine.StatusLost {
			result.StopReason = StopReasonLost
			break
		}
	}
	if result.StopReason == StopReasonDone && truncated {
		result.StopReason = StopReasonTruncated
	}

	state := session.Engine.GetState()
	result.StartPos = startPos
	result.EndPos = state.Knight
	result.GameState = state
	result.Events = s.pathEvents(sessionID, result, state)

	s.touchAndSave(sessionID)
	return result, nil
}

// Reset clears the board for a fresh attempt, keeping the board size and the
// cumulative move history.
func (s *GameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.Reset()

	s.touchAndSave(sessionID)
	return state, nil
}

// SetBoardSize switches the session to a new board size and resets the game.
func (s *GameServiceImpl) SetBoardSize(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state, err := session.Engine.SetBoardSize(size)
	if err != nil {
		return nil, err
	}

	s.touchAndSave(sessionID)
	return state, nil
}

// ToggleHints flips the hint display flag.
func (s *GameServiceImpl) ToggleHints(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	state := session.Engine.ToggleHints()

	s.touchAndSave(sessionID)
	return state, nil
}

// GetGameState returns the current state for a session.
func (s *GameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Engine.GetState(), nil
}

// GetMoveHistory returns a page of the session's move history.
func (s *GameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	state := session.Engine.GetState()
	entries := state.MoveHistory
	if opts.SessionOnly {
		entries = state.CurrentMoves
	}
	if opts.FailedOnly {
		failed := make([]engine.MoveHistoryEntry, 0)
		for _, entry := range entries {
			if !entry.Succeeded() {
				failed = append(failed, entry)
			}
		}
		entries = failed
	}

	total := len(entries)
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]engine.MoveHistoryEntry, end-offset)
	copy(page, entries[offset:end])

	return &HistoryResponse{
		Entries:    page,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
		HasMore:    end < total,
	}, nil
}

// ListConfigs returns the available board definitions.
func (s *GameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a named board definition.
func (s *GameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a board definition.
func (s *GameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return s.configs.SaveConfig(configName, config)
}

func (s *GameServiceImpl) resolveConfig(configName string) (*engine.GameConfig, error) {
	if configName == "" {
		return s.configs.GetDefault(), nil
	}
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configName, err)
	}
	return config, nil
}

func (s *GameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	state := session.Engine.GetState()
	visited, total := engine.Progress(state)
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     state.ConfigName,
		BoardSize:      state.BoardSize,
		Status:         string(state.Status),
		VisitedSquares: visited,
		TotalSquares:   total,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}
}

func (s *GameServiceImpl) moveEvents(sessionID string, outcome engine.MoveOutcome, state *engine.GameState) []GameEvent {
	now := time.Now()
	events := make([]GameEvent, 0, 2)
	if outcome.Accepted() {
		events = append(events, GameEvent{Type: EventMoveAccepted, SessionID: sessionID, Message: state.Message, Timestamp: now})
	} else {
		events = append(events, GameEvent{Type: EventMoveRejected, SessionID: sessionID, Message: state.Message, Timestamp: now})
	}
	switch state.Status {
	case engine.StatusComplete:
		events = append(events, GameEvent{Type: EventTourComplete, SessionID: sessionID, Message: state.Message, Timestamp: now})
	case engine.StatusLost:
		events = append(events, GameEvent{Type: EventTourLost, SessionID: sessionID, Message: state.Message, Timestamp: now})
	}
	return events
}

func (s *GameServiceImpl) pathEvents(sessionID string, result *PathResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	events := make([]GameEvent, 0, 1)
	switch result.StopReason {
	case StopReasonComplete:
		events = append(events, GameEvent{Type: EventTourComplete, SessionID: sessionID, Message: state.Message, Timestamp: now})
	case StopReasonLost:
		events = append(events, GameEvent{Type: EventTourLost, SessionID: sessionID, Message: state.Message, Timestamp: now})
	case StopReasonRejected:
		events = append(events, GameEvent{Type: EventMoveRejected, SessionID: sessionID, Message: state.Message, Timestamp: now})
	}
	return events
}

func (s *GameServiceImpl) touchAndSave(sessionID string) {
	// Best effort, failures here must not affect the game result.
	_ = s.sessions.UpdateLastAccessed(sessionID)
	_ = s.sessions.Save(sessionID)
}
