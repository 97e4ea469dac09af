package service

import (
	"time"

	"github.com/ktgame/knights-tour/game/engine"
)

// SessionInfo is the session summary returned by session operations.
type SessionInfo struct {
	ID             string    `json:"id"`
	ConfigName     string    `json:"config_name"`
	BoardSize      int       `json:"board_size"`
	Status         string    `json:"status"`
	VisitedSquares int       `json:"visited_squares"`
	TotalSquares   int       `json:"total_squares"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// MoveResult describes the outcome of a single placement attempt.
type MoveResult struct {
	Outcome    engine.MoveOutcome `json:"outcome"`
	Accepted   bool               `json:"accepted"`
	Message    string             `json:"message"`
	GameState  *engine.GameState  `json:"game_state"`
	ValidMoves []engine.Position  `json:"valid_moves"`
	Events     []GameEvent        `json:"events,omitempty"`
}

// StepInfo records one step of a path execution.
type StepInfo struct {
	Index    int                `json:"index"`
	Target   engine.Position    `json:"target"`
	Outcome  engine.MoveOutcome `json:"outcome"`
	Accepted bool               `json:"accepted"`
}

// PathResult summarizes a bounded sequence of placements.
type PathResult struct {
	RequestedMoves int               `json:"requested_moves"`
	MovesExecuted  int               `json:"moves_executed"`
	MovesAccepted  int               `json:"moves_accepted"`
	Truncated      bool              `json:"truncated"`
	Limit          int               `json:"limit"`
	StopReason     string            `json:"stop_reason"`
	Steps          []StepInfo        `json:"steps"`
	StartPos       *engine.Position  `json:"start_pos,omitempty"`
	EndPos         *engine.Position  `json:"end_pos,omitempty"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events,omitempty"`
}

// Stop reasons for PathResult.
const (
	StopReasonDone      = "all_moves_executed"
	StopReasonRejected  = "move_rejected"
	StopReasonComplete  = "tour_complete"
	StopReasonLost      = "no_moves_remaining"
	StopReasonTruncated = "limit_reached"
)

// GameEvent is a notable state transition surfaced to clients.
type GameEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types.
const (
	EventMoveAccepted  = "move_accepted"
	EventMoveRejected  = "move_rejected"
	EventTourComplete  = "tour_complete"
	EventTourLost      = "tour_lost"
	EventGameReset     = "game_reset"
	EventBoardResized  = "board_resized"
	EventHintsToggled  = "hints_toggled"
	EventSessionOpened = "session_opened"
)

// HistoryOptions controls pagination and filtering of move history.
type HistoryOptions struct {
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	SessionOnly bool `json:"session_only"`
	FailedOnly  bool `json:"failed_only"`
}

// HistoryResponse is a page of move history entries.
type HistoryResponse struct {
	Entries    []engine.MoveHistoryEntry `json:"entries"`
	TotalCount int                       `json:"total_count"`
	Offset     int                       `json:"offset"`
	Limit      int                       `json:"limit"`
	HasMore    bool                      `json:"has_more"`
}

// ConfigInfo summarizes an available board definition.
type ConfigInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	HintsOn     bool   `json:"hints_enabled"`
}
