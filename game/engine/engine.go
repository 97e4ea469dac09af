package engine

import "fmt"

// Engine provides the main interface for tour operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	SetBoardSize(size int) (*GameState, error)
	ToggleHints() *GameState

	// Placement operations
	AttemptMove(target Position) MoveOutcome
	CanMoveTo(target Position) bool
	GetValidMoves() []Position

	// Status queries
	Status() GameStatus
	IsComplete() bool
	IsStuck() bool
	GetKnight() *Position
	GetMoveCounter() int
	GetBoardSize() int

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastAttempt() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It owns a single GameState that
// is replaced, not mutated, on every accepted placement.
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new tour engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return &GameEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
	}, nil
}

// NewEngineWithDefaults creates a new tour engine with default configuration
func NewEngineWithDefaults() *GameEngine {
	engine := &GameEngine{config: nil}
	engine.state = InitGameStateFromConfig(nil)
	return engine
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// Reset starts a fresh tour on the current board size. The cumulative attempt
// history and total counter survive the reset; only the current segment and
// the board itself are cleared.
func (e *GameEngine) Reset() *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves
	size := e.state.BoardSize
	hints := e.state.Hints

	e.state = InitGameStateFromConfig(e.config)
	e.state.Hints = hints
	e.resizeBoard(size)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// SetBoardSize switches the board to size×size. Any tour in progress is
// discarded; this is an implicit reset, not an error.
func (e *GameEngine) SetBoardSize(size int) (*GameState, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("board size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, size)
	}

	state := e.Reset()
	e.resizeBoard(size)
	return state, nil
}

// ToggleHints flips the hint display flag. It has no effect on move legality.
func (e *GameEngine) ToggleHints() *GameState {
	next := e.state.Clone()
	next.Hints = !next.Hints
	e.state = next
	return e.state
}

// AttemptMove tries to place the knight on target. Every attempt, accepted or
// not, is recorded in the move history.
func (e *GameEngine) AttemptMove(target Position) MoveOutcome {
	from := e.state.Knight
	next, outcome := Apply(e.state, target)
	e.state = next
	e.state.AddAttemptToHistory(from, target, outcome)
	e.state.Message = e.messageFor(outcome)
	return outcome
}

// CanMoveTo reports whether target would be accepted right now
func (e *GameEngine) CanMoveTo(target Position) bool {
	return Classify(e.state, target).Accepted()
}

// GetValidMoves returns the squares reachable from the knight's current square
func (e *GameEngine) GetValidMoves() []Position {
	return ValidMoves(e.state, e.state.Knight)
}

// Status returns the current game status
func (e *GameEngine) Status() GameStatus {
	return e.state.Status
}

// IsComplete reports whether the tour has visited every square
func (e *GameEngine) IsComplete() bool {
	return IsComplete(e.state)
}

// IsStuck reports whether the knight has no legal move from its current square
func (e *GameEngine) IsStuck() bool {
	return IsStuck(e.state, e.state.Knight)
}

// GetKnight returns the knight's position, nil before the opening move
func (e *GameEngine) GetKnight() *Position {
	return e.state.Knight
}

// GetMoveCounter returns the current move counter
func (e *GameEngine) GetMoveCounter() int {
	return e.state.MoveCounter
}

// GetBoardSize returns the current board size
func (e *GameEngine) GetBoardSize() int {
	return e.state.BoardSize
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a fresh tour
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config)
	return nil
}

// GetMoveHistory returns the cumulative attempt history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastAttempt returns the most recent attempt, or nil if none
func (e *GameEngine) GetLastAttempt() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// PlayPath executes a sequence of placements, stopping at the first rejection
// or terminal status. It returns the outcome of each attempted placement.
func (e *GameEngine) PlayPath(targets []Position) []MoveOutcome {
	outcomes := make([]MoveOutcome, 0, len(targets))

	for _, target := range targets {
		if e.state.Status != StatusPlaying {
			break
		}
		outcome := e.AttemptMove(target)
		outcomes = append(outcomes, outcome)
		if !outcome.Accepted() {
			break
		}
	}

	return outcomes
}

// resizeBoard swaps the current state's board for an empty size×size grid
func (e *GameEngine) resizeBoard(size int) {
	if e.state.BoardSize == size {
		return
	}
	e.state.BoardSize = size
	e.state.Board = emptyBoard(size)
}

// messageFor picks the display string for an outcome from the active config.
// Optional message fields fall back to the built-in strings.
func (e *GameEngine) messageFor(outcome MoveOutcome) string {
	msgs := defaultMessages()
	if e.config != nil {
		c := e.config.Messages
		msgs.Welcome = c.Welcome
		msgs.Complete = c.Complete
		msgs.Lost = c.Lost
		if c.MovePlaced != "" {
			msgs.MovePlaced = c.MovePlaced
		}
		if c.NotReachable != "" {
			msgs.NotReachable = c.NotReachable
		}
		if c.Visited != "" {
			msgs.Visited = c.Visited
		}
		if c.GameOver != "" {
			msgs.GameOver = c.GameOver
		}
		if c.Reset != "" {
			msgs.Reset = c.Reset
		}
	}

	switch {
	case e.state.Status == StatusComplete:
		return fmt.Sprintf(msgs.Complete, e.state.BoardSize*e.state.BoardSize)
	case e.state.Status == StatusLost:
		return msgs.Lost
	case outcome == OutcomeAccepted:
		return fmt.Sprintf(msgs.MovePlaced, e.state.MoveCounter-1)
	case outcome == OutcomeVisited:
		return msgs.Visited
	case outcome == OutcomeGameOver:
		return msgs.GameOver
	default:
		return msgs.NotReachable
	}
}
