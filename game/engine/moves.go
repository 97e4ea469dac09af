package engine

import "time"

// knightOffsets are the eight L-shaped displacements of a chess knight
var knightOffsets = [8]Position{
	{X: 1, Y: 2},
	{X: 2, Y: 1},
	{X: 2, Y: -1},
	{X: 1, Y: -2},
	{X: -1, Y: -2},
	{X: -2, Y: -1},
	{X: -2, Y: 1},
	{X: -1, Y: 2},
}

// OnBoard reports whether the position lies inside an size×size board
func OnBoard(pos Position, size int) bool {
	return pos.X >= 0 && pos.X < size && pos.Y >= 0 && pos.Y < size
}

// ValidMoves returns every unvisited in-bounds square a knight at from can
// reach on the given state. A nil from yields no moves. The result is
// recomputed from the board on every call; with at most 8 candidates there is
// nothing worth caching.
func ValidMoves(state *GameState, from *Position) []Position {
	if state == nil || from == nil {
		return nil
	}

	moves := make([]Position, 0, len(knightOffsets))
	for _, off := range knightOffsets {
		target := Position{X: from.X + off.X, Y: from.Y + off.Y}
		if !OnBoard(target, state.BoardSize) {
			continue
		}
		if state.Board[target.Y][target.X] != 0 {
			continue
		}
		moves = append(moves, target)
	}

	return moves
}

// IsComplete reports whether every square of the board has been visited
func IsComplete(state *GameState) bool {
	return state != nil && state.MoveCounter > state.BoardSize*state.BoardSize
}

// IsStuck reports whether a knight at pos has no legal move left
func IsStuck(state *GameState, pos *Position) bool {
	return pos != nil && len(ValidMoves(state, pos)) == 0
}

// Classify determines what outcome attempting to place the knight on target
// would have, without changing any state.
func Classify(state *GameState, target Position) MoveOutcome {
	if state.Status != StatusPlaying {
		return OutcomeGameOver
	}
	if !OnBoard(target, state.BoardSize) {
		return OutcomeOutOfBounds
	}
	if state.Board[target.Y][target.X] != 0 {
		return OutcomeVisited
	}
	// The opening placement may target any empty square
	if state.MoveCounter == 1 {
		return OutcomeAccepted
	}
	for _, m := range ValidMoves(state, state.Knight) {
		if m == target {
			return OutcomeAccepted
		}
	}
	return OutcomeNotReachable
}

// Apply attempts a placement and returns the resulting state together with the
// outcome. On rejection the input state is returned unchanged; on acceptance a
// fresh state is built so the caller can treat transitions as
// (state, input) -> new state.
func Apply(state *GameState, target Position) (*GameState, MoveOutcome) {
	outcome := Classify(state, target)
	if !outcome.Accepted() {
		return state, outcome
	}

	next := state.Clone()
	next.Board[target.Y][target.X] = next.MoveCounter
	next.MoveCounter++
	next.Knight = &Position{X: target.X, Y: target.Y}

	switch {
	case IsComplete(next):
		next.Status = StatusComplete
	case IsStuck(next, next.Knight):
		next.Status = StatusLost
	}

	return next, OutcomeAccepted
}

// Clone returns a deep copy of the state. History slices are copied so the new
// state can be appended to without aliasing the original.
func (gs *GameState) Clone() *GameState {
	dup := *gs

	dup.Board = make([][]int, len(gs.Board))
	for y, row := range gs.Board {
		dup.Board[y] = append([]int(nil), row...)
	}
	if gs.Knight != nil {
		k := *gs.Knight
		dup.Knight = &k
	}
	dup.MoveHistory = append([]MoveHistoryEntry(nil), gs.MoveHistory...)
	dup.CurrentMoves = append([]MoveHistoryEntry(nil), gs.CurrentMoves...)

	return &dup
}

// AddAttemptToHistory records an attempted placement in both the cumulative
// history and the current-game segment.
func (gs *GameState) AddAttemptToHistory(from *Position, to Position, outcome MoveOutcome) {
	moveNum := 0
	if outcome.Accepted() {
		moveNum = gs.MoveCounter - 1
	}

	entry := MoveHistoryEntry{
		From:       from,
		To:         to,
		MoveNumber: moveNum,
		Outcome:    outcome,
		Timestamp:  time.Now().Unix(),
		AttemptNum: gs.TotalMoves + 1,
	}

	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
