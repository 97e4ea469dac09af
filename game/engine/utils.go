package engine

// CountVisited counts the squares that already carry a visit number
func CountVisited(board [][]int) int {
	count := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// SquareDegree returns how many knight moves leave pos on an empty size×size
// board. Corner squares have degree 2; central squares of a 7×7 board reach 8.
func SquareDegree(pos Position, size int) int {
	degree := 0
	for _, off := range knightOffsets {
		if OnBoard(Position{X: pos.X + off.X, Y: pos.Y + off.Y}, size) {
			degree++
		}
	}
	return degree
}

// VisitedSquares returns the positions visited so far in tour order.
// Index i holds the square that received move number i+1.
func VisitedSquares(state *GameState) []Position {
	if state == nil {
		return nil
	}

	ordered := make([]Position, state.MoveCounter-1)
	for y, row := range state.Board {
		for x, v := range row {
			if v > 0 && v <= len(ordered) {
				ordered[v-1] = Position{X: x, Y: y}
			}
		}
	}
	return ordered
}

// Progress returns visited and total square counts for the current board
func Progress(state *GameState) (visited, total int) {
	if state == nil {
		return 0, 0
	}
	return state.MoveCounter - 1, state.BoardSize * state.BoardSize
}
