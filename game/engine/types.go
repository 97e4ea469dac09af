package engine

// GameStatus describes where a tour currently stands
type GameStatus string

const (
	StatusPlaying  GameStatus = "playing"
	StatusComplete GameStatus = "complete"
	StatusLost     GameStatus = "lost"
)

// MoveOutcome classifies the result of a single attempted placement
type MoveOutcome string

const (
	OutcomeAccepted     MoveOutcome = "accepted"
	OutcomeOutOfBounds  MoveOutcome = "rejected_out_of_bounds"
	OutcomeVisited      MoveOutcome = "rejected_visited"
	OutcomeNotReachable MoveOutcome = "rejected_not_reachable"
	OutcomeGameOver     MoveOutcome = "rejected_game_over"
)

const (
	// Board size bounds for a playable tour
	MinBoardSize = 5
	MaxBoardSize = 7

	// MaxPathMoves caps how many squares a single path request may contain
	MaxPathMoves = 50

	WebSocketBufferSize = 256
)

// Accepted reports whether the outcome placed the knight
func (o MoveOutcome) Accepted() bool {
	return o == OutcomeAccepted
}

// Position represents x,y board coordinates, 0-indexed
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// GameConfig represents a board definition loaded from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BoardSize   int      `json:"board_size"`
	HintsOn     bool     `json:"hints_enabled"`
	Messages    Messages `json:"messages"`
}

// Messages holds the display strings a presentation layer shows for each event
type Messages struct {
	Welcome      string `json:"welcome"`
	MovePlaced   string `json:"move_placed"`
	NotReachable string `json:"not_reachable"`
	Visited      string `json:"already_visited"`
	Complete     string `json:"complete"`
	Lost         string `json:"lost"`
	GameOver     string `json:"game_over"`
	Reset        string `json:"reset"`
}

// GameState represents the complete state of one knight's tour
type GameState struct {
	// Board holds 0 for unvisited squares and the 1-based visit order otherwise.
	// Indexed Board[y][x].
	Board     [][]int `json:"board"`
	BoardSize int     `json:"board_size"`

	// Knight is nil until the opening square has been chosen
	Knight *Position `json:"knight,omitempty"`

	// MoveCounter starts at 1 and equals visited squares + 1 while playing
	MoveCounter int `json:"move_counter"`

	Status     GameStatus `json:"status"`
	Hints      bool       `json:"hints_enabled"`
	Message    string     `json:"message"`
	ConfigName string     `json:"config_name"`

	// MoveHistory is cumulative across resets; TotalMoves counts every attempt
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves mirrors MoveHistory entries for the game in progress only;
	// it is cleared on reset while MoveHistory is retained.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`
}

// MoveHistoryEntry records one attempted placement
type MoveHistoryEntry struct {
	From       *Position   `json:"from,omitempty"` // nil for the opening move
	To         Position    `json:"to"`
	MoveNumber int         `json:"move_number"` // visit order the square received, 0 if rejected
	Outcome    MoveOutcome `json:"outcome"`
	Timestamp  int64       `json:"timestamp"`
	AttemptNum int         `json:"attempt_num"`
}

// Succeeded reports whether the recorded attempt was accepted
func (e MoveHistoryEntry) Succeeded() bool {
	return e.Outcome == OutcomeAccepted
}
