package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a board definition for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d",
			MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Complete == "" {
		return fmt.Errorf("config validation: messages.complete is required")
	}
	if config.Messages.Lost == "" {
		return fmt.Errorf("config validation: messages.lost is required")
	}

	// Format strings rendered with the square count or move number
	if !strings.Contains(config.Messages.Complete, "%d") {
		return fmt.Errorf("config validation: messages.complete must contain %%d for the square count")
	}
	if config.Messages.MovePlaced != "" && !strings.Contains(config.Messages.MovePlaced, "%d") {
		return fmt.Errorf("config validation: messages.move_placed must contain %%d for the move number")
	}

	return nil
}

// LoadGameConfig loads a board definition from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// InitGameStateFromConfig creates a fresh all-zero board from the provided
// configuration. A nil config falls back to a classic 5×5 board.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = &GameConfig{
			Name:        "default",
			Description: "Default 5x5 knight's tour",
			BoardSize:   MinBoardSize,
			Messages:    defaultMessages(),
		}
	}

	return &GameState{
		Board:             emptyBoard(config.BoardSize),
		BoardSize:         config.BoardSize,
		Knight:            nil,
		MoveCounter:       1,
		Status:            StatusPlaying,
		Hints:             config.HintsOn,
		Message:           config.Messages.Welcome,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
}

// emptyBoard allocates an all-zero size×size grid
func emptyBoard(size int) [][]int {
	board := make([][]int, size)
	for y := range board {
		board[y] = make([]int, size)
	}
	return board
}

// defaultMessages returns the built-in display strings
func defaultMessages() Messages {
	return Messages{
		Welcome:      "Pick any square to start the knight's tour.",
		MovePlaced:   "Move %d placed.",
		NotReachable: "The knight cannot reach that square.",
		Visited:      "That square has already been visited.",
		Complete:     "Tour complete! All %d squares visited.",
		Lost:         "No moves left. The tour is stuck.",
		GameOver:     "The game is over. Reset to play again.",
		Reset:        "Board reset.",
	}
}
