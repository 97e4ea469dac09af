// Package engine provides the core game logic for the knight's tour puzzle.
//
// The engine package implements the game mechanics including:
//   - Knight move generation and legality checking
//   - Tour progression, completion, and stuck detection
//   - Game state management and persistence
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for tour operations,
// implemented by GameEngine. GameState represents one tour in progress,
// while GameConfig defines the board size and display messages loaded
// from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic_5.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tour, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Place the knight
//	outcome := tour.AttemptMove(engine.Position{X: 0, Y: 0})
//	state := tour.GetState()
//
// Game Rules:
//
// The player places a knight on any square to start, then moves it with
// legal L-shaped knight moves to squares not yet visited. The tour is
// complete when every square has been visited once, and lost when the
// knight has unvisited squares remaining but no legal move. State
// transitions are pure: an accepted placement builds a new GameState
// rather than mutating the previous one, and derived values such as the
// valid-move set are recomputed from the board on demand.
package engine
