// Command validate provides a small CLI that validates board definition JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Board size bounds (5 to 7)
//   - Presence of the required message keys and their format verbs
//   - Connectivity: every square is reachable from every other square via
//     knight moves, so no board ships with an isolated region
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ktgame/knights-tour/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single board definition JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	connectivity := validateConnectivity(config.BoardSize)
	if !connectivity.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, connectivity.Errors...)
		return result
	}

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("OK Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("OK Board: %dx%d (%d squares)", config.BoardSize, config.BoardSize, config.BoardSize*config.BoardSize))
	result.Errors = append(result.Errors, fmt.Sprintf("OK Hints on: %v", config.HintsOn))
	result.Errors = append(result.Errors, connectivity.Errors...)
	return result
}

// validateConnectivity checks that the knight-move graph on an NxN board is
// connected: starting anywhere, a knight can eventually reach every square
// on an empty board. An isolated region would make tours impossible.
func validateConnectivity(size int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	total := size * size
	visited := make(map[engine.Position]bool, total)
	queue := []engine.Position{{X: 0, Y: 0}}
	visited[queue[0]] = true

	state := engine.InitGameStateFromConfig(&engine.GameConfig{
		Name:        "connectivity",
		Description: "connectivity check",
		BoardSize:   size,
		Messages: engine.Messages{
			Welcome:  "-",
			Complete: "%d",
			Lost:     "-",
		},
	})

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range engine.ValidMoves(state, &cur) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	if len(visited) != total {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Knight-move graph is disconnected: reached %d of %d squares", len(visited), total))
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("OK Connectivity: all %d squares reachable", total))
	return result
}

func main() {
	configsDir := "../configs"
	if len(os.Args) > 1 {
		configsDir = os.Args[1]
	}

	entries, err := os.ReadDir(configsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", configsDir, err)
		os.Exit(1)
	}

	failures := 0
	checked := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		checked++

		result := validateConfig(filepath.Join(configsDir, name))
		if result.Valid {
			fmt.Printf("%s: VALID\n", result.File)
		} else {
			failures++
			fmt.Printf("%s: INVALID\n", result.File)
		}
		for _, line := range result.Errors {
			fmt.Printf("  %s\n", line)
		}
	}

	if checked == 0 {
		fmt.Fprintf(os.Stderr, "No board definitions found in %s\n", configsDir)
		os.Exit(1)
	}
	if failures > 0 {
		fmt.Printf("\n%d of %d definitions failed validation\n", failures, checked)
		os.Exit(1)
	}
	fmt.Printf("\nAll %d definitions are valid\n", checked)
}
