// Command analyze prints quick, human-readable heuristics about knight's
// tour boards: the move-degree map of each square (how many knight moves
// leave it), degree distributions per supported size, and a summary of the
// board definition files in the configs directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ktgame/knights-tour/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "inspect knight's tour boards and definitions",
		Commands: []*cli.Command{
			{
				Name:  "degrees",
				Usage: "print the knight-move degree of every square",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "size",
						Value: engine.MinBoardSize,
						Usage: "board size (5, 6 or 7); 0 prints all sizes",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					size := int(cmd.Int("size"))
					if size == 0 {
						for s := engine.MinBoardSize; s <= engine.MaxBoardSize; s++ {
							printDegreeMap(s)
							fmt.Println()
						}
						return nil
					}
					if size < engine.MinBoardSize || size > engine.MaxBoardSize {
						return fmt.Errorf("unsupported board size %d (want %d..%d)", size, engine.MinBoardSize, engine.MaxBoardSize)
					}
					printDegreeMap(size)
					return nil
				},
			},
			{
				Name:  "configs",
				Usage: "summarize the board definition files in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "configs",
						Usage: "directory containing board definition JSON files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyzeConfigs(cmd.String("dir"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printDegreeMap shows how many knight moves leave each square. Low-degree
// squares (corners) are the hardest to revisit and should be taken early.
func printDegreeMap(size int) {
	fmt.Printf("=== %dx%d degree map ===\n", size, size)

	counts := make(map[int]int)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := engine.SquareDegree(engine.Position{X: x, Y: y}, size)
			counts[d]++
			fmt.Printf(" %d", d)
		}
		fmt.Println()
	}

	fmt.Printf("distribution:")
	for d := 2; d <= 8; d++ {
		if counts[d] > 0 {
			fmt.Printf(" %dx deg-%d", counts[d], d)
		}
	}
	fmt.Printf("\ntotal squares: %d\n", size*size)
}

func analyzeConfigs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	found := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		found++
		fmt.Printf("\n=== %s ===\n", name)
		analyzeConfigFile(filepath.Join(dir, name))
	}
	if found == 0 {
		fmt.Printf("no board definitions found in %s\n", dir)
	}
	return nil
}

func analyzeConfigFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Description: %s\n", config.Description)
	fmt.Printf("Board: %dx%d (%d squares)\n", config.BoardSize, config.BoardSize, config.BoardSize*config.BoardSize)
	fmt.Printf("Hints on: %v\n", config.HintsOn)

	if err := engine.ValidateGameConfig(&config); err != nil {
		fmt.Printf("WARNING: definition is invalid: %v\n", err)
		return
	}

	// Corners are the choke points of a tour.
	size := config.BoardSize
	corners := []engine.Position{
		{X: 0, Y: 0}, {X: size - 1, Y: 0},
		{X: 0, Y: size - 1}, {X: size - 1, Y: size - 1},
	}
	minDegree := 8
	for _, c := range corners {
		if d := engine.SquareDegree(c, size); d < minDegree {
			minDegree = d
		}
	}
	fmt.Printf("Corner degree: %d (visit corners early)\n", minDegree)
}
