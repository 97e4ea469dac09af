package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ktgame/knights-tour/game/engine"
	"github.com/ktgame/knights-tour/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Knight's Tour",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Knight's Tour Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move a chess knight so it visits every square on the board exactly once.
The first placement can be on any square. Every later placement must be a
legal knight move from the current square to an unvisited square.

AVAILABLE TOOLS:
- board_state: Get the current board with visit numbers
- place_knight: Place the knight on a square (x, y)
- play_path: Play a sequence of placements in one call
- valid_moves: List the squares reachable from the knight
- reset_game: Clear the board for a fresh attempt
- set_board_size: Switch between 5x5, 6x6 and 7x7 boards
- toggle_hints: Toggle the hint display flag
- move_history: View past placement attempts
- create_session / get_session / list_sessions: Session management
- list_configs: List available board definitions
- game_instructions: Get the full rules

Illegal placements are rejected silently: the board does not change and the
outcome field tells you why.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session with an optional board definition",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the board definition to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board with visit numbers",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_knight",
		Description: "Place the knight on the square (x, y). The first placement can be anywhere; later placements must be knight moves to unvisited squares.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column, 0-based from the left",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row, 0-based from the top",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Clear the board before placing (optional)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handlePlaceKnight)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_path",
		Description: "Play a sequence of placements. Stops at the first rejected move or when the game ends.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"targets": map[string]interface{}{
					"type":        "array",
					"description": "Squares to visit in order, each {x, y}",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x": map[string]interface{}{"type": "number"},
							"y": map[string]interface{}{"type": "number"},
						},
						"required": []string{"x", "y"},
					},
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Clear the board before playing (optional)",
				},
			},
			Required: []string{"session_id", "targets"},
		},
	}, c.handlePlayPath)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "valid_moves",
		Description: "List the unvisited squares reachable by a knight move from the current position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleValidMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Clear the board for a fresh attempt, keeping the board size",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_board_size",
		Description: "Switch the board to a new size (5, 6 or 7) and start over",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"size": map[string]interface{}{
					"type":        "number",
					"description": "Board size: 5, 6 or 7",
				},
			},
			Required: []string{"session_id", "size"},
		},
	}, c.handleSetBoardSize)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_hints",
		Description: "Toggle the hint display flag for the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleToggleHints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "View past placement attempts, including rejected ones",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProp,
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum entries to return (default 20)",
				},
				"failed_only": map[string]interface{}{
					"type":        "boolean",
					"description": "Only show rejected attempts",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules of the knight's tour puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server, used by stdio mode.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// ServeStdio runs the MCP server over stdin/stdout.
func (c *Client) ServeStdio() error {
	return server.ServeStdio(c.mcpServer)
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_name"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nBoard: %dx%d (%s)\n", session.ID, session.BoardSize, session.BoardSize, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Active sessions (%d):\n", response.Count))
	for _, s := range response.Sessions {
		b.WriteString(fmt.Sprintf("- %s: %dx%d, %s, %d/%d visited\n",
			s.ID, s.BoardSize, s.BoardSize, s.Status, s.VisitedSquares, s.TotalSquares))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Session %s\nBoard: %dx%d (%s)\nStatus: %s\nVisited: %d/%d\nCreated: %s\n",
		session.ID, session.BoardSize, session.BoardSize, session.ConfigName,
		session.Status, session.VisitedSquares, session.TotalSquares,
		session.CreatedAt.Format(time.RFC3339))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlaceKnight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x, xOK := args["x"].(float64)
	y, yOK := args["y"].(float64)
	if !xOK || !yOK {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"x":     int(x),
		"y":     int(y),
		"reset": reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if result.Accepted {
		b.WriteString(fmt.Sprintf("Placed on (%d,%d). %s\n", int(x), int(y), result.Message))
	} else {
		b.WriteString(fmt.Sprintf("Rejected (%s): %s\n", result.Outcome, result.Message))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	if len(result.ValidMoves) > 0 {
		b.WriteString("\n" + formatPositions("Valid moves", result.ValidMoves))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePlayPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	rawTargets, _ := args["targets"].([]interface{})
	if len(rawTargets) == 0 {
		return mcp.NewToolResultError("targets must be a non-empty array"), nil
	}
	reset, _ := args["reset"].(bool)

	targets := make([]map[string]int, 0, len(rawTargets))
	for i, raw := range rawTargets {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("target %d is not an object", i)), nil
		}
		x, xOK := obj["x"].(float64)
		y, yOK := obj["y"].(float64)
		if !xOK || !yOK {
			return mcp.NewToolResultError(fmt.Sprintf("target %d needs numeric x and y", i)), nil
		}
		targets = append(targets, map[string]int{"x": int(x), "y": int(y)})
	}

	body := map[string]interface{}{
		"targets": targets,
		"reset":   reset,
	}

	var result service.PathResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/path", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Executed %d/%d placements (%d accepted), stop: %s\n",
		result.MovesExecuted, result.RequestedMoves, result.MovesAccepted, result.StopReason))
	for _, step := range result.Steps {
		mark := "ok"
		if !step.Accepted {
			mark = string(step.Outcome)
		}
		b.WriteString(fmt.Sprintf("  %d. (%d,%d) %s\n", step.Index+1, step.Target.X, step.Target.Y, mark))
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleValidMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Knight     *engine.Position  `json:"knight"`
		ValidMoves []engine.Position `json:"valid_moves"`
		Count      int               `json:"count"`
	}
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/valid-moves", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Knight == nil {
		return mcp.NewToolResultText("Knight not placed yet: any square is a legal opener"), nil
	}
	if response.Count == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No moves from (%d,%d)", response.Knight.X, response.Knight.Y)), nil
	}
	return mcp.NewToolResultText(formatPositions(
		fmt.Sprintf("Moves from (%d,%d)", response.Knight.X, response.Knight.Y),
		response.ValidMoves)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetBoardSize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	size, ok := args["size"].(float64)
	if !ok {
		return mcp.NewToolResultError("size is a required number"), nil
	}

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/board-size", sessionID), map[string]int{"size": int(size)}, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Board switched to %dx%d\n\n%s", state.BoardSize, state.BoardSize, formatGameState(&state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleToggleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/hints", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Hints: %v", state.Hints)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := ""
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		params = fmt.Sprintf("?limit=%d", int(limit))
	}
	if failedOnly, _ := args["failed_only"].(bool); failedOnly {
		if params == "" {
			params = "?failed_only=true"
		} else {
			params += "&failed_only=true"
		}
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(history.Entries) == 0 {
		return mcp.NewToolResultText("No attempts recorded yet"), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Attempts (%d of %d):\n", len(history.Entries), history.TotalCount))
	for _, entry := range history.Entries {
		from := "start"
		if entry.From != nil {
			from = fmt.Sprintf("(%d,%d)", entry.From.X, entry.From.Y)
		}
		if entry.Succeeded() {
			b.WriteString(fmt.Sprintf("  #%d %s -> (%d,%d)\n", entry.MoveNumber, from, entry.To.X, entry.To.Y))
		} else {
			b.WriteString(fmt.Sprintf("  rejected %s -> (%d,%d): %s\n", from, entry.To.X, entry.To.Y, entry.Outcome))
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                   `json:"count"`
		Configs []*service.ConfigInfo `json:"configs"`
	}
	err := c.apiCall("GET", "/api/configs", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No board definitions available"), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Board definitions (%d):\n", response.Count))
	for _, cfg := range response.Configs {
		b.WriteString(fmt.Sprintf("- %s: %dx%d, %s\n", cfg.Name, cfg.BoardSize, cfg.BoardSize, cfg.Description))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `KNIGHT'S TOUR - RULES

OBJECTIVE:
Visit every square on the board exactly once with a chess knight.

RULES:
1. The first placement can be on any square. It becomes square 1.
2. Every later placement must be a knight move from the current square:
   two squares in one direction and one square perpendicular.
3. A square can only be visited once.
4. Illegal placements are rejected silently: the board does not change.
5. The tour is complete when every square is numbered.
6. The tour is lost when the knight has no legal moves left and squares
   remain unvisited.

BOARD:
- Sizes 5x5, 6x6 and 7x7 are supported. Switching sizes starts over.
- Coordinates are 0-based: x is the column from the left, y is the row
  from the top.
- The board display shows the visit number of each square, "." for
  unvisited squares, and brackets around the knight.

STRATEGY:
Prefer squares with few onward moves (Warnsdorff's rule): corners and
edges first, center squares last. Use valid_moves to inspect options
and play_path to commit a planned sequence.`

	return mcp.NewToolResultText(instructions), nil
}

// Format helpers

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	visited, total := engine.Progress(state)

	pos := "not placed"
	if state.Knight != nil {
		pos = fmt.Sprintf("(%d,%d)", state.Knight.X, state.Knight.Y)
	}
	b.WriteString(fmt.Sprintf("Knight: %s | Visited: %d/%d | Status: %s | Attempts: %d\n",
		pos, visited, total, state.Status, state.TotalMoves))
	if state.Message != "" {
		b.WriteString(state.Message + "\n")
	}
	b.WriteString("\n")

	for y := 0; y < state.BoardSize; y++ {
		for x := 0; x < state.BoardSize; x++ {
			cell := "."
			if state.Board[y][x] != 0 {
				cell = fmt.Sprintf("%d", state.Board[y][x])
			}
			if state.Knight != nil && state.Knight.X == x && state.Knight.Y == y {
				b.WriteString(fmt.Sprintf("[%2s]", cell))
			} else {
				b.WriteString(fmt.Sprintf(" %2s ", cell))
			}
		}
		b.WriteString("\n")
	}

	if state.Hints && state.Status == engine.StatusPlaying {
		moves := engine.ValidMoves(state, state.Knight)
		if state.Knight != nil {
			b.WriteString("\n" + formatPositions("Hints", moves))
		}
	}

	return b.String()
}

func formatPositions(label string, positions []engine.Position) string {
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(parts, " "))
}
