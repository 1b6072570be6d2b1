package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/navalbattle/game/commit"
	"github.com/wricardo/mcp-training/navalbattle/game/engine"
	"github.com/wricardo/mcp-training/navalbattle/game/service"
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
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
		"Naval Battle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Naval Battle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Sink the whole hidden enemy fleet before the enemy sinks yours.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Both boards as ASCII grids
- fire: Shoot at a target cell (index, label like B7, or x/y) - requires intent explanation
- restart_game: New random layouts for both fleets
- quit_game: Close the match
- shot_history: View past shots of both sides
- list_configs: List available configurations
- game_instructions: Rules, fleet table and strategy hints
- verify_layout: After the game, check the revealed enemy layout against its commitment

NOTE: The 'intent' parameter on fire serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Match operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current match state with both boards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fire",
		Description: "Shoot at a cell of the enemy board. A hit lets you fire again; a miss hands the turn to the enemy, whose shots are resolved before this returns.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"cell": map[string]interface{}{
					"type":        "string",
					"description": "Cell label: column letter then row number, e.g. B7",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Row-major cell index, alternative to cell",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column, used with y",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row, used with x",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why this cell (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleFire)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Restart the match with new random layouts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "quit_game",
		Description: "Close the match; later commands on it are rejected",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleQuit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "shot_history",
		Description: "Get the shot history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Shots per page (default 20, max 100)",
				},
				"shooter": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"player", "opponent"},
					"description": "Only shots of one side",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleShotHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available match configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, the fleet table and strategy hints",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session whose fleet table to show (optional)",
				},
			},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "verify_layout",
		Description: "After game over, verify that the revealed enemy layout and every shot result match the commitment published at match start",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleVerifyLayout)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)
	if configID == "" {
		configID, _ = args["config_name"].(string)
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		phase := "unknown"
		if s.GameState != nil {
			phase = string(s.GameState.Phase)
		}
		result += fmt.Sprintf("- %s (Config: %s, Phase: %s, Created: %s)\n",
			s.ID, s.ConfigName, phase, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.MatchState
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleFire(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	body := map[string]interface{}{}
	if cell, ok := args["cell"].(string); ok && cell != "" {
		body["cell"] = cell
	} else if index, ok := args["index"].(float64); ok {
		body["index"] = int(index)
	} else {
		x, okX := args["x"].(float64)
		y, okY := args["y"].(float64)
		if !okX || !okY {
			return mcp.NewToolResultError("one of cell, index or x/y is required"), nil
		}
		body["x"], body["y"] = int(x), int(y)
	}

	log.Debug("mcp fire", "session", sessionID, "target", body, "intent", intent)

	var result service.FireResult
	err := c.apiCall("POST", sessionPath(sessionID, "/fire"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFireResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.CommandResult
	err := c.apiCall("POST", sessionPath(sessionID, "/restart"), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Match restarted. %s\n\n%s", result.Message, formatGameState(result.GameState))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleQuit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.CommandResult
	err := c.apiCall("POST", sessionPath(sessionID, "/quit"), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s: %s", sessionID, result.Message)), nil
}

func (c *Client) handleShotHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if shooter, ok := args["shooter"].(string); ok && shooter != "" {
		params.Set("shooter", shooter)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Ships: %d, Fleet cells: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Columns, config.Rows, config.Ships, config.FleetCells)
	}

	return mcp.NewToolResultText(result), nil
}

const strategyHints = `STRATEGY HINTS:
• Hunt: while nothing is wounded, spread shots in a checkerboard; every ship
  longer than one cell covers both colors.
• Target: after a hit, probe the four orthogonal neighbors. Once two hits line
  up, keep shooting along that line in both directions.
• Diagonal cells of a hit can never hold a ship; they are already marked and
  cannot be selected.
• Cells around a sunk ship are water. Skip them.
• The enemy follows the same target logic after hitting your ships.

BOARD LEGEND (game_state):
  Your board:   # ship   X hit   . miss   ~ water
  Enemy board:  ? open   X hit   . miss   - ruled out   o revealed ship`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	path := "/api/help"
	if sessionID != "" {
		path += "?session=" + url.QueryEscape(sessionID)
	}

	var response struct {
		Help string `json:"help"`
	}
	help := engine.Help(nil)
	if err := c.apiCall("GET", path, nil, &response); err == nil && response.Help != "" {
		help = response.Help
	}

	text := "Naval Battle - Complete Instructions\n\n" + help + "\n\n" + strategyHints +
		"\n\nFIRING:\n  fire with cell=\"B7\", or index=71, or x=1 y=7 (row-major, rows counted from 0).\n\nGood hunting, captain!"
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleVerifyLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.MatchState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := verifyState(&state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

// verifyState checks the revealed enemy fleet and the player shot proofs against the commitment
func verifyState(state *engine.MatchState) (string, error) {
	if state.Commitment == nil || state.Commitment.Salt == "" || state.TargetFleet == nil {
		return "", fmt.Errorf("layout is revealed only after game over (phase: %s)", state.Phase)
	}

	occupancy := make([]uint8, state.Columns*state.Rows)
	for _, ship := range state.TargetFleet {
		for _, cell := range ship.Cells {
			if cell >= 0 && cell < len(occupancy) {
				occupancy[cell] = 1
			}
		}
	}

	ok, err := commit.Verify(occupancy, state.Commitment.Salt, state.Commitment.Root)
	if err != nil {
		return "", fmt.Errorf("verify layout: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Commitment root: %s\nSalt: %s\n", state.Commitment.Root, state.Commitment.Salt)
	if ok {
		b.WriteString("Revealed enemy layout: MATCHES the commitment\n")
	} else {
		b.WriteString("Revealed enemy layout: DOES NOT MATCH the commitment\n")
	}

	checked, failed := 0, 0
	for _, shot := range state.ShotHistory {
		if shot.Shooter != engine.PlayerSide || shot.Proof == nil {
			continue
		}
		checked++
		valid, err := commit.VerifyOpening(shot.Proof, state.Commitment.Salt, state.Commitment.Root)
		if err != nil || !valid {
			failed++
			fmt.Fprintf(&b, "  shot %d at %s: proof invalid\n", shot.Number, shot.Label)
		}
	}
	fmt.Fprintf(&b, "Shot proofs checked: %d, failed: %d\n", checked, failed)
	return b.String(), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// playerGrid renders the human board: ships visible
func playerGrid(state *engine.MatchState) []string {
	ships := make(map[int]bool)
	for _, ship := range state.PlayerFleet {
		for _, cell := range ship.Cells {
			ships[cell] = true
		}
	}

	rows := make([]string, state.Rows)
	for y := 0; y < state.Rows; y++ {
		var row strings.Builder
		for x := 0; x < state.Columns; x++ {
			i := y*state.Columns + x
			switch {
			case i < len(state.PlayerBoard) && state.PlayerBoard[i] == engine.Hit:
				row.WriteString("X")
			case i < len(state.PlayerBoard) && state.PlayerBoard[i] == engine.Miss:
				row.WriteString(".")
			case ships[i]:
				row.WriteString("#")
			default:
				row.WriteString("~")
			}
		}
		rows[y] = row.String()
	}
	return rows
}

// targetGrid renders the enemy board: only what the player knows
func targetGrid(state *engine.MatchState) []string {
	revealed := make(map[int]bool)
	for _, ship := range state.TargetFleet {
		for _, cell := range ship.Cells {
			revealed[cell] = true
		}
	}

	rows := make([]string, state.Rows)
	for y := 0; y < state.Rows; y++ {
		var row strings.Builder
		for x := 0; x < state.Columns; x++ {
			i := y*state.Columns + x
			switch {
			case i < len(state.TargetBoard) && state.TargetBoard[i] == engine.Hit:
				row.WriteString("X")
			case i < len(state.TargetBoard) && state.TargetBoard[i] == engine.Miss:
				row.WriteString(".")
			case revealed[i]:
				row.WriteString("o")
			case i < len(state.InputEnabled) && !state.InputEnabled[i] && state.Phase != engine.GameOver && state.Phase != engine.Closed:
				row.WriteString("-")
			default:
				row.WriteString("?")
			}
		}
		rows[y] = row.String()
	}
	return rows
}

func columnHeader(columns int) string {
	const marks = "ABCDEFGHIJKLMNOPQRST"
	if columns > len(marks) {
		columns = len(marks)
	}
	return marks[:columns]
}

func formatGameState(state *engine.MatchState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Phase: %s | Shots: %d | Your hits: %d | Enemy hits: %d\n\n",
		state.Phase, state.PlayerShots, state.PlayerHits, state.OpponentHits))

	header := columnHeader(state.Columns)
	pad := strings.Repeat(" ", state.Columns-len(header))
	result.WriteString(fmt.Sprintf("    %-*s    %s\n", state.Columns, "YOURS", "ENEMY"))
	result.WriteString(fmt.Sprintf("    %s%s    %s\n", header, pad, header))

	mine, theirs := playerGrid(state), targetGrid(state)
	for y := 0; y < state.Rows; y++ {
		result.WriteString(fmt.Sprintf("%3d %s    %s\n", y, mine[y], theirs[y]))
	}

	if len(state.PlayerFleet) > 0 {
		sunk := 0
		for _, ship := range state.PlayerFleet {
			if ship.Sunk {
				sunk++
			}
		}
		result.WriteString(fmt.Sprintf("\nYour fleet: %d/%d ships afloat\n", len(state.PlayerFleet)-sunk, len(state.PlayerFleet)))
	}

	switch state.Phase {
	case engine.GameOver:
		if state.Winner == engine.PlayerSide {
			result.WriteString("\n🎉 VICTORY!")
		} else {
			result.WriteString("\n💀 DEFEAT")
		}
	case engine.Closed:
		result.WriteString("\nMatch closed")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatShot(shot engine.ShotRecord) string {
	s := fmt.Sprintf("%s %s", shot.Label, strings.ToUpper(string(shot.Result)))
	if shot.Sunk {
		s += " (sunk)"
	}
	return s
}

func formatFireResult(result *service.FireResult) string {
	var b strings.Builder

	if !result.Accepted {
		fmt.Fprintf(&b, "✗ Shot at %s rejected: %s\n", result.Cell, result.Message)
		return b.String()
	}

	if result.Turn != nil {
		fmt.Fprintf(&b, "Your shot: %s\n", formatShot(result.Turn.PlayerShot))
		if len(result.Turn.OpponentShots) > 0 {
			shots := make([]string, 0, len(result.Turn.OpponentShots))
			for _, shot := range result.Turn.OpponentShots {
				shots = append(shots, formatShot(shot))
			}
			fmt.Fprintf(&b, "Enemy shots: %s\n", strings.Join(shots, ", "))
		}
	}
	if result.GameOver {
		fmt.Fprintf(&b, "GAME OVER - winner: %s\n", result.Winner)
	}
	fmt.Fprintf(&b, "%s\n\n%s", result.Message, formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Shot History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalShots)

	for _, shot := range history.Shots {
		result += fmt.Sprintf("%d. %-8s %s\n", shot.Number, shot.Shooter, formatShot(shot))
	}

	if len(history.Shots) == 0 {
		result += "(no shots yet)\n"
	}
	return result
}
