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

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/maze-engine/game/maze"
	"github.com/wricardo/maze-engine/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Engine",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Engine - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Mazes are square grids whose passages form a spanning tree rooted at the top-left
cell (row 0, col 0). The target is the bottom-right cell. Exactly one path connects them.

AVAILABLE TOOLS:
- create_maze: Generate a maze (preset, size, seed, strategy). The seed is always reported back.
- get_maze: Maze parameters and an ASCII drawing
- list_mazes: All mazes held by the server
- delete_maze: Remove a maze
- solve_maze: Solve by depth-first search; returns the direction list
- trace_maze: The solver's advance/backtrack steps, paginated
- render_maze: ASCII drawing, optionally with the solution marked
- check_path: Walk your own list of moves from the root and see where it ends
- list_presets: Available presets

Directions are north/south/west/east (aliases up/down/left/right).`),
	)

	c.registerTools()
}

func mazeIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Maze ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Maze management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_maze",
		Description: "Generate a new maze. Unset fields fall back to the preset (or the default preset).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset name (optional)",
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"minimum":     maze.MinSize,
					"maximum":     maze.MaxSize,
					"description": "Side length n of the n x n grid (optional)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Random seed; the same seed and size reproduce the same maze (optional)",
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(maze.StackBacktrack), string(maze.NeighborScan)},
					"description": "Generation strategy (optional)",
				},
			},
		},
	}, c.handleCreateMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_mazes",
		Description: "List all mazes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMazes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_maze",
		Description: "Get a maze's parameters and ASCII drawing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
			},
			Required: []string{"maze_id"},
		},
	}, c.handleGetMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_maze",
		Description: "Delete a maze",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
			},
			Required: []string{"maze_id"},
		},
	}, c.handleDeleteMaze)

	// Solving
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_maze",
		Description: "Solve a maze and return the direction sequence from (0,0) to the bottom-right cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
			},
			Required: []string{"maze_id"},
		},
	}, c.handleSolveMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "trace_maze",
		Description: "Show the solver's steps (advances and backtracks) one page at a time",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Steps per page (default 50)",
				},
			},
			Required: []string{"maze_id"},
		},
	}, c.handleTraceMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_maze",
		Description: "Draw the maze as ASCII art",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
				"show_path": map[string]interface{}{
					"type":        "boolean",
					"description": "Mark the solution path with *",
				},
			},
			Required: []string{"maze_id"},
		},
	}, c.handleRenderMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_path",
		Description: "Walk a list of moves from the root and report where it ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"maze_id": mazeIDSchema(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"north", "south", "west", "east", "up", "down", "left", "right"},
					},
					"description": "Array of moves",
				},
			},
			Required: []string{"maze_id", "moves"},
		},
	}, c.handleCheckPath)

	// Presets
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available maze presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return resp, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) apiText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func mazePath(mazeID string, suffix string) string {
	return "/api/mazes/" + url.PathEscape(mazeID) + suffix
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// requireMazeID extracts maze_id or produces the tool error to return
func requireMazeID(args map[string]interface{}) (string, *mcp.CallToolResult) {
	mazeID, _ := args["maze_id"].(string)
	if mazeID == "" {
		return "", mcp.NewToolResultError("maze_id is required")
	}
	return mazeID, nil
}

// Tool handlers

func (c *Client) handleCreateMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if preset, _ := args["preset"].(string); preset != "" {
		body["preset"] = preset
	}
	if size, ok := args["size"].(float64); ok {
		body["size"] = int(size)
	}
	if seed, ok := args["seed"].(float64); ok {
		body["seed"] = int64(seed)
	}
	if strategy, _ := args["strategy"].(string); strategy != "" {
		body["strategy"] = strategy
	}

	var info service.MazeInfo
	if err := c.apiCall(ctx, "POST", "/api/mazes", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created maze: %s\n%s", info.ID, formatParams(info.Params))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListMazes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Mazes []service.MazeInfo `json:"mazes"`
	}

	if err := c.apiCall(ctx, "GET", "/api/mazes", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mazes (%d):\n\n", response.Count)
	for _, m := range response.Mazes {
		solved := ""
		if m.Solved {
			solved = ", solved"
		}
		fmt.Fprintf(&b, "- %s (%dx%d, seed %d, %s%s, created %s)\n",
			m.ID, m.Params.Size, m.Params.Size, m.Params.Seed, m.Params.Strategy, solved,
			m.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mazeID, errResult := requireMazeID(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var info service.MazeInfo
	if err := c.apiCall(ctx, "GET", mazePath(mazeID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMazeInfo(&info)), nil
}

func (c *Client) handleDeleteMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mazeID, errResult := requireMazeID(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", mazePath(mazeID, ""), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleSolveMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mazeID, errResult := requireMazeID(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var result service.SolveResult
	if err := c.apiCall(ctx, "POST", mazePath(mazeID, "/solve"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleTraceMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mazeID, errResult := requireMazeID(args)
	if errResult != nil {
		return errResult, nil
	}

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var trace service.TraceResponse
	if err := c.apiCall(ctx, "GET", mazePath(mazeID, "/trace"+params), nil, &trace); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTrace(&trace)), nil
}

func (c *Client) handleRenderMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mazeID, errResult := requireMazeID(args)
	if errResult != nil {
		return errResult, nil
	}
	showPath, _ := args["show_path"].(bool)

	drawing, err := c.apiText(ctx, mazePath(mazeID, fmt.Sprintf("/render?path=%t", showPath)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(drawing), nil
}

func (c *Client) handleCheckPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mazeID, errResult := requireMazeID(args)
	if errResult != nil {
		return errResult, nil
	}
	movesRaw, _ := args["moves"].([]interface{})

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	var check service.PathCheck
	body := map[string]interface{}{"moves": moves}
	if err := c.apiCall(ctx, "POST", mazePath(mazeID, "/check"), body, &check); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPathCheck(&check)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, p := range presets {
		seed := "random"
		if p.Seed != nil {
			seed = fmt.Sprintf("%d", *p.Seed)
		}
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Seed: %s, Strategy: %s\n\n",
			p.PresetID, p.Name, p.Description, p.Size, p.Size, seed, p.Strategy)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatParams(p service.MazeParams) string {
	preset := p.Preset
	if preset == "" {
		preset = "(none)"
	}
	return fmt.Sprintf("Preset: %s\nSize: %dx%d\nSeed: %d\nStrategy: %s\n",
		preset, p.Size, p.Size, p.Seed, p.Strategy)
}

func formatMazeInfo(info *service.MazeInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Maze: %s\n", info.ID)
	b.WriteString(formatParams(info.Params))
	fmt.Fprintf(&b, "Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Solved: %t\n", info.Solved)
	if info.Grid != nil {
		b.WriteString("\n")
		b.WriteString(maze.Render(info.Grid, nil))
	}
	return b.String()
}

func formatDirections(path []maze.Direction) string {
	names := make([]string, len(path))
	for i, d := range path {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func formatSolveResult(result *service.SolveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Solved maze %s", result.MazeID)
	if result.Cached {
		b.WriteString(" (cached)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Path length: %d (tree distance %d)\n", result.Length, result.TreeDistance)
	fmt.Fprintf(&b, "Solver steps: %d, backtracks: %d, %.3fms\n", result.Steps, result.Backtracks, result.ElapsedMs)
	fmt.Fprintf(&b, "Directions: %s\n", formatDirections(result.Path))
	return b.String()
}

func formatStep(step maze.Step) string {
	if step.Kind == maze.StepBacktrack && step.Fork != nil {
		return fmt.Sprintf("%d. backtrack from %s to fork %s (unwound %d), then %s to %s",
			step.Index+1, step.From, *step.Fork, step.Unwound, step.Direction, step.To)
	}
	return fmt.Sprintf("%d. %s %s -> %s", step.Index+1, step.Direction, step.From, step.To)
}

func formatTrace(trace *service.TraceResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Solver Trace for %s (Page %d/%d), Total steps: %d\n\n",
		trace.MazeID, trace.Page, trace.TotalPages, trace.TotalSteps)
	if len(trace.Steps) == 0 {
		b.WriteString("(no steps on this page)\n")
		return b.String()
	}
	for _, step := range trace.Steps {
		b.WriteString(formatStep(step))
		b.WriteString("\n")
	}
	if trace.HasNext {
		fmt.Fprintf(&b, "\nMore steps on page %d\n", trace.Page+1)
	}
	return b.String()
}

func formatPathCheck(check *service.PathCheck) string {
	switch {
	case !check.Valid:
		return fmt.Sprintf("✗ Invalid path (%d moves), stopped at %s: %s", check.Moves, check.End, check.Error)
	case check.ReachedTarget:
		return fmt.Sprintf("✓ Reached the target %s in %d moves", check.End, check.Moves)
	default:
		return fmt.Sprintf("✓ Path is valid so far (%d moves), ended at %s; target not reached", check.Moves, check.End)
	}
}
