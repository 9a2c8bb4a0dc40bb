package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-engine/api"
	"github.com/wricardo/maze-engine/game/config"
	"github.com/wricardo/maze-engine/game/maze"
	"github.com/wricardo/maze-engine/game/service"
	"github.com/wricardo/maze-engine/game/session"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content in result")
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "m-1"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	require.NoError(t, client.apiCall(context.Background(), "GET", "/api/mazes/m-1", nil, &response))
	assert.Equal(t, "m-1", response["id"])
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api/mazes", nil, nil)
	assert.Error(t, err)
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/mazes", nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API error: 500")
	})

	t.Run("json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "maze abc: maze not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/mazes/abc", nil, nil)
		require.Error(t, err)
		assert.Equal(t, "maze abc: maze not found", err.Error())
	})
}

func TestClient_handleCreateMaze(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/mazes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(service.MazeInfo{
			ID:     "abc12345",
			Params: service.MazeParams{Preset: "tiny", Size: 7, Seed: 99, Strategy: maze.NeighborScan},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateMaze(context.Background(), callTool("create_maze", map[string]interface{}{
		"preset":   "tiny",
		"size":     float64(7),
		"seed":     float64(99),
		"strategy": "scan",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Created maze: abc12345")
	assert.Contains(t, text, "Size: 7x7")
	assert.Contains(t, text, "Seed: 99")
	assert.Contains(t, text, "Strategy: scan")

	assert.Equal(t, "tiny", gotBody["preset"])
	assert.EqualValues(t, 7, gotBody["size"])
	assert.EqualValues(t, 99, gotBody["seed"])
	assert.Equal(t, "scan", gotBody["strategy"])
}

func TestClient_requiresMazeID(t *testing.T) {
	client := NewClient("http://localhost:0")
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"get_maze":    client.handleGetMaze,
		"delete_maze": client.handleDeleteMaze,
		"solve_maze":  client.handleSolveMaze,
		"trace_maze":  client.handleTraceMaze,
		"render_maze": client.handleRenderMaze,
		"check_path":  client.handleCheckPath,
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := handler(context.Background(), callTool(name, map[string]interface{}{}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Equal(t, "maze_id is required", resultText(t, result))
		})
	}
}

func TestClient_handleTraceMaze_QueryParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.TraceResponse{MazeID: "m-1", Page: 2, TotalPages: 2, Steps: []maze.Step{}})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleTraceMaze(context.Background(), callTool("trace_maze", map[string]interface{}{
		"maze_id": "m-1",
		"page":    float64(2),
		"limit":   float64(10),
	}))
	require.NoError(t, err)

	assert.Equal(t, "page=2&limit=10&", gotQuery)
	assert.Contains(t, resultText(t, result), "(no steps on this page)")
}

func TestFormatStep(t *testing.T) {
	fork := maze.Position{Row: 0, Col: 0}
	tests := []struct {
		name string
		step maze.Step
		want string
	}{
		{
			name: "advance",
			step: maze.Step{Index: 0, Kind: maze.StepAdvance, From: maze.Position{}, To: maze.Position{Row: 1}, Direction: maze.South},
			want: "1. south (0,0) -> (1,0)",
		},
		{
			name: "backtrack",
			step: maze.Step{
				Index:     2,
				Kind:      maze.StepBacktrack,
				From:      maze.Position{Row: 2, Col: 0},
				Fork:      &fork,
				To:        maze.Position{Row: 0, Col: 1},
				Direction: maze.East,
				Unwound:   1,
			},
			want: "3. backtrack from (2,0) to fork (0,0) (unwound 1), then east to (0,1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatStep(tt.step))
		})
	}
}

func TestFormatPathCheck(t *testing.T) {
	assert.Equal(t, "✓ Reached the target (1,1) in 2 moves",
		formatPathCheck(&service.PathCheck{Moves: 2, Valid: true, ReachedTarget: true, End: maze.Position{Row: 1, Col: 1}}))
	assert.Contains(t,
		formatPathCheck(&service.PathCheck{Moves: 1, Valid: true, End: maze.Position{Row: 1}}),
		"target not reached")
	assert.Contains(t,
		formatPathCheck(&service.PathCheck{Moves: 1, Valid: false, Error: "no edge"}),
		"✗ Invalid path")
}

// newAPIBackend runs the real REST API over in-memory sessions and a temporary preset directory
func newAPIBackend(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	preset := `{"name": "Tiny", "description": "Small fixed maze", "size": 4, "seed": 42, "strategy": "stack"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(preset), 0644))

	presets, err := config.NewManager(dir)
	require.NoError(t, err)

	svc := service.NewMazeService(session.NewManager(), presets)
	apiServer := api.NewServer(svc, nil)
	t.Cleanup(apiServer.Close)

	server := httptest.NewServer(apiServer)
	t.Cleanup(server.Close)
	return server
}

func TestClient_EndToEnd(t *testing.T) {
	backend := newAPIBackend(t)
	client := NewClient(backend.URL)
	ctx := context.Background()

	// Create from the preset
	result, err := client.handleCreateMaze(ctx, callTool("create_maze", map[string]interface{}{"preset": "tiny"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	text := resultText(t, result)
	require.True(t, strings.HasPrefix(text, "Created maze: "))
	mazeID := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(text, "Created maze: "), "\n", 2)[0])
	assert.Contains(t, text, "Seed: 42")

	// The maze appears in the listing
	result, err = client.handleListMazes(ctx, callTool("list_mazes", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), mazeID)

	// get_maze includes a drawing
	result, err = client.handleGetMaze(ctx, callTool("get_maze", map[string]interface{}{"maze_id": mazeID}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "+---+---+---+---+")

	// Solve, then check the returned path through check_path
	var solved service.SolveResult
	require.NoError(t, client.apiCall(ctx, "POST", mazePath(mazeID, "/solve"), nil, &solved))
	moves := make([]interface{}, len(solved.Path))
	for i, d := range solved.Path {
		moves[i] = d.String()
	}

	result, err = client.handleSolveMaze(ctx, callTool("solve_maze", map[string]interface{}{"maze_id": mazeID}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "(cached)")

	result, err = client.handleCheckPath(ctx, callTool("check_path", map[string]interface{}{
		"maze_id": mazeID,
		"moves":   moves,
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "✓ Reached the target (3,3)")

	// Trace and render
	result, err = client.handleTraceMaze(ctx, callTool("trace_maze", map[string]interface{}{"maze_id": mazeID}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Solver Trace for "+mazeID)

	result, err = client.handleRenderMaze(ctx, callTool("render_maze", map[string]interface{}{
		"maze_id":   mazeID,
		"show_path": true,
	}))
	require.NoError(t, err)
	drawing := resultText(t, result)
	assert.Contains(t, drawing, "S")
	assert.Contains(t, drawing, "E")

	// Presets
	result, err = client.handleListPresets(ctx, callTool("list_presets", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "• tiny (Tiny)")

	// Delete, then lookups fail
	result, err = client.handleDeleteMaze(ctx, callTool("delete_maze", map[string]interface{}{"maze_id": mazeID}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "deleted")

	result, err = client.handleGetMaze(ctx, callTool("get_maze", map[string]interface{}{"maze_id": mazeID}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "maze not found")
}

func TestClient_EndToEnd_Errors(t *testing.T) {
	backend := newAPIBackend(t)
	client := NewClient(backend.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := client.handleCreateMaze(ctx, callTool("create_maze", map[string]interface{}{"preset": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Available presets: tiny")

	result, err = client.handleCreateMaze(ctx, callTool("create_maze", map[string]interface{}{"size": float64(1)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
