package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/maze-engine/game/service"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Maze Engine Server", AppName)
}

func TestFlagDefaults(t *testing.T) {
	assert.True(t, *port > 0 && *port <= 65535, "invalid default port: %d", *port)
	assert.NotEmpty(t, *host)
	assert.NotEmpty(t, *presetDir)
}

func TestGetPresetDirDefault(t *testing.T) {
	t.Setenv("PRESET_DIR", "")
	assert.Equal(t, "configs", getPresetDirDefault())

	t.Setenv("PRESET_DIR", "/srv/presets")
	assert.Equal(t, "/srv/presets", getPresetDirDefault())
}

func withPresetDir(t *testing.T, dir string) {
	prev := *presetDir
	*presetDir = dir
	t.Cleanup(func() { *presetDir = prev })
}

func TestInitializeServices(t *testing.T) {
	withPresetDir(t, "configs")

	mazeService, sessions, err := initializeServices()
	require.NoError(t, err)
	require.NotNil(t, mazeService)

	ctx := context.Background()
	presets, err := mazeService.ListPresets(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.PresetID)
	}
	assert.ElementsMatch(t, []string{"classic", "large", "scan", "tiny"}, ids)

	// The shipped default preset drives an empty request
	info, err := mazeService.CreateMaze(ctx, service.CreateMazeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 25, info.Params.Size)
	assert.Equal(t, 1, sessions.Count())

	// tiny pins its seed, so two mazes from it are identical
	a, err := mazeService.CreateMaze(ctx, service.CreateMazeRequest{Preset: "tiny"})
	require.NoError(t, err)
	b, err := mazeService.CreateMaze(ctx, service.CreateMazeRequest{Preset: "tiny"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Grid, b.Grid)

	result, err := mazeService.Solve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, result.TreeDistance, result.Length)
}

func TestInitializeServices_InvalidPresetDir(t *testing.T) {
	withPresetDir(t, "/non/existent/path")

	_, _, err := initializeServices()
	assert.Error(t, err)
}

func TestPruneLoop(t *testing.T) {
	withPresetDir(t, "configs")
	mazeService, sessions, err := initializeServices()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err = mazeService.CreateMaze(ctx, service.CreateMazeRequest{Preset: "tiny"})
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Count())

	go pruneLoop(ctx, mazeService, 5*time.Millisecond, time.Nanosecond)

	assert.Eventually(t, func() bool { return sessions.Count() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestDescribePresets(t *testing.T) {
	withPresetDir(t, "configs")
	mazeService, _, err := initializeServices()
	require.NoError(t, err)

	summary := describePresets(mazeService)
	assert.True(t, strings.HasPrefix(summary, "4 presets: "), summary)
	assert.Contains(t, summary, "tiny")
}

func TestResolveTunnelSettings(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}

	tests := []struct {
		name    string
		enabled bool
		auth    string
		domain  string
		vars    map[string]string
		want    tunnelSettings
	}{
		{
			name: "disabled by default",
			want: tunnelSettings{},
		},
		{
			name:    "flags only",
			enabled: true,
			auth:    "flag-token",
			domain:  "maze.example.dev",
			want:    tunnelSettings{Enabled: true, AuthToken: "flag-token", Domain: "maze.example.dev"},
		},
		{
			name: "environment enables and configures",
			vars: map[string]string{"NGROK_ENABLED": "1", "NGROK_AUTHTOKEN": "env-token", "NGROK_DOMAIN": "env.example.dev"},
			want: tunnelSettings{Enabled: true, AuthToken: "env-token", Domain: "env.example.dev"},
		},
		{
			name: "underscore token spelling",
			vars: map[string]string{"NGROK_ENABLED": "true", "NGROK_AUTH_TOKEN": "alt-token"},
			want: tunnelSettings{Enabled: true, AuthToken: "alt-token"},
		},
		{
			name: "flag token wins over environment",
			auth: "flag-token",
			vars: map[string]string{"NGROK_ENABLED": "yes", "NGROK_AUTHTOKEN": "env-token"},
			want: tunnelSettings{AuthToken: "flag-token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveTunnelSettings(tt.enabled, tt.auth, tt.domain, env(tt.vars))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServeTunnelRequiresToken(t *testing.T) {
	err := serveTunnel(context.Background(), tunnelSettings{Enabled: true}, http.NotFoundHandler(), func(string) {
		t.Error("tunnel should not open without a token")
	})
	assert.ErrorIs(t, err, errNoTunnelToken)
}

func TestMazeServer(t *testing.T) {
	withPresetDir(t, "configs")
	mazeService, _, err := initializeServices()
	require.NoError(t, err)

	srv := newMazeServer(mazeService, "http://127.0.0.1:0")
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.handler)
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+"/api/mazes", "application/json", strings.NewReader(`{"preset": "tiny"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/mcp")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`
	resp, err = http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(initialize))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		ID     int `json:"id"`
		Result struct {
			ServerInfo struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, 1, reply.ID)
	assert.Equal(t, "Maze Engine", reply.Result.ServerInfo.Name)
}

func TestMazeAPIHealthy(t *testing.T) {
	client := &http.Client{Timeout: time.Second}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "maze engine",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "healthy"}`))
			},
			want: true,
		},
		{
			name: "unhealthy status code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
		},
		{
			name: "some other service",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>hello</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()
			assert.Equal(t, tt.want, mazeAPIHealthy(client, ts.URL))
		})
	}

	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	assert.False(t, mazeAPIHealthy(client, ts.URL), "closed server")
}

func TestStartLoopbackAPI(t *testing.T) {
	withPresetDir(t, "configs")
	mazeService, _, err := initializeServices()
	require.NoError(t, err)

	baseURL, shutdown, err := startLoopbackAPI(mazeService)
	require.NoError(t, err)
	defer shutdown()

	assert.True(t, strings.HasPrefix(baseURL, "http://127.0.0.1:"), baseURL)
	assert.Eventually(t, func() bool {
		return mazeAPIHealthy(&http.Client{Timeout: time.Second}, baseURL)
	}, time.Second, 10*time.Millisecond)
}
