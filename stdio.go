package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/maze-engine/api"
	"github.com/wricardo/maze-engine/game/service"
	"github.com/wricardo/maze-engine/transport/mcp"
)

// defaultAPIURL is where a separately started maze-engine server listens
const defaultAPIURL = "http://localhost:8080"

// mazeAPIHealthy reports whether baseURL answers /health as a maze engine does
func mazeAPIHealthy(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Status == "healthy"
}

// startLoopbackAPI serves the REST API on a random 127.0.0.1 port without a
// WebSocket hub and returns its base URL plus a shutdown func.
func startLoopbackAPI(mazeService service.MazeService) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to reserve loopback port: %w", err)
	}

	apiServer := api.NewServer(mazeService, nil)
	httpServer := &http.Server{Handler: apiServer}

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Loopback API error: %v", err)
		}
	}()

	shutdown := func() {
		apiServer.Close()
		httpServer.Close()
	}
	return "http://" + listener.Addr().String(), shutdown, nil
}

// runStdioMCP speaks MCP on stdin/stdout. The tools call a running maze engine
// when one answers at defaultAPIURL, otherwise a loopback API over mazeService.
func runStdioMCP(mazeService service.MazeService) {
	baseURL := defaultAPIURL
	if mazeAPIHealthy(&http.Client{Timeout: 2 * time.Second}, baseURL) {
		log.Printf("MCP tools will use the maze engine at %s", baseURL)
	} else {
		url, shutdown, err := startLoopbackAPI(mazeService)
		if err != nil {
			log.Fatalf("Failed to start loopback API: %v", err)
		}
		defer shutdown()
		baseURL = url
		log.Printf("MCP tools will use a loopback API at %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
