package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/maze-engine/api"
	"github.com/wricardo/maze-engine/game/service"
	"github.com/wricardo/maze-engine/transport/mcp"
	"github.com/wricardo/maze-engine/transport/websocket"
)

// mazeServer is the HTTP surface of the engine: REST API and replay WebSocket at
// the root, plus an /mcp bridge whose tools call back into that API at baseURL.
type mazeServer struct {
	api     *api.Server
	handler http.Handler
}

func newMazeServer(mazeService service.MazeService, baseURL string) *mazeServer {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(mazeService, hub)
	mcpClient := mcp.NewClient(baseURL)

	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.Handle("/mcp", mcpHTTPHandler(mcpClient.GetMCPServer()))

	return &mazeServer{api: apiServer, handler: mux}
}

// Close stops background replays started through the API
func (m *mazeServer) Close() {
	m.api.Close()
}

// mcpHTTPHandler answers one JSON-RPC message per POST
func mcpHTTPHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("[MCP] Failed to write response: %v", err)
		}
	}
}

// logEndpoints prints where each surface is reachable under base (http://host:port or a tunnel URL)
func logEndpoints(base string) {
	wsBase := "ws" + base[len("http"):]
	log.Printf("  Create maze:  POST %s/api/mazes", base)
	log.Printf("  Watch replay: %s/ws?maze=<maze_id>", wsBase)
	log.Printf("  Metrics:      %s/metrics", base)
	log.Printf("  MCP:          POST %s/mcp", base)
}

// runHTTPServer serves the maze engine on addr, and through a tunnel when
// settings enable one, until SIGINT or SIGTERM.
func runHTTPServer(mazeService service.MazeService, addr string, tunnel tunnelSettings) {
	srv := newMazeServer(mazeService, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Maze engine listening on %s", addr)
		logEndpoints("http://" + addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if tunnel.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := serveTunnel(ctx, tunnel, srv.handler, func(url string) {
				log.Printf("Ngrok tunnel established: %s", url)
				logEndpoints(url)
			})
			if err != nil {
				log.Printf("Ngrok tunnel: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down maze engine...")
	srv.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}
