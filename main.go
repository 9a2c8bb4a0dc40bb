// Command maze-engine serves maze generation and solving over HTTP, WebSocket and MCP.
//
// Modes:
//   - server (default): REST API, replay WebSocket, Prometheus metrics and an /mcp endpoint
//   - stdio-mcp: MCP over stdio, backed by a running server or an internal loopback API
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wricardo/maze-engine/game/config"
	"github.com/wricardo/maze-engine/game/service"
	"github.com/wricardo/maze-engine/game/session"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Engine Server"

	// sessionRetention is how long an untouched maze is kept in memory
	sessionRetention = 24 * time.Hour
	pruneInterval    = time.Hour
)

var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	presetDir    = flag.String("preset-dir", getPresetDirDefault(), "Directory containing maze presets")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Expose the server through an ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Reserved ngrok domain (optional)")
)

// getPresetDirDefault honors PRESET_DIR and falls back to "configs"
func getPresetDirDefault() string {
	if dir := os.Getenv("PRESET_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCreate a maze once the server is up:\n")
		fmt.Fprintf(os.Stderr, "  curl -X POST localhost:8080/api/mazes -d '{\"size\": 12, \"seed\": 42}'\n")
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	mode := "server"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}

	mazeService, _, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	log.Printf("Starting %s v%s (mode: %s, %s)", AppName, Version, mode, describePresets(mazeService))

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(mazeService)
	case "server", "http":
		addr := fmt.Sprintf("%s:%d", *host, *port)
		runHTTPServer(mazeService, addr, resolveTunnelSettings(*ngrokEnabled, *ngrokAuth, *ngrokDomain, os.Getenv))
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// initializeServices wires the session and preset managers into the maze service
// and starts pruning mazes nobody has touched within sessionRetention.
func initializeServices() (service.MazeService, *session.Manager, error) {
	presetManager, err := config.NewManager(*presetDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create preset manager: %w", err)
	}

	sessionManager := session.NewManager()
	mazeService := service.NewMazeService(sessionManager, presetManager)

	go pruneLoop(context.Background(), mazeService, pruneInterval, sessionRetention)

	return mazeService, sessionManager, nil
}

// pruneLoop removes expired mazes every interval until ctx is done
func pruneLoop(ctx context.Context, mazeService service.MazeService, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := mazeService.PruneExpired(ctx, maxAge); removed > 0 {
				log.Printf("[PRUNE] Removed %d mazes idle for over %s", removed, maxAge)
			}
		}
	}
}

// describePresets summarizes the preset directory for the startup log
func describePresets(mazeService service.MazeService) string {
	presets, err := mazeService.ListPresets(context.Background())
	if err != nil {
		return fmt.Sprintf("presets unavailable: %v", err)
	}
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.PresetID
	}
	return fmt.Sprintf("%d presets: %s", len(presets), strings.Join(ids, ", "))
}
