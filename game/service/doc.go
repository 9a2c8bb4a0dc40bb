// Package service provides the business logic layer for the maze engine.
//
// The service package implements:
//   - Multi-maze session management
//   - Preset resolution with per-request overrides
//   - Cached solving, paginated solver traces, and ASCII rendering
//   - Step-by-step replay to a StepSink such as the WebSocket hub
//   - Prometheus metrics for generation and solving
//
// Core Interfaces:
//
// MazeService is the main service interface used by the transport layer.
// SessionManager stores generated mazes in memory.
// PresetManager loads and saves JSON maze presets.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the maze engine. Every maze records the size, seed, and strategy it was built
// from, so the same maze can always be regenerated.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	presetMgr, _ := config.NewManager("configs")
//	mazeService := service.NewMazeService(sessionMgr, presetMgr)
//
//	info, err := mazeService.CreateMaze(ctx, service.CreateMazeRequest{Preset: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := mazeService.Solve(ctx, info.ID)
package service
