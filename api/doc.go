// Package api provides the HTTP REST API for the maze engine.
//
// Endpoints:
//
// Mazes:
//   - POST /api/mazes - Generate a maze from a preset and optional overrides
//   - GET /api/mazes - List mazes (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/mazes/{id} - Get a maze and its grid
//   - DELETE /api/mazes/{id} - Delete a maze
//
// Solving:
//   - POST /api/mazes/{id}/solve - Solve the maze (cached after the first call)
//   - GET /api/mazes/{id}/trace - Solver steps with pagination (page, limit)
//   - GET /api/mazes/{id}/render - ASCII drawing; path=true marks the solution
//   - POST /api/mazes/{id}/replay - Stream solver steps to WebSocket subscribers
//   - POST /api/mazes/{id}/check - Walk a list of moves from the root
//
// Presets:
//   - GET /api/presets - List presets
//   - GET /api/presets/{name} - Get a preset
//   - POST /api/presets - Save a preset
//
// Other:
//   - GET /ws?maze={id} - WebSocket subscription to a maze's replay
//   - GET /metrics - Prometheus metrics
//   - GET /health - Liveness check
//
// Create request:
//
//	{
//	  "preset": "classic",
//	  "size": 25,
//	  "seed": 42,
//	  "strategy": "stack|scan"
//	}
//
// Replay request (interval_ms 0 sends every step in one frame before responding):
//
//	{"interval_ms": 100}
//
// Errors are returned as JSON with an HTTP status derived from the error:
// 400 for invalid input, 404 for unknown mazes or presets, 409 for conflicts.
//
//	{"error": "maze abc123: maze not found"}
package api
