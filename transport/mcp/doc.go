// Package mcp exposes the maze engine to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API (see package api), and the JSON response is formatted as text.
//
// MCP Tools:
//   - create_maze: Generate a maze from a preset with optional size/seed/strategy overrides
//   - get_maze: Maze parameters plus an ASCII drawing
//   - list_mazes: All mazes held by the server
//   - delete_maze: Remove a maze
//   - solve_maze: Direction sequence from the root to the target
//   - trace_maze: Paginated solver steps (advance and backtrack)
//   - render_maze: ASCII drawing, optionally with the solution marked
//   - check_path: Walk a caller-supplied move list from the root
//   - list_presets: Available presets
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
