package service

import (
	"time"

	"github.com/wricardo/maze-engine/game/maze"
)

// CreateMazeRequest describes a maze to generate. Zero fields fall back to the preset.
type CreateMazeRequest struct {
	Preset   string        `json:"preset,omitempty"`
	Size     int           `json:"size,omitempty"`
	Seed     *int64        `json:"seed,omitempty"`
	Strategy maze.Strategy `json:"strategy,omitempty"`
}

// MazeParams are the fully resolved generation inputs; together they reproduce the maze exactly
type MazeParams struct {
	Preset   string        `json:"preset"`
	Size     int           `json:"size"`
	Seed     int64         `json:"seed"`
	Strategy maze.Strategy `json:"strategy"`
}

// MazeInfo provides information about a maze session
type MazeInfo struct {
	ID             string     `json:"id"`
	Params         MazeParams `json:"params"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	Solved         bool       `json:"solved"`
	Grid           *maze.Grid `json:"grid,omitempty"`
}

// SolveResult contains the solution of a maze
type SolveResult struct {
	MazeID       string           `json:"maze_id"`
	Path         []maze.Direction `json:"path"`
	Length       int              `json:"length"`
	TreeDistance int              `json:"tree_distance"`
	Steps        int              `json:"steps"`
	Backtracks   int              `json:"backtracks"`
	ElapsedMs    float64          `json:"elapsed_ms"`
	Cached       bool             `json:"cached"`
}

// PathCheck reports whether a caller's move list follows the maze from the root
type PathCheck struct {
	MazeID        string        `json:"maze_id"`
	Moves         int           `json:"moves"`
	Valid         bool          `json:"valid"`
	ReachedTarget bool          `json:"reached_target"`
	End           maze.Position `json:"end"`
	Error         string        `json:"error,omitempty"`
}

// TraceOptions configures trace pagination
type TraceOptions struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TraceResponse contains a page of solver steps
type TraceResponse struct {
	MazeID      string      `json:"maze_id"`
	Steps       []maze.Step `json:"steps"`
	TotalSteps  int         `json:"total_steps"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	TotalPages  int         `json:"total_pages"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
}

// PresetInfo provides information about a maze preset
type PresetInfo struct {
	Filename    string        `json:"filename"`
	PresetID    string        `json:"preset_id"` // The identifier to use for maze creation
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Size        int           `json:"size"`
	Seed        *int64        `json:"seed,omitempty"`
	Strategy    maze.Strategy `json:"strategy"`
}
