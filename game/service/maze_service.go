package service

import (
	"context"
	"time"

	"github.com/wricardo/maze-engine/game/maze"
)

// MazeService defines all maze-related operations
type MazeService interface {
	// Maze Management
	CreateMaze(ctx context.Context, req CreateMazeRequest) (*MazeInfo, error)
	GetMaze(ctx context.Context, mazeID string) (*MazeInfo, error)
	ListMazes(ctx context.Context) ([]*MazeInfo, error)
	DeleteMaze(ctx context.Context, mazeID string) error
	PruneExpired(ctx context.Context, maxAge time.Duration) int

	// Solving
	Solve(ctx context.Context, mazeID string) (*SolveResult, error)
	Trace(ctx context.Context, mazeID string, opts TraceOptions) (*TraceResponse, error)
	Render(ctx context.Context, mazeID string, withPath bool) (string, error)
	Replay(ctx context.Context, mazeID string, interval time.Duration, sink StepSink) (int, error)
	CheckPath(ctx context.Context, mazeID string, moves []string) (*PathCheck, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*maze.Preset, error)
	SavePreset(ctx context.Context, name string, preset *maze.Preset) error
}

// SessionManager defines maze session storage operations
type SessionManager interface {
	Create(id string, params MazeParams) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) int
}

// PresetManager handles maze preset loading
type PresetManager interface {
	LoadPreset(name string) (*maze.Preset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *maze.Preset
	SavePreset(name string, preset *maze.Preset) error
}

// StepSink receives solver steps during a replay. Each call blocks until the
// message is queued or ctx is done.
type StepSink interface {
	BroadcastStep(ctx context.Context, mazeID string, step maze.Step) error
	BroadcastSolution(ctx context.Context, mazeID string, result *SolveResult) error
	// BroadcastReplay delivers every step and the solution as one message
	BroadcastReplay(ctx context.Context, mazeID string, steps []maze.Step, result *SolveResult) error
}

// Session represents a generated maze held in memory
type Session struct {
	ID             string
	Grid           *maze.Grid
	Params         MazeParams
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// Solution is filled on the first solve and reused afterwards
	Solution *Solution
}

// Solution is the cached outcome of running the solver over a session's grid
type Solution struct {
	Path    []maze.Direction
	Steps   []maze.Step
	Elapsed time.Duration
}
