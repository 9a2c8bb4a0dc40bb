package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/maze-engine/game/maze"
)

const (
	defaultTraceLimit = 50
	maxTraceLimit     = 500

	// ctx is polled once per this many solver steps
	cancelCheckEvery = 1024
)

// mazeServiceImpl implements the MazeService interface
type mazeServiceImpl struct {
	sessions SessionManager
	presets  PresetManager
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMazeService creates a new maze service instance
func NewMazeService(sessions SessionManager, presets PresetManager) MazeService {
	return &mazeServiceImpl{
		sessions: sessions,
		presets:  presets,
		now:      time.Now,
	}
}

// CreateMaze resolves the request against its preset and generates a new maze session
func (s *mazeServiceImpl) CreateMaze(ctx context.Context, req CreateMazeRequest) (*MazeInfo, error) {
	params, err := s.resolveParams(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	sess, err := s.sessions.Create("", params)
	if err != nil {
		return nil, fmt.Errorf("failed to create maze: %w", err)
	}

	strategy := string(params.Strategy)
	mazesGenerated.WithLabelValues(strategy).Inc()
	generationDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	s.recordActive()

	return newMazeInfo(sess, true), nil
}

// resolveParams fills request gaps from the named or default preset and picks a seed
func (s *mazeServiceImpl) resolveParams(req CreateMazeRequest) (MazeParams, error) {
	var preset *maze.Preset
	presetID := req.Preset
	if presetID != "" {
		loaded, err := s.presets.LoadPreset(presetID)
		if err != nil {
			if errors.Is(err, ErrPresetNotFound) {
				if available := s.presetIDs(); len(available) > 0 {
					return MazeParams{}, fmt.Errorf("%w: '%s'. Available presets: %s",
						ErrPresetNotFound, presetID, strings.Join(available, ", "))
				}
				return MazeParams{}, fmt.Errorf("%w: '%s'. Use /api/presets to list available presets",
					ErrPresetNotFound, presetID)
			}
			return MazeParams{}, fmt.Errorf("failed to load preset %s: %w", presetID, err)
		}
		preset = loaded
	} else {
		preset = s.presets.GetDefault()
		presetID = preset.Name
	}

	params := MazeParams{
		Preset:   presetID,
		Size:     preset.Size,
		Strategy: preset.Strategy,
	}
	if preset.Seed != nil {
		params.Seed = *preset.Seed
	} else {
		params.Seed = s.now().UnixNano()
	}

	if req.Size != 0 {
		params.Size = req.Size
	}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}
	if req.Strategy != "" {
		params.Strategy = req.Strategy
	}

	strategy, err := maze.ParseStrategy(string(params.Strategy))
	if err != nil {
		return MazeParams{}, err
	}
	params.Strategy = strategy

	if params.Size < maze.MinSize || params.Size > maze.MaxSize {
		return MazeParams{}, fmt.Errorf("%w: size must be between %d and %d, got %d",
			maze.ErrInvalidSize, maze.MinSize, maze.MaxSize, params.Size)
	}

	return params, nil
}

func (s *mazeServiceImpl) presetIDs() []string {
	presets, err := s.presets.ListPresets()
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.PresetID)
	}
	return ids
}

// GetMaze retrieves maze information including the grid
func (s *mazeServiceImpl) GetMaze(ctx context.Context, mazeID string) (*MazeInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(mazeID)
	if err != nil {
		return nil, err
	}
	return newMazeInfo(sess, true), nil
}

// ListMazes returns all mazes, oldest first, without their grids
func (s *mazeServiceImpl) ListMazes(ctx context.Context) ([]*MazeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*MazeInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, newMazeInfo(sess, false))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// DeleteMaze removes a maze session
func (s *mazeServiceImpl) DeleteMaze(ctx context.Context, mazeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(mazeID); err != nil {
		return fmt.Errorf("failed to delete maze %s: %w", mazeID, err)
	}
	s.recordActive()
	return nil
}

// PruneExpired drops mazes untouched for longer than maxAge and returns how many were removed
func (s *mazeServiceImpl) PruneExpired(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sessions.CleanupExpiredSessions(maxAge)
	s.recordActive()
	return removed
}

// recordActive syncs the active-maze gauge; callers hold the write lock
func (s *mazeServiceImpl) recordActive() {
	mazesActive.Set(float64(len(s.sessions.List())))
}

// Solve runs the solver once per maze and returns the cached result afterwards
func (s *mazeServiceImpl) Solve(ctx context.Context, mazeID string) (*SolveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(mazeID)
	if err != nil {
		return nil, err
	}

	cached := sess.Solution != nil
	if cached {
		solves.WithLabelValues("cached").Inc()
	} else if err := s.solve(ctx, sess); err != nil {
		return nil, err
	}

	return newSolveResult(sess, cached), nil
}

// Trace returns a page of the solver's step-by-step transitions
func (s *mazeServiceImpl) Trace(ctx context.Context, mazeID string, opts TraceOptions) (*TraceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(mazeID)
	if err != nil {
		return nil, err
	}
	if sess.Solution == nil {
		if err := s.solve(ctx, sess); err != nil {
			return nil, err
		}
	}

	all := sess.Solution.Steps
	total := len(all)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultTraceLimit
	}
	if opts.Limit > maxTraceLimit {
		opts.Limit = maxTraceLimit
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	// Pages past the end are empty; checked before multiplying so huge pages cannot overflow
	steps := []maze.Step{}
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}
		if start < total {
			steps = all[start:end]
		}
	}

	return &TraceResponse{
		MazeID:      sess.ID,
		Steps:       steps,
		TotalSteps:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// Render draws the maze as ASCII art, optionally with the solution marked
func (s *mazeServiceImpl) Render(ctx context.Context, mazeID string, withPath bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(mazeID)
	if err != nil {
		return "", err
	}
	if !withPath {
		return sess.Grid.String(), nil
	}

	if sess.Solution == nil {
		if err := s.solve(ctx, sess); err != nil {
			return "", err
		}
	}
	return maze.Render(sess.Grid, sess.Solution.Path), nil
}

// Replay sends each solver step to sink, waiting interval between steps, and
// finishes with the solution. A zero interval sends everything in one batch.
// It returns the number of steps sent.
func (s *mazeServiceImpl) Replay(ctx context.Context, mazeID string, interval time.Duration, sink StepSink) (int, error) {
	if sink == nil {
		return 0, fmt.Errorf("replay of maze %s requires a sink", mazeID)
	}

	s.mu.Lock()
	sess, err := s.lookup(mazeID)
	if err == nil && sess.Solution == nil {
		err = s.solve(ctx, sess)
	}
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	steps := sess.Solution.Steps
	result := newSolveResult(sess, true)
	s.mu.Unlock()

	// An instant replay is a single message so no subscriber sees a partial sequence
	if interval <= 0 {
		if err := sink.BroadcastReplay(ctx, sess.ID, steps, result); err != nil {
			return 0, err
		}
		return len(steps), nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, step := range steps {
		if err := sink.BroadcastStep(ctx, sess.ID, step); err != nil {
			return i, err
		}

		if i < len(steps)-1 {
			select {
			case <-ctx.Done():
				return i + 1, ctx.Err()
			case <-ticker.C:
			}
		}
	}

	if err := sink.BroadcastSolution(ctx, sess.ID, result); err != nil {
		return len(steps), err
	}
	return len(steps), nil
}

// CheckPath replays moves from the root and reports where they lead. A move that
// crosses a wall or leaves the grid makes the path invalid rather than failing the call.
func (s *mazeServiceImpl) CheckPath(ctx context.Context, mazeID string, moves []string) (*PathCheck, error) {
	dirs := make([]maze.Direction, 0, len(moves))
	for i, m := range moves {
		d, err := maze.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrInvalidMove, i, err)
		}
		dirs = append(dirs, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(mazeID)
	if err != nil {
		return nil, err
	}

	end, walkErr := maze.Walk(sess.Grid, dirs)
	check := &PathCheck{
		MazeID: sess.ID,
		Moves:  len(dirs),
		Valid:  walkErr == nil,
		End:    end,
	}
	if walkErr != nil {
		check.Error = walkErr.Error()
	}
	check.ReachedTarget = check.Valid && end == sess.Grid.Target()
	return check, nil
}

// ListPresets returns all available presets
func (s *mazeServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.presets.ListPresets()
}

// LoadPreset loads a specific preset
func (s *mazeServiceImpl) LoadPreset(ctx context.Context, name string) (*maze.Preset, error) {
	return s.presets.LoadPreset(name)
}

// SavePreset saves a preset to disk
func (s *mazeServiceImpl) SavePreset(ctx context.Context, name string, preset *maze.Preset) error {
	return s.presets.SavePreset(name, preset)
}

// lookup fetches a session and bumps its access time; callers hold the write lock
func (s *mazeServiceImpl) lookup(mazeID string) (*Session, error) {
	sess, err := s.sessions.Get(mazeID)
	if err != nil {
		return nil, fmt.Errorf("maze %s: %w", mazeID, err)
	}
	s.sessions.UpdateLastAccessed(mazeID)
	return sess, nil
}

// solve runs the solver over the session grid and caches path and steps on the session
func (s *mazeServiceImpl) solve(ctx context.Context, sess *Session) error {
	if sess.Grid == nil {
		solves.WithLabelValues("malformed").Inc()
		return fmt.Errorf("maze %s: %w: no grid", sess.ID, maze.ErrMalformedMaze)
	}

	start := time.Now()
	solver := maze.NewSolver(sess.Grid)
	var steps []maze.Step
	for !solver.Done() {
		if len(steps)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				solves.WithLabelValues("canceled").Inc()
				return err
			}
		}
		step, err := solver.Step()
		if err != nil {
			solves.WithLabelValues("malformed").Inc()
			return fmt.Errorf("failed to solve maze %s: %w", sess.ID, err)
		}
		steps = append(steps, step)
	}
	elapsed := time.Since(start)

	path := solver.Path()
	sess.Solution = &Solution{
		Path:    path,
		Steps:   steps,
		Elapsed: elapsed,
	}

	solves.WithLabelValues("solved").Inc()
	solveDuration.Observe(elapsed.Seconds())
	solvePathLength.Observe(float64(len(path)))
	return nil
}

func newMazeInfo(sess *Session, withGrid bool) *MazeInfo {
	info := &MazeInfo{
		ID:             sess.ID,
		Params:         sess.Params,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Solved:         sess.Solution != nil,
	}
	if withGrid {
		info.Grid = sess.Grid
	}
	return info
}

func newSolveResult(sess *Session, cached bool) *SolveResult {
	sol := sess.Solution
	backtracks := 0
	for _, step := range sol.Steps {
		if step.Kind == maze.StepBacktrack {
			backtracks++
		}
	}
	return &SolveResult{
		MazeID:       sess.ID,
		Path:         sol.Path,
		Length:       len(sol.Path),
		TreeDistance: maze.TreeDistance(sess.Grid),
		Steps:        len(sol.Steps),
		Backtracks:   backtracks,
		ElapsedMs:    float64(sol.Elapsed.Microseconds()) / 1000,
		Cached:       cached,
	}
}
