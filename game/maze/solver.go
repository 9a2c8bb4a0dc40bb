package maze

import "fmt"

// StepKind distinguishes the two solver transitions
type StepKind string

const (
	// StepAdvance follows the first untried child of the current cell
	StepAdvance StepKind = "advance"
	// StepBacktrack unwinds from a dead end to the nearest fork with an untried child and takes it
	StepBacktrack StepKind = "backtrack"
)

// Step records one solver transition. For a backtrack, From is the dead end,
// Fork is the cell the search resumed at and Unwound is the number of path
// entries discarded on the way back.
type Step struct {
	Index     int       `json:"index"`
	Kind      StepKind  `json:"kind"`
	From      Position  `json:"from"`
	Fork      *Position `json:"fork,omitempty"`
	To        Position  `json:"to"`
	Direction Direction `json:"direction"`
	Unwound   int       `json:"unwound,omitempty"`
}

// searchFrame is a fork the solver can still return to
type searchFrame struct {
	pos  Position
	next int // index of the next untried child
}

// pathEntry is a cell on the root→cursor walk and the direction taken out of it
type pathEntry struct {
	pos Position
	dir Direction
}

// Solver runs an iterative depth-first search from the root to the target of a Grid.
// It can be driven one Step at a time for interactive display, or run to completion by Solve.
type Solver struct {
	grid   *Grid
	cursor Position
	frames []searchFrame
	path   []pathEntry
	steps  int
	moves  int
	budget int
	err    error
}

// NewSolver prepares a search over g. The grid is only read.
func NewSolver(g *Grid) *Solver {
	return &Solver{
		grid:   g,
		cursor: g.Root(),
		budget: g.Size*g.Size - 1,
	}
}

// Cursor returns the cell the search is currently at
func (s *Solver) Cursor() Position {
	return s.cursor
}

// Done reports whether the cursor has reached the target
func (s *Solver) Done() bool {
	return s.cursor == s.grid.Target()
}

// Step performs one transition. Calling Step after Done returns an error.
func (s *Solver) Step() (Step, error) {
	if s.err != nil {
		return Step{}, s.err
	}
	if s.Done() {
		return Step{}, fmt.Errorf("maze: solver already reached target %s", s.grid.Target())
	}

	var step Step
	var err error
	cell := s.grid.Cell(s.cursor)
	if cell.Marker == Exhausted || len(cell.Children) == 0 {
		step, err = s.backtrack()
	} else {
		step, err = s.descend(cell)
	}
	if err != nil {
		s.err = err
		return Step{}, err
	}

	step.Index = s.steps
	s.steps++
	return step, nil
}

func (s *Solver) descend(cell *Cell) (Step, error) {
	dir := cell.Children[0]
	if cell.IsFork() {
		s.frames = append(s.frames, searchFrame{pos: s.cursor, next: 1})
	}
	s.path = append(s.path, pathEntry{pos: s.cursor, dir: dir})

	from := s.cursor
	if err := s.move(dir); err != nil {
		return Step{}, err
	}
	return Step{Kind: StepAdvance, From: from, To: s.cursor, Direction: dir}, nil
}

func (s *Solver) backtrack() (Step, error) {
	deadEnd := s.cursor
	if len(s.frames) == 0 {
		return Step{}, fmt.Errorf("%w: dead end at %s with no fork left to resume", ErrMalformedMaze, deadEnd)
	}

	top := &s.frames[len(s.frames)-1]
	unwound := 0
	for len(s.path) > 0 && s.path[len(s.path)-1].pos != top.pos {
		s.path = s.path[:len(s.path)-1]
		unwound++
	}
	if len(s.path) == 0 {
		return Step{}, fmt.Errorf("%w: fork %s missing from the search path", ErrMalformedMaze, top.pos)
	}

	fork := top.pos
	children := s.grid.Children(fork)
	dir := children[top.next]
	s.path[len(s.path)-1].dir = dir
	top.next++
	if top.next >= len(children) {
		s.frames = s.frames[:len(s.frames)-1]
	}

	s.cursor = fork
	if err := s.move(dir); err != nil {
		return Step{}, err
	}
	return Step{
		Kind:      StepBacktrack,
		From:      deadEnd,
		Fork:      &fork,
		To:        s.cursor,
		Direction: dir,
		Unwound:   unwound,
	}, nil
}

// move advances the cursor along a tree edge, enforcing bounds and the edge budget
func (s *Solver) move(dir Direction) error {
	next := s.cursor.Move(dir)
	if !dir.Valid() || !s.grid.InBounds(next) || next == s.cursor {
		return fmt.Errorf("%w: edge %s from %s leaves the grid", ErrMalformedMaze, dir, s.cursor)
	}
	s.moves++
	if s.moves > s.budget {
		return fmt.Errorf("%w: more than %d forward moves, the edges contain a cycle", ErrMalformedMaze, s.budget)
	}
	s.cursor = next
	return nil
}

// Path returns the root→target moves once Done; before that it returns the current partial walk
func (s *Solver) Path() []Direction {
	return extractPath(s.grid.Root(), s.path, s.cursor)
}

// Solve returns the ordered moves from (0,0) to (n-1,n-1)
func Solve(g *Grid) ([]Direction, error) {
	if err := checkShape(g); err != nil {
		return nil, err
	}
	s := NewSolver(g)
	for !s.Done() {
		if _, err := s.Step(); err != nil {
			return nil, err
		}
	}
	return s.Path(), nil
}

// MustSolve is Solve that panics on a malformed grid
func MustSolve(g *Grid) []Direction {
	path, err := Solve(g)
	if err != nil {
		panic(err)
	}
	return path
}

// Trace solves g and returns every transition taken along the way
func Trace(g *Grid) ([]Step, error) {
	if err := checkShape(g); err != nil {
		return nil, err
	}
	s := NewSolver(g)
	var steps []Step
	for !s.Done() {
		step, err := s.Step()
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}
