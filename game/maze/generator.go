package maze

import (
	"fmt"
	"math/rand"
)

// Rand is the randomness the generator needs; *rand.Rand satisfies it
type Rand interface {
	Intn(n int) int
}

// Strategy selects how the generator resumes the walk after a dead end
type Strategy string

const (
	// StackBacktrack keeps an explicit stack of cells on the current walk
	StackBacktrack Strategy = "stack"
	// NeighborScan keeps no stack and finds the cell to resume from by scanning
	// the four neighbors for the one whose child list points back here
	NeighborScan Strategy = "scan"
)

// ParseStrategy maps a strategy name to a Strategy; empty selects StackBacktrack
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StackBacktrack:
		return StackBacktrack, nil
	case NeighborScan:
		return NeighborScan, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Option configures Generate
type Option func(*generateOptions)

type generateOptions struct {
	strategy Strategy
}

// WithStrategy selects the backtracking strategy
func WithStrategy(s Strategy) Option {
	return func(o *generateOptions) {
		o.strategy = s
	}
}

// Generate builds an n×n maze as a random spanning tree rooted at (0,0).
// Both strategies draw from rng in the same order, so for a given rng state
// they return identical grids.
func Generate(n int, rng Rand, opts ...Option) (*Grid, error) {
	o := generateOptions{strategy: StackBacktrack}
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := NewGrid(n)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("maze: generate requires a random source")
	}

	switch o.strategy {
	case "", StackBacktrack:
		generateWithStack(grid, rng)
	case NeighborScan:
		if err := generateWithScan(grid, rng); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, o.strategy)
	}

	return grid, nil
}

// GenerateSeeded is Generate with a math/rand source seeded from seed
func GenerateSeeded(n int, seed int64, opts ...Option) (*Grid, error) {
	return Generate(n, rand.New(rand.NewSource(seed)), opts...)
}

// unvisitedNeighbors appends the directions from p toward Unvisited cells, in Directions order
func (g *Grid) unvisitedNeighbors(p Position, buf []Direction) []Direction {
	buf = buf[:0]
	for _, d := range Directions {
		next := p.Move(d)
		if g.InBounds(next) && g.Cell(next).Marker == Unvisited {
			buf = append(buf, d)
		}
	}
	return buf
}

// extend picks a random unvisited neighbor of p, records the edge, and marks the neighbor Open.
// It returns false when p has no unvisited neighbors.
func (g *Grid) extend(p Position, rng Rand, buf []Direction) (Position, bool) {
	candidates := g.unvisitedNeighbors(p, buf)
	if len(candidates) == 0 {
		return p, false
	}
	d := candidates[rng.Intn(len(candidates))]
	cell := g.Cell(p)
	cell.Children = append(cell.Children, d)

	next := p.Move(d)
	g.Cell(next).Marker = Open
	return next, true
}

// markDeadEnd flags a fully explored cell as Exhausted when it never grew a child
func (g *Grid) markDeadEnd(p Position) {
	cell := g.Cell(p)
	if len(cell.Children) == 0 {
		cell.Marker = Exhausted
	}
}

func generateWithStack(g *Grid, rng Rand) {
	buf := make([]Direction, 0, 4)
	root := g.Root()
	g.Cell(root).Marker = Open

	stack := make([]Position, 1, g.Size*g.Size)
	stack[0] = root

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		if next, ok := g.extend(current, rng, buf); ok {
			stack = append(stack, next)
			continue
		}
		g.markDeadEnd(current)
		stack = stack[:len(stack)-1]
	}
}

func generateWithScan(g *Grid, rng Rand) error {
	buf := make([]Direction, 0, 4)
	total := g.Size * g.Size
	current := g.Root()
	g.Cell(current).Marker = Open
	visited := 1

	for visited < total {
		if next, ok := g.extend(current, rng, buf); ok {
			current = next
			visited++
			continue
		}

		g.markDeadEnd(current)
		parent, ok := g.findParent(current)
		if !ok {
			return fmt.Errorf("%w: no cell to resume from at %s after %d of %d visits",
				ErrMalformedMaze, current, visited, total)
		}
		current = parent
	}

	// The last cell reached has just been entered and cannot have children
	g.markDeadEnd(current)
	return nil
}

// findParent returns the visited neighbor whose child list contains the edge into p
func (g *Grid) findParent(p Position) (Position, bool) {
	for _, d := range Directions {
		neighbor := p.Move(d)
		if !g.InBounds(neighbor) || g.Cell(neighbor).Marker == Unvisited {
			continue
		}
		if g.HasEdge(neighbor, d.Opposite()) {
			return neighbor, true
		}
	}
	return p, false
}
