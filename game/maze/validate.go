package maze

import "fmt"

// checkShape verifies g is a non-nil square grid of at least MinSize
func checkShape(g *Grid) error {
	if g == nil {
		return fmt.Errorf("%w: grid is nil", ErrMalformedMaze)
	}
	if g.Size < MinSize {
		return fmt.Errorf("%w: size %d is below %d", ErrMalformedMaze, g.Size, MinSize)
	}
	if len(g.Cells) != g.Size {
		return fmt.Errorf("%w: %d rows for size %d", ErrMalformedMaze, len(g.Cells), g.Size)
	}
	for r, row := range g.Cells {
		if len(row) != g.Size {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedMaze, r, len(row), g.Size)
		}
	}
	return nil
}

// Validate checks that g is a spanning tree rooted at (0,0): every child edge stays
// in bounds, every cell is reached from the root exactly once, there are n²-1 edges,
// and a cell is Exhausted exactly when it is visited and has no children.
func Validate(g *Grid) error {
	if err := checkShape(g); err != nil {
		return err
	}

	total := g.Size * g.Size
	if edges := g.EdgeCount(); edges != total-1 {
		return fmt.Errorf("%w: %d edges, a spanning tree of %d cells has %d", ErrMalformedMaze, edges, total, total-1)
	}

	seen := make([][]bool, g.Size)
	for r := range seen {
		seen[r] = make([]bool, g.Size)
	}

	root := g.Root()
	seen[root.Row][root.Col] = true
	reached := 1
	stack := []Position{root}
	for len(stack) > 0 {
		at := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range g.Children(at) {
			if !d.Valid() {
				return fmt.Errorf("%w: invalid direction %d at %s", ErrMalformedMaze, uint8(d), at)
			}
			next := at.Move(d)
			if !g.InBounds(next) {
				return fmt.Errorf("%w: edge %s from %s leaves the grid", ErrMalformedMaze, d, at)
			}
			if seen[next.Row][next.Col] {
				return fmt.Errorf("%w: %s is reached twice, edges form a cycle", ErrMalformedMaze, next)
			}
			seen[next.Row][next.Col] = true
			reached++
			stack = append(stack, next)
		}
	}
	if reached != total {
		return fmt.Errorf("%w: %d of %d cells reachable from the root", ErrMalformedMaze, reached, total)
	}

	for r, row := range g.Cells {
		for c, cell := range row {
			at := Position{Row: r, Col: c}
			switch {
			case cell.Marker == Unvisited:
				return fmt.Errorf("%w: %s was never visited", ErrMalformedMaze, at)
			case cell.Marker == Exhausted && len(cell.Children) > 0:
				return fmt.Errorf("%w: %s is exhausted but has %d children", ErrMalformedMaze, at, len(cell.Children))
			case cell.Marker != Exhausted && len(cell.Children) == 0:
				return fmt.Errorf("%w: dead end %s is not marked exhausted", ErrMalformedMaze, at)
			}
		}
	}

	return nil
}
