package maze

import "testing"

// scriptedRand replays a fixed list of picks and then keeps returning 0
type scriptedRand struct {
	picks []int
	calls []int
}

func (r *scriptedRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.picks) == 0 {
		return 0
	}
	v := r.picks[0]
	r.picks = r.picks[1:]
	return v % n
}

// cellSpec is a compact way to describe a hand-built cell
type cellSpec struct {
	row, col int
	children []Direction
}

// buildGrid creates an n×n grid from specs, marking cells without children Exhausted
// and all others Open
func buildGrid(t *testing.T, n int, specs ...cellSpec) *Grid {
	t.Helper()
	g, err := NewGrid(n)
	if err != nil {
		t.Fatalf("NewGrid(%d) failed: %v", n, err)
	}
	for r := range g.Cells {
		for c := range g.Cells[r] {
			g.Cells[r][c].Marker = Exhausted
		}
	}
	for _, s := range specs {
		cell := &g.Cells[s.row][s.col]
		cell.Children = append([]Direction(nil), s.children...)
		if len(s.children) > 0 {
			cell.Marker = Open
		}
	}
	return g
}

// singleForkGrid is a 3×3 maze whose root forks South into a two-cell dead end
// and East into the branch that reaches the target
func singleForkGrid(t *testing.T) *Grid {
	return buildGrid(t, 3,
		cellSpec{0, 0, []Direction{South, East}},
		cellSpec{1, 0, []Direction{South}},
		cellSpec{0, 1, []Direction{East}},
		cellSpec{0, 2, []Direction{South}},
		cellSpec{1, 2, []Direction{West, South}},
		cellSpec{1, 1, []Direction{South}},
	)
}

// nestedForkGrid is a 3×3 maze where the dead branch itself forks, so the
// solver has to unwind through an exhausted inner fork back to the root
func nestedForkGrid(t *testing.T) *Grid {
	return buildGrid(t, 3,
		cellSpec{0, 0, []Direction{South, East}},
		cellSpec{1, 0, []Direction{East, South}},
		cellSpec{2, 0, []Direction{East}},
		cellSpec{0, 1, []Direction{East}},
		cellSpec{0, 2, []Direction{South}},
		cellSpec{1, 2, []Direction{South}},
	)
}

func pos(row, col int) Position {
	return Position{Row: row, Col: col}
}
