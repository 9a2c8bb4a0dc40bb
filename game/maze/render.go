package maze

import "strings"

// connected reports whether a tree edge joins p and its neighbor in direction d, in either orientation
func (g *Grid) connected(p Position, d Direction) bool {
	next := p.Move(d)
	if !g.InBounds(next) {
		return false
	}
	return g.HasEdge(p, d) || g.HasEdge(next, d.Opposite())
}

// String draws the maze as ASCII art
func (g *Grid) String() string {
	return Render(g, nil)
}

// Render draws the maze with +---+ walls. Cells on path are marked with '*',
// the root with 'S' and the target with 'E'. A path that leaves the tree is
// drawn up to the first invalid move.
func Render(g *Grid, path []Direction) string {
	onPath := make(map[Position]bool, len(path)+1)
	if len(path) > 0 {
		at := g.Root()
		onPath[at] = true
		for _, d := range path {
			if !g.connected(at, d) {
				break
			}
			at = at.Move(d)
			onPath[at] = true
		}
	}

	var b strings.Builder
	b.WriteString("+" + strings.Repeat("---+", g.Size) + "\n")

	for r := 0; r < g.Size; r++ {
		b.WriteString("|")
		for c := 0; c < g.Size; c++ {
			p := Position{Row: r, Col: c}
			switch {
			case p == g.Root():
				b.WriteString(" S ")
			case p == g.Target():
				b.WriteString(" E ")
			case onPath[p]:
				b.WriteString(" * ")
			default:
				b.WriteString("   ")
			}
			if g.connected(p, East) {
				b.WriteString(" ")
			} else {
				b.WriteString("|")
			}
		}
		b.WriteString("\n+")
		for c := 0; c < g.Size; c++ {
			if g.connected(Position{Row: r, Col: c}, South) {
				b.WriteString("   +")
			} else {
				b.WriteString("---+")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
