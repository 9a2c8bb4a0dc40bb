package maze

import "fmt"

// extractPath projects the solver's path stack onto a flat root-first list of moves.
// Only entries that continue the walk from root are kept, so anything left behind
// by an abandoned branch is dropped. The walk stops at end.
func extractPath(root Position, entries []pathEntry, end Position) []Direction {
	dirs := make([]Direction, 0, len(entries))
	at := root
	for _, e := range entries {
		if at == end {
			break
		}
		if e.pos != at {
			continue
		}
		dirs = append(dirs, e.dir)
		at = at.Move(e.dir)
	}
	return dirs
}

// Walk replays dirs from the root of g, requiring every move to stay in bounds and
// follow a recorded tree edge. It returns the position reached.
func Walk(g *Grid, dirs []Direction) (Position, error) {
	at := g.Root()
	for i, d := range dirs {
		if !d.Valid() {
			return at, fmt.Errorf("move %d: invalid direction %d", i, uint8(d))
		}
		next := at.Move(d)
		if !g.InBounds(next) {
			return at, fmt.Errorf("move %d: %s from %s leaves the grid", i, d, at)
		}
		if !g.HasEdge(at, d) {
			return at, fmt.Errorf("move %d: no tree edge %s from %s", i, d, at)
		}
		at = next
	}
	return at, nil
}

// TreeDistance returns the number of tree edges between the root and the target,
// found by breadth-first search over child edges. It returns -1 if the target
// is not reachable.
func TreeDistance(g *Grid) int {
	if g.Size == 0 {
		return -1
	}
	dist := make([][]int, g.Size)
	for r := range dist {
		dist[r] = make([]int, g.Size)
		for c := range dist[r] {
			dist[r][c] = -1
		}
	}

	root := g.Root()
	dist[root.Row][root.Col] = 0
	queue := []Position{root}
	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		for _, d := range g.Children(at) {
			next := at.Move(d)
			if !d.Valid() || !g.InBounds(next) || dist[next.Row][next.Col] >= 0 {
				continue
			}
			dist[next.Row][next.Col] = dist[at.Row][at.Col] + 1
			queue = append(queue, next)
		}
	}

	target := g.Target()
	return dist[target.Row][target.Col]
}
