package maze

import (
	"fmt"
	"strings"
)

const (
	// MinSize is the smallest accepted maze side length
	MinSize = 2
	// MaxSize bounds presets and service requests; Generate itself has no upper bound
	MaxSize = 200
)

// Direction is one of the four grid-adjacency moves
type Direction uint8

const (
	North Direction = iota
	South
	West
	East
)

// Directions lists every direction in the fixed order used for neighbor enumeration
var Directions = [4]Direction{North, South, West, East}

var directionNames = [4]string{"north", "south", "west", "east"}

var directionDeltas = [4]Position{
	{Row: -1, Col: 0}, // North
	{Row: 1, Col: 0},  // South
	{Row: 0, Col: -1}, // West
	{Row: 0, Col: 1},  // East
}

// Valid reports whether d is one of the four defined directions
func (d Direction) Valid() bool {
	return d <= East
}

// String returns the lowercase name of the direction
func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Delta returns the (row, col) offset of a single move in this direction
func (d Direction) Delta() Position {
	if !d.Valid() {
		return Position{}
	}
	return directionDeltas[d]
}

// Opposite returns the inverse direction (North<->South, East<->West)
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	default:
		return West
	}
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts compass names and the screen aliases up/down/left/right
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "up":
		return North, nil
	case "south", "s", "down":
		return South, nil
	case "west", "w", "left":
		return West, nil
	case "east", "e", "right":
		return East, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Position is a (row, col) grid coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move returns the position one step away in direction d
func (p Position) Move(d Direction) Position {
	delta := d.Delta()
	return Position{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Marker tracks a cell's generation state
type Marker uint8

const (
	// Unvisited cells have not been reached by the generator yet
	Unvisited Marker = iota
	// Open cells have been visited and are ordinary tree nodes
	Open
	// Exhausted cells are visited leaves with zero children; the solver backtracks from them
	Exhausted
)

var markerNames = [3]string{"unvisited", "open", "exhausted"}

func (m Marker) String() string {
	if int(m) >= len(markerNames) {
		return fmt.Sprintf("marker(%d)", uint8(m))
	}
	return markerNames[m]
}

// MarshalText encodes the marker by name
func (m Marker) MarshalText() ([]byte, error) {
	if int(m) >= len(markerNames) {
		return nil, fmt.Errorf("invalid marker %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a marker name
func (m *Marker) UnmarshalText(text []byte) error {
	for i, name := range markerNames {
		if name == string(text) {
			*m = Marker(i)
			return nil
		}
	}
	return fmt.Errorf("unknown marker %q", string(text))
}

// Cell is one grid position: the ordered child edges of the spanning tree plus its marker
type Cell struct {
	Children []Direction `json:"children"`
	Marker   Marker      `json:"marker"`
}

// IsFork reports whether the cell branches into two or more children
func (c *Cell) IsFork() bool {
	return len(c.Children) > 1
}

// Grid is an n×n maze. The root is always (0,0) and the target (n-1,n-1).
// A Grid returned by Generate must be treated as read-only.
type Grid struct {
	Size  int      `json:"size"`
	Cells [][]Cell `json:"cells"`
}

// NewGrid allocates an n×n grid of Unvisited cells
func NewGrid(n int) (*Grid, error) {
	if n < MinSize {
		return nil, fmt.Errorf("%w: got %d, need at least %d", ErrInvalidSize, n, MinSize)
	}
	cells := make([][]Cell, n)
	for r := range cells {
		cells[r] = make([]Cell, n)
	}
	return &Grid{Size: n, Cells: cells}, nil
}

// Root returns the start cell position
func (g *Grid) Root() Position {
	return Position{}
}

// Target returns the goal cell position
func (g *Grid) Target() Position {
	return Position{Row: g.Size - 1, Col: g.Size - 1}
}

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Size && p.Col >= 0 && p.Col < g.Size
}

// Cell returns the cell at p; p must be in bounds
func (g *Grid) Cell(p Position) *Cell {
	return &g.Cells[p.Row][p.Col]
}

// Children returns the ordered child directions recorded at p
func (g *Grid) Children(p Position) []Direction {
	return g.Cells[p.Row][p.Col].Children
}

// HasEdge reports whether the tree has an edge from p in direction d
func (g *Grid) HasEdge(p Position, d Direction) bool {
	for _, c := range g.Children(p) {
		if c == d {
			return true
		}
	}
	return false
}

// EdgeCount returns the total number of child edges across all cells
func (g *Grid) EdgeCount() int {
	count := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			count += len(cell.Children)
		}
	}
	return count
}

// CountMarker counts the cells carrying marker m
func (g *Grid) CountMarker(m Marker) int {
	count := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell.Marker == m {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([][]Cell, g.Size)
	for r, row := range g.Cells {
		cells[r] = make([]Cell, len(row))
		for c, cell := range row {
			cells[r][c] = Cell{
				Children: append([]Direction(nil), cell.Children...),
				Marker:   cell.Marker,
			}
		}
	}
	return &Grid{Size: g.Size, Cells: cells}
}
