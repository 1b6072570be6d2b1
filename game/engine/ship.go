package engine

// Ship is a contiguous run of cells with per-cell hit flags.
// A ship does not know its board; the fleet keeps it in bounds.
type Ship struct {
	kind        ShipKind
	orientation Orientation
	cells       []Point
	hits        []bool
}

// NewShip lays out kind cells starting at head along orientation o
func NewShip(head Point, kind ShipKind, o Orientation) Ship {
	s := Ship{
		kind:        kind,
		orientation: o,
		cells:       make([]Point, int(kind)),
		hits:        make([]bool, int(kind)),
	}
	s.layout(head)
	return s
}

// layout positions the cells from head along the current orientation
func (s *Ship) layout(head Point) {
	for i := range s.cells {
		if s.orientation == Vertical {
			s.cells[i] = Point{X: head.X, Y: head.Y + i}
		} else {
			s.cells[i] = Point{X: head.X + i, Y: head.Y}
		}
	}
}

// Kind returns the ship kind
func (s *Ship) Kind() ShipKind {
	return s.kind
}

// Orientation returns the current orientation
func (s *Ship) Orientation() Orientation {
	return s.orientation
}

// Length returns the number of cells of the ship
func (s *Ship) Length() int {
	return len(s.cells)
}

// Head returns the first cell of the ship
func (s *Ship) Head() Point {
	return s.cells[0]
}

// Cells returns a copy of the occupied cells in order from the head
func (s *Ship) Cells() []Point {
	out := make([]Point, len(s.cells))
	copy(out, s.cells)
	return out
}

// Hits returns a copy of the per-cell hit flags
func (s *Ship) Hits() []bool {
	out := make([]bool, len(s.hits))
	copy(out, s.hits)
	return out
}

// CellResult reports whether the i-th cell of the ship has been hit
func (s *Ship) CellResult(i int) ShotResult {
	if s.hits[i] {
		return ShotHit
	}
	return ShotMiss
}

// Rotate toggles the orientation keeping the head cell fixed
func (s *Ship) Rotate() {
	if s.orientation == Horizontal {
		s.orientation = Vertical
	} else {
		s.orientation = Horizontal
	}
	s.layout(s.cells[0])
}

// Occupies reports whether p is one of the ship cells
func (s *Ship) Occupies(p Point) bool {
	for _, c := range s.cells {
		if c == p {
			return true
		}
	}
	return false
}

// Shot marks the cell at p as hit if the ship occupies it
func (s *Ship) Shot(p Point) ShotResult {
	for i, c := range s.cells {
		if c == p {
			s.hits[i] = true
			return ShotHit
		}
	}
	return ShotMiss
}

// Restore clears every hit flag
func (s *Ship) Restore() {
	for i := range s.hits {
		s.hits[i] = false
	}
}

// IsSunk reports whether every cell has been hit
func (s *Ship) IsSunk() bool {
	for _, h := range s.hits {
		if !h {
			return false
		}
	}
	return true
}

// Corners returns the lattice corner points of every occupied cell.
// Two ships share a corner point exactly when they overlap or touch.
func (s *Ship) Corners() []Point {
	seen := make(map[Point]bool, 2*len(s.cells)+2)
	corners := make([]Point, 0, 2*len(s.cells)+2)
	for _, c := range s.cells {
		for _, p := range [4]Point{
			{X: c.X, Y: c.Y},
			{X: c.X + 1, Y: c.Y},
			{X: c.X, Y: c.Y + 1},
			{X: c.X + 1, Y: c.Y + 1},
		} {
			if !seen[p] {
				seen[p] = true
				corners = append(corners, p)
			}
		}
	}
	return corners
}

// View returns a read-only snapshot of the ship on board b
func (s *Ship) View(b Board) ShipView {
	cells := make([]int, len(s.cells))
	for i, c := range s.cells {
		cells[i] = b.Index(c)
	}
	return ShipView{
		Kind:        s.kind,
		Name:        s.kind.String(),
		Orientation: s.orientation,
		Head:        s.cells[0],
		Cells:       cells,
		Hits:        s.Hits(),
		Sunk:        s.IsSunk(),
	}
}

// inside reports whether every cell of the ship lies on board b
func (s *Ship) inside(b Board) bool {
	for _, c := range s.cells {
		if !b.Contains(c) {
			return false
		}
	}
	return true
}
