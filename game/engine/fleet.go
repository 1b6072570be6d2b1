package engine

import (
	"fmt"
	"math/rand"
)

// DefaultComposition returns the classic fleet in placement order:
// 1 battleship, 2 cruisers, 3 destroyers and 4 torpedo boats.
func DefaultComposition() []ShipKind {
	return []ShipKind{
		Battleship,
		Cruiser, Cruiser,
		Destroyer, Destroyer, Destroyer,
		TorpedoBoat, TorpedoBoat, TorpedoBoat, TorpedoBoat,
	}
}

// Fleet owns the ships of one side within a board frame
type Fleet struct {
	board    Board
	ships    []Ship
	rng      *rand.Rand
	attempts int
}

// NewFleet creates an unplaced fleet of the given composition.
// Ships are placed by RandomLocation.
func NewFleet(board Board, composition []ShipKind, rng *rand.Rand) *Fleet {
	ships := make([]Ship, len(composition))
	for i, kind := range composition {
		ships[i] = NewShip(Point{}, kind, Horizontal)
	}
	return &Fleet{
		board: board,
		ships: ships,
		rng:   rng,
	}
}

// NewFleetWithLayout creates a fleet from explicitly placed ships.
// Every ship must fit the board and must not overlap or touch another ship.
func NewFleetWithLayout(board Board, ships []Ship, rng *rand.Rand) (*Fleet, error) {
	for i := range ships {
		if !ships[i].inside(board) {
			return nil, fmt.Errorf("%w: ship %d (%s) leaves the board", ErrInvalidLayout, i, ships[i].kind)
		}
		for j := 0; j < i; j++ {
			if touches(&ships[i], &ships[j]) {
				return nil, fmt.Errorf("%w: ship %d touches ship %d", ErrInvalidLayout, i, j)
			}
		}
	}

	placed := make([]Ship, len(ships))
	copy(placed, ships)
	return &Fleet{board: board, ships: placed, rng: rng}, nil
}

// Board returns the fleet frame
func (f *Fleet) Board() Board {
	return f.board
}

// Len returns the number of ships in the fleet
func (f *Fleet) Len() int {
	return len(f.ships)
}

// Ship returns a pointer to the i-th ship for read-only queries
func (f *Fleet) Ship(i int) *Ship {
	return &f.ships[i]
}

// Attempts returns the number of candidate positions tried by the last RandomLocation
func (f *Fleet) Attempts() int {
	return f.attempts
}

// RandomLocation re-randomizes every ship position in order.
// A candidate is accepted only if none of its corner points coincides
// with a corner point of an already placed ship.
func (f *Fleet) RandomLocation() error {
	f.attempts = 0
	for restart := 0; restart < MaxLayoutRestarts; restart++ {
		if f.tryLayout() {
			return nil
		}
	}
	return fmt.Errorf("%w: %d ships on %dx%d after %d attempts",
		ErrPlacementExhausted, len(f.ships), f.board.Columns, f.board.Rows, f.attempts)
}

// tryLayout places every ship; false when a ship ran out of attempts
func (f *Fleet) tryLayout() bool {
	for i := range f.ships {
		if !f.placeShip(i) {
			return false
		}
	}
	return true
}

// placeShip finds a random valid position for ship i against ships 0..i-1
func (f *Fleet) placeShip(i int) bool {
	ship := &f.ships[i]
	length := ship.Length()

	for try := 0; try < MaxPlacementAttempts; try++ {
		f.attempts++

		o := Horizontal
		if f.rng.Intn(2) == 1 {
			o = Vertical
		}

		// Head range such that the ship fits for this orientation
		maxX, maxY := f.board.Columns, f.board.Rows
		if o == Horizontal {
			maxX -= length - 1
		} else {
			maxY -= length - 1
		}
		if maxX <= 0 || maxY <= 0 {
			continue
		}

		candidate := NewShip(Point{X: f.rng.Intn(maxX), Y: f.rng.Intn(maxY)}, ship.kind, o)

		valid := true
		for j := 0; j < i; j++ {
			if touches(&candidate, &f.ships[j]) {
				valid = false
				break
			}
		}
		if valid {
			*ship = candidate
			return true
		}
	}
	return false
}

// touches reports whether any corner point of a coincides with a corner point of b
func touches(a, b *Ship) bool {
	corners := make(map[Point]bool)
	for _, p := range b.Corners() {
		corners[p] = true
	}
	for _, p := range a.Corners() {
		if corners[p] {
			return true
		}
	}
	return false
}

// Shot resolves a shot at p against the ships in order
func (f *Fleet) Shot(p Point) ShotResult {
	for i := range f.ships {
		if f.ships[i].Shot(p) == ShotHit {
			return ShotHit
		}
	}
	return ShotMiss
}

// ShipAt returns the index of the ship occupying p
func (f *Fleet) ShipAt(p Point) (int, bool) {
	for i := range f.ships {
		if f.ships[i].Occupies(p) {
			return i, true
		}
	}
	return -1, false
}

// Restore clears the hit state of every ship without relocating them
func (f *Fleet) Restore() {
	for i := range f.ships {
		f.ships[i].Restore()
	}
}

// IsSunk reports whether every ship is sunk
func (f *Fleet) IsSunk() bool {
	for i := range f.ships {
		if !f.ships[i].IsSunk() {
			return false
		}
	}
	return true
}

// SunkCount returns the number of sunk ships
func (f *Fleet) SunkCount() int {
	count := 0
	for i := range f.ships {
		if f.ships[i].IsSunk() {
			count++
		}
	}
	return count
}

// OccupiedCells returns the total number of cells covered by ships
func (f *Fleet) OccupiedCells() int {
	total := 0
	for i := range f.ships {
		total += f.ships[i].Length()
	}
	return total
}

// Occupancy returns one byte per board cell: 1 where a ship lies, 0 elsewhere
func (f *Fleet) Occupancy() []uint8 {
	out := make([]uint8, f.board.Size())
	for i := range f.ships {
		for _, c := range f.ships[i].cells {
			if f.board.Contains(c) {
				out[f.board.Index(c)] = 1
			}
		}
	}
	return out
}

// Views returns read-only snapshots of every ship
func (f *Fleet) Views() []ShipView {
	views := make([]ShipView, len(f.ships))
	for i := range f.ships {
		views[i] = f.ships[i].View(f.board)
	}
	return views
}
