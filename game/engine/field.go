package engine

// Field tracks the shot state of every cell of one board
type Field struct {
	board BoardID
	frame Board
	cells []CellState
}

// NewField creates a field with every cell empty
func NewField(id BoardID, frame Board) *Field {
	cells := make([]CellState, frame.Size())
	for i := range cells {
		cells[i] = Empty
	}
	return &Field{
		board: id,
		frame: frame,
		cells: cells,
	}
}

// ID returns which board the field belongs to
func (f *Field) ID() BoardID {
	return f.board
}

// Frame returns the board frame of the field
func (f *Field) Frame() Board {
	return f.frame
}

// State returns the state of cell i
func (f *Field) State(i int) CellState {
	return f.cells[i]
}

// IsEmpty reports whether cell i has not been shot or inferred yet
func (f *Field) IsEmpty(i int) bool {
	return f.cells[i] == Empty
}

// Cells returns a copy of every cell state
func (f *Field) Cells() []CellState {
	out := make([]CellState, len(f.cells))
	copy(out, f.cells)
	return out
}

// EmptyCells returns the indices of every empty cell
func (f *Field) EmptyCells() []int {
	var out []int
	for i, c := range f.cells {
		if c == Empty {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of cells in state s
func (f *Field) Count(s CellState) int {
	n := 0
	for _, c := range f.cells {
		if c == s {
			n++
		}
	}
	return n
}

// Render applies a shot result at cell i and notifies p of every changed cell.
// A hit also marks the diagonal neighbors as misses while they are still empty:
// no ship can lie there under the no-touch placement rule.
func (f *Field) Render(i int, result ShotResult, p Presenter) {
	if result == ShotMiss {
		f.set(i, Miss, p)
		return
	}

	f.set(i, Hit, p)
	for _, n := range f.frame.Neighbors(i, Diagonal) {
		if f.cells[n] == Empty {
			f.set(n, Miss, p)
		}
	}
}

// Reset empties every cell, notifying p of the cells that changed
func (f *Field) Reset(p Presenter) {
	for i := range f.cells {
		if f.cells[i] != Empty {
			f.set(i, Empty, p)
		}
	}
}

func (f *Field) set(i int, s CellState, p Presenter) {
	f.cells[i] = s
	if p != nil {
		p.RenderCell(f.board, i, s)
	}
}
