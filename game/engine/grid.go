package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction is one of the 8 moves from a cell to a neighbor
type Direction int

const (
	Left Direction = iota
	TopLeft
	Up
	TopRight
	Right
	DownRight
	Down
	DownLeft
)

var (
	// Orthogonal lists the directions used to probe around a hit.
	Orthogonal = []Direction{Left, Up, Right, Down}
	// Diagonal lists the directions whose cells cannot hold a ship next to a hit.
	Diagonal = []Direction{TopLeft, TopRight, DownRight, DownLeft}
)

// columnMarks labels the board columns, one letter per column
const columnMarks = "ABCDEFGHIJKLMNOPQRST"

// Board is the frame of a Columns x Rows grid indexed row-major
type Board struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// NewBoard creates a board frame of the given size
func NewBoard(columns, rows int) Board {
	return Board{Columns: columns, Rows: rows}
}

// Size returns the number of cells on the board
func (b Board) Size() int {
	return b.Columns * b.Rows
}

// Contains reports whether p lies inside the board
func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Columns && p.Y >= 0 && p.Y < b.Rows
}

// ValidIndex reports whether i addresses a board cell
func (b Board) ValidIndex(i int) bool {
	return i >= 0 && i < b.Size()
}

// Index converts a point to its row-major cell index
func (b Board) Index(p Point) int {
	return p.Y*b.Columns + p.X
}

// Point converts a row-major cell index to a point
func (b Board) Point(i int) Point {
	return Point{X: i % b.Columns, Y: i / b.Columns}
}

// Next returns the index of the neighbor of i in direction dir.
// Moves that would leave the board return i unchanged.
func (b Board) Next(i int, dir Direction) int {
	if !b.ValidIndex(i) {
		return i
	}

	col, row := i%b.Columns, i/b.Columns
	left := col != 0
	right := col != b.Columns-1
	top := row != 0
	bottom := row != b.Rows-1

	switch dir {
	case Left:
		if left {
			return i - 1
		}
	case TopLeft:
		if top && left {
			return i - b.Columns - 1
		}
	case Up:
		if top {
			return i - b.Columns
		}
	case TopRight:
		if top && right {
			return i - b.Columns + 1
		}
	case Right:
		if right {
			return i + 1
		}
	case DownRight:
		if bottom && right {
			return i + b.Columns + 1
		}
	case Down:
		if bottom {
			return i + b.Columns
		}
	case DownLeft:
		if bottom && left {
			return i + b.Columns - 1
		}
	}

	return i
}

// Neighbors returns the distinct in-board neighbors of i in the given directions
func (b Board) Neighbors(i int, dirs []Direction) []int {
	result := make([]int, 0, len(dirs))
	for _, dir := range dirs {
		if n := b.Next(i, dir); n != i {
			result = append(result, n)
		}
	}
	return result
}

// CellLabel returns the human label of a cell: column letter followed by row number (e.g. "B7")
func (b Board) CellLabel(i int) string {
	p := b.Point(i)
	if p.X >= len(columnMarks) {
		return strconv.Itoa(i)
	}
	return fmt.Sprintf("%c%d", columnMarks[p.X], p.Y)
}

// ParseCellLabel converts a label such as "B7" back to a cell index
func (b Board) ParseCellLabel(label string) (int, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return 0, fmt.Errorf("%w: label %q", ErrCellOutOfRange, label)
	}

	col := strings.IndexByte(columnMarks, label[0])
	row, err := strconv.Atoi(label[1:])
	if col < 0 || err != nil {
		return 0, fmt.Errorf("%w: label %q", ErrCellOutOfRange, label)
	}

	p := Point{X: col, Y: row}
	if !b.Contains(p) {
		return 0, fmt.Errorf("%w: label %q", ErrCellOutOfRange, label)
	}
	return b.Index(p), nil
}
