package main

// SystematicStrategy sweeps the target board on a checkerboard until it
// scores a hit, then finishes the wounded ship before sweeping on.
type SystematicStrategy struct {
	width  int
	height int

	// Planned hunt order: even parity cells first, then the rest
	sweep []int
	next  int

	// Cells the server rejected
	skipped map[int]bool
}

func NewSystematicStrategy(width, height int) *SystematicStrategy {
	s := &SystematicStrategy{
		width:   width,
		height:  height,
		skipped: make(map[int]bool),
	}
	for parity := 0; parity < 2; parity++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if (x+y)%2 == parity {
					s.sweep = append(s.sweep, y*width+x)
				}
			}
		}
	}
	return s
}

// Skip marks a cell as not selectable
func (s *SystematicStrategy) Skip(index int) {
	s.skipped[index] = true
}

func (s *SystematicStrategy) open(state *GameState, i int) bool {
	if i < 0 || i >= s.width*s.height || s.skipped[i] {
		return false
	}
	if i < len(state.InputEnabled) && !state.InputEnabled[i] {
		return false
	}
	return i >= len(state.TargetBoard) || state.TargetBoard[i] == "empty"
}

func (s *SystematicStrategy) hit(state *GameState, i int) bool {
	return i >= 0 && i < len(state.TargetBoard) && state.TargetBoard[i] == "hit"
}

// neighbor returns the orthogonal neighbor of i, or -1 at the edge
func (s *SystematicStrategy) neighbor(i, dx, dy int) int {
	x, y := i%s.width+dx, i/s.width+dy
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return -1
	}
	return y*s.width + x
}

var orthogonal = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// component collects the hit cells connected to start
func (s *SystematicStrategy) component(state *GameState, start int) []int {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for k := 0; k < len(queue); k++ {
		for _, d := range orthogonal {
			n := s.neighbor(queue[k], d[0], d[1])
			if n >= 0 && !seen[n] && s.hit(state, n) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return queue
}

// woundedShips returns the hit components that do not belong to a sunk ship
func (s *SystematicStrategy) woundedShips(state *GameState) [][]int {
	sunk := make(map[int]bool)
	for _, shot := range state.ShotHistory {
		if shot.Shooter == "player" && shot.Sunk {
			for _, c := range s.component(state, shot.Index) {
				sunk[c] = true
			}
		}
	}

	var wounded [][]int
	done := make(map[int]bool)
	for i := range state.TargetBoard {
		if !s.hit(state, i) || sunk[i] || done[i] {
			continue
		}
		ship := s.component(state, i)
		for _, c := range ship {
			done[c] = true
		}
		wounded = append(wounded, ship)
	}
	return wounded
}

// finish picks a cell extending a wounded ship
func (s *SystematicStrategy) finish(state *GameState, ship []int) (int, bool) {
	dirs := orthogonal
	if len(ship) > 1 {
		// The ship lies along the line of its hits
		if ship[0]/s.width == ship[1]/s.width {
			dirs = [][2]int{{1, 0}, {-1, 0}}
		} else {
			dirs = [][2]int{{0, 1}, {0, -1}}
		}
	}

	for _, c := range ship {
		for _, d := range dirs {
			if n := s.neighbor(c, d[0], d[1]); n >= 0 && s.open(state, n) {
				return n, true
			}
		}
	}
	return 0, false
}

// NextShot returns the next cell to fire at, false when nothing is left
func (s *SystematicStrategy) NextShot(state *GameState) (int, bool) {
	for _, ship := range s.woundedShips(state) {
		if i, ok := s.finish(state, ship); ok {
			return i, true
		}
	}

	for ; s.next < len(s.sweep); s.next++ {
		if i := s.sweep[s.next]; s.open(state, i) {
			return i, true
		}
	}
	return 0, false
}
