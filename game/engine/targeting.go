package engine

import "math/rand"

// Targeter is the opponent's shot selection heuristic: random search until a
// hit, then probing the orthogonal neighbors of live hits.
type Targeter struct {
	hitInds []int
	rng     *rand.Rand
}

// NewTargeter creates a targeter with no live hits
func NewTargeter(rng *rand.Rand) *Targeter {
	return &Targeter{rng: rng}
}

// Pending returns a copy of the live hit indices still being probed
func (t *Targeter) Pending() []int {
	out := make([]int, len(t.hitInds))
	copy(out, t.hitInds)
	return out
}

// Reset forgets every live hit
func (t *Targeter) Reset() {
	t.hitInds = nil
}

// NextShot picks the next cell to shoot on field.
// It returns false only when the field has no empty cell left.
func (t *Targeter) NextShot(field *Field) (int, bool) {
	for len(t.hitInds) > 0 {
		k := t.rng.Intn(len(t.hitInds))
		h := t.hitInds[k]

		if next, ok := t.nextEmpty(field, h); ok {
			return next, true
		}

		// Every orthogonal neighbor is already resolved
		t.hitInds = append(t.hitInds[:k], t.hitInds[k+1:]...)
	}

	empty := field.EmptyCells()
	if len(empty) == 0 {
		return 0, false
	}
	return empty[t.rng.Intn(len(empty))], true
}

// nextEmpty tries the orthogonal neighbors of h in random order
func (t *Targeter) nextEmpty(field *Field, h int) (int, bool) {
	dirs := make([]Direction, len(Orthogonal))
	copy(dirs, Orthogonal)
	t.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

	for _, dir := range dirs {
		n := field.Frame().Next(h, dir)
		if n != h && field.IsEmpty(n) {
			return n, true
		}
	}
	return h, false
}

// Record remembers a hit at index while the match goes on
func (t *Targeter) Record(index int, result ShotResult, over bool) {
	if result == ShotHit && !over {
		t.hitInds = append(t.hitInds, index)
	}
}

// Prune drops live hits whose orthogonal neighbors are all resolved
func (t *Targeter) Prune(field *Field) {
	kept := t.hitInds[:0]
	for _, h := range t.hitInds {
		if _, ok := t.nextEmptyOrdered(field, h); ok {
			kept = append(kept, h)
		}
	}
	t.hitInds = kept
}

// nextEmptyOrdered is nextEmpty without consuming randomness
func (t *Targeter) nextEmptyOrdered(field *Field, h int) (int, bool) {
	for _, dir := range Orthogonal {
		n := field.Frame().Next(h, dir)
		if n != h && field.IsEmpty(n) {
			return n, true
		}
	}
	return h, false
}
