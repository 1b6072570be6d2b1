package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargeterRandomSearch(t *testing.T) {
	field := NewField(PlayerBoard, NewBoard(10, 10))
	tg := NewTargeter(rand.New(rand.NewSource(3)))

	shot := make(map[int]bool)
	for n := 0; n < 100; n++ {
		i, ok := tg.NextShot(field)
		require.True(t, ok)
		require.True(t, field.IsEmpty(i), "shot %d re-targets %d", n, i)
		require.False(t, shot[i])
		shot[i] = true
		field.Render(i, ShotMiss, nil)
	}

	_, ok := tg.NextShot(field)
	assert.False(t, ok, "no empty cell left")
}

func TestTargeterProbesAroundHit(t *testing.T) {
	field := NewField(PlayerBoard, NewBoard(10, 10))
	tg := NewTargeter(rand.New(rand.NewSource(11)))

	field.Render(55, ShotHit, nil)
	tg.Record(55, ShotHit, false)
	assert.Equal(t, []int{55}, tg.Pending())

	for n := 0; n < 4; n++ {
		i, ok := tg.NextShot(field)
		require.True(t, ok)
		assert.Contains(t, []int{45, 54, 56, 65}, i)
		field.Render(i, ShotMiss, nil)
		tg.Record(i, ShotMiss, false)
	}

	// every orthogonal neighbor is resolved
	tg.Prune(field)
	assert.Empty(t, tg.Pending())
}

func TestTargeterDropsExhaustedHitLazily(t *testing.T) {
	field := NewField(PlayerBoard, NewBoard(3, 3))
	tg := NewTargeter(rand.New(rand.NewSource(5)))

	field.Render(4, ShotHit, nil)
	for _, n := range []int{1, 3, 5, 7} {
		field.Render(n, ShotMiss, nil)
	}
	tg.Record(4, ShotHit, false)

	_, ok := tg.NextShot(field)
	assert.False(t, ok, "3x3 board is fully resolved")
	assert.Empty(t, tg.Pending())
}

func TestTargeterRecord(t *testing.T) {
	tg := NewTargeter(rand.New(rand.NewSource(1)))

	tg.Record(10, ShotMiss, false)
	assert.Empty(t, tg.Pending(), "misses are not recorded")

	tg.Record(10, ShotHit, true)
	assert.Empty(t, tg.Pending(), "nothing is recorded once the match is over")

	tg.Record(10, ShotHit, false)
	tg.Record(11, ShotHit, false)
	assert.Equal(t, []int{10, 11}, tg.Pending())

	tg.Reset()
	assert.Empty(t, tg.Pending())
}

func TestTargeterSinksShip(t *testing.T) {
	board := NewBoard(10, 10)
	fleet, err := NewFleetWithLayout(board, []Ship{NewShip(Point{X: 4, Y: 4}, Battleship, Vertical)}, nil)
	require.NoError(t, err)

	field := NewField(PlayerBoard, board)
	tg := NewTargeter(rand.New(rand.NewSource(99)))

	// start from a known hit on the middle of the ship
	start := board.Index(Point{X: 4, Y: 5})
	fleet.Shot(board.Point(start))
	field.Render(start, ShotHit, nil)
	tg.Record(start, ShotHit, false)

	for shots := 0; !fleet.IsSunk(); shots++ {
		require.Less(t, shots, 20, "probing should sink a battleship quickly")
		i, ok := tg.NextShot(field)
		require.True(t, ok)
		require.True(t, field.IsEmpty(i))

		result := fleet.Shot(board.Point(i))
		field.Render(i, result, nil)
		tg.Record(i, result, fleet.IsSunk())
		tg.Prune(field)

		for _, h := range tg.Pending() {
			open := 0
			for _, n := range board.Neighbors(h, Orthogonal) {
				if field.IsEmpty(n) {
					open++
				}
			}
			assert.Positive(t, open, "pending hit %d has no empty neighbor after prune", h)
		}
	}
}
