package engine

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/navalbattle/game/commit"
)

func newFixtureMatch(t *testing.T, seed int64) (*Match, *EventRecorder) {
	t.Helper()
	rec := NewEventRecorder()
	m, err := NewMatch(DefaultMatchConfig(), rec,
		WithRand(rand.New(rand.NewSource(seed))),
		WithLayouts(classicLayout(), classicLayout()),
	)
	require.NoError(t, err)
	return m, rec
}

func fleetCells(f *Fleet) []int {
	var cells []int
	for i := 0; i < f.Len(); i++ {
		for _, c := range f.Ship(i).Cells() {
			cells = append(cells, f.Board().Index(c))
		}
	}
	return cells
}

func TestNewMatch(t *testing.T) {
	m, err := NewMatch(nil, nil, WithRand(rand.New(rand.NewSource(1))))
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID())
	assert.Equal(t, PlayerTurn, m.Phase())
	assert.Equal(t, DefaultMatchConfig().Messages.Welcome, m.Message())
	assert.Equal(t, 20, m.PlayerFleet().OccupiedCells())
	assert.Equal(t, 20, m.OpponentFleet().OccupiedCells())
	for i := 0; i < m.Board().Size(); i++ {
		assert.True(t, m.InputEnabled(i))
	}

	state := m.State()
	assert.Len(t, state.PlayerBoard, 100)
	assert.Len(t, state.TargetBoard, 100)
	assert.Len(t, state.PlayerFleet, 10)
	assert.Nil(t, state.TargetFleet, "opponent fleet stays hidden")
	require.NotNil(t, state.Commitment)
	assert.NotEmpty(t, state.Commitment.Root)
	assert.Empty(t, state.Commitment.Salt, "salt stays hidden until game over")
}

func TestNewMatchInvalid(t *testing.T) {
	config := DefaultMatchConfig()
	config.Columns = 0
	_, err := NewMatch(config, nil)
	assert.Error(t, err)

	touching := []Ship{
		NewShip(Point{X: 0, Y: 0}, Cruiser, Horizontal),
		NewShip(Point{X: 0, Y: 1}, Cruiser, Horizontal),
	}
	_, err = NewMatch(DefaultMatchConfig(), nil, WithLayouts(classicLayout(), touching))
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestNewMatchPartialLayouts(t *testing.T) {
	tests := []struct {
		name             string
		player, opponent []Ship
	}{
		{name: "opponent missing", player: classicLayout()},
		{name: "player missing", opponent: classicLayout()},
		{name: "opponent empty", player: classicLayout(), opponent: []Ship{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatch(DefaultMatchConfig(), nil,
				WithRand(rand.New(rand.NewSource(3))),
				WithLayouts(tt.player, tt.opponent),
			)
			require.NoError(t, err)

			for _, f := range []*Fleet{m.PlayerFleet(), m.OpponentFleet()} {
				assert.Equal(t, 10, f.Len())
				assert.Equal(t, 20, f.OccupiedCells())
				assert.False(t, f.IsSunk())
			}
			assert.Equal(t, PlayerTurn, m.Phase())
		})
	}
}

func TestSelectCellHitKeepsTurn(t *testing.T) {
	m, rec := newFixtureMatch(t, 1)

	turn, err := m.SelectCell(0)
	require.NoError(t, err)

	assert.Equal(t, ShotHit, turn.PlayerShot.Result)
	assert.Equal(t, "A0", turn.PlayerShot.Label)
	assert.Empty(t, turn.OpponentShots)
	assert.Equal(t, PlayerTurn, turn.Phase)
	assert.Equal(t, "Hit at A0! Fire again.", turn.Message)

	assert.Equal(t, Hit, m.TargetField().State(0))
	assert.Equal(t, Miss, m.TargetField().State(11), "diagonal is inferred as a miss")
	assert.False(t, m.InputEnabled(0))
	assert.False(t, m.InputEnabled(11))
	assert.True(t, m.InputEnabled(1), "orthogonal neighbor stays selectable")

	events := rec.Drain()
	assert.Contains(t, events, PresenterEvent{Type: EventRenderCell, Board: TargetBoard, Index: 0, State: Hit})
	assert.Contains(t, events, PresenterEvent{Type: EventRenderCell, Board: TargetBoard, Index: 11, State: Miss})
	assert.Contains(t, events, PresenterEvent{Type: EventInput, Board: TargetBoard, Index: 11, Enabled: false})

	assert.True(t, m.PlayerField().Count(Empty) == 100, "opponent did not shoot")
}

func TestSelectCellErrors(t *testing.T) {
	m, _ := newFixtureMatch(t, 1)

	_, err := m.SelectCell(-1)
	assert.ErrorIs(t, err, ErrCellOutOfRange)
	_, err = m.SelectCell(100)
	assert.ErrorIs(t, err, ErrCellOutOfRange)

	_, err = m.SelectCell(0)
	require.NoError(t, err)
	_, err = m.SelectCell(0)
	assert.ErrorIs(t, err, ErrCellInactive, "already shot")
	_, err = m.SelectCell(11)
	assert.ErrorIs(t, err, ErrCellInactive, "diagonal of a hit")

	m.Quit()
	assert.Equal(t, Closed, m.Phase())
	_, err = m.SelectCell(1)
	assert.ErrorIs(t, err, ErrMatchClosed)
	assert.ErrorIs(t, m.Restart(), ErrMatchClosed)
	m.Quit()
	assert.Equal(t, Closed, m.Phase())
}

func TestSelectCellMissHandsOff(t *testing.T) {
	immediate := 0
	for seed := int64(1); seed <= 40; seed++ {
		m, _ := newFixtureMatch(t, seed)

		// 99 is water in the fixture layout
		turn, err := m.SelectCell(99)
		require.NoError(t, err)
		assert.Equal(t, ShotMiss, turn.PlayerShot.Result)
		require.NotEmpty(t, turn.OpponentShots)
		assert.Equal(t, PlayerTurn, m.Phase())

		last := turn.OpponentShots[len(turn.OpponentShots)-1]
		assert.Equal(t, ShotMiss, last.Result, "opponent stops on a miss")
		for _, s := range turn.OpponentShots[:len(turn.OpponentShots)-1] {
			assert.Equal(t, ShotHit, s.Result, "opponent keeps shooting only while hitting")
			assert.Equal(t, OpponentSide, s.Shooter)
		}

		if len(turn.OpponentShots) == 1 {
			immediate++
			assert.Equal(t, 99, m.PlayerField().Count(Empty), "exactly one player cell changed")
			assert.Equal(t, Miss, m.PlayerField().State(last.Index))
		}
		assert.Len(t, m.History(), 1+len(turn.OpponentShots))
	}
	assert.Positive(t, immediate, "some seed must miss immediately")
}

func TestPlayerWins(t *testing.T) {
	m, rec := newFixtureMatch(t, 1)
	targets := fleetCells(m.OpponentFleet())
	require.Len(t, targets, 20)

	for n, i := range targets {
		require.Equal(t, PlayerTurn, m.Phase(), "hits keep the turn")
		assert.False(t, m.OpponentFleet().IsSunk(), "sunk before hit %d", n+1)
		turn, err := m.SelectCell(i)
		require.NoError(t, err)
		require.Equal(t, ShotHit, turn.PlayerShot.Result)
	}

	assert.True(t, m.OpponentFleet().IsSunk())
	assert.Equal(t, GameOver, m.Phase())
	assert.Equal(t, PlayerSide, m.Winner())
	assert.Equal(t, DefaultMatchConfig().Messages.Victory, m.Message())
	for i := 0; i < m.Board().Size(); i++ {
		assert.False(t, m.InputEnabled(i), "input %d still enabled", i)
	}

	var reveals []PresenterEvent
	for _, e := range rec.Drain() {
		if e.Type == EventReveal {
			reveals = append(reveals, e)
		}
	}
	require.Len(t, reveals, 1)
	assert.Equal(t, TargetBoard, reveals[0].Board)
	assert.Len(t, reveals[0].Ships, 10)

	_, err := m.SelectCell(99)
	assert.ErrorIs(t, err, ErrGameOver)

	state := m.State()
	assert.Len(t, state.TargetFleet, 10)
	assert.Equal(t, 20, state.PlayerShots)
	assert.Equal(t, 20, state.PlayerHits)
	require.NotEmpty(t, state.Commitment.Salt)

	ok, err := commit.Verify(m.OpponentFleet().Occupancy(), state.Commitment.Salt, state.Commitment.Root)
	require.NoError(t, err)
	assert.True(t, ok, "revealed salt must open the published root")

	proof := state.ShotHistory[0].Proof
	require.NotNil(t, proof)
	ok, err = commit.VerifyOpening(proof, state.Commitment.Salt, state.Commitment.Root)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShotProofsHideNeighbourCells(t *testing.T) {
	m, err := NewMatch(DefaultMatchConfig(), nil, WithRand(rand.New(rand.NewSource(7))))
	require.NoError(t, err)
	occupancy := m.OpponentFleet().Occupancy()

	shots, guessed := 0, 0
	for i := 0; i < m.Board().Size() && m.Phase() == PlayerTurn; i += 2 {
		if !m.InputEnabled(i) {
			continue
		}
		turn, err := m.SelectCell(i)
		require.NoError(t, err)
		proof := turn.PlayerShot.Proof
		require.NotNil(t, proof)
		require.NotEmpty(t, proof.Path)
		shots++

		sibling, ok := new(big.Int).SetString(proof.Path[0][2:], 16)
		require.True(t, ok)
		leafSalt, ok := new(big.Int).SetString(proof.Salt[2:], 16)
		require.True(t, ok)
		for _, salt := range []*big.Int{leafSalt, big.NewInt(0)} {
			leaf, err := commit.HashLeaf(occupancy[i^1], salt)
			require.NoError(t, err)
			if leaf.Cmp(sibling) == 0 {
				guessed++
			}
		}
	}

	require.Positive(t, shots)
	assert.Zero(t, guessed, "sibling hash gave away the neighbouring cell")
}

func smallConfig() *MatchConfig {
	config := DefaultMatchConfig()
	config.Name = "Small"
	config.Columns = 4
	config.Rows = 4
	config.Fleet = []FleetEntry{{Kind: TorpedoBoat, Count: 1}}
	return config
}

func TestOpponentWins(t *testing.T) {
	var won *Match
	var rec *EventRecorder

	for seed := int64(1); seed <= 20 && won == nil; seed++ {
		rec = NewEventRecorder()
		m, err := NewMatch(smallConfig(), rec,
			WithRand(rand.New(rand.NewSource(seed))),
			WithLayouts(
				[]Ship{NewShip(Point{X: 0, Y: 0}, TorpedoBoat, Horizontal)},
				[]Ship{NewShip(Point{X: 3, Y: 3}, TorpedoBoat, Horizontal)},
			))
		require.NoError(t, err)

		for i := 0; i < 15 && m.Phase() == PlayerTurn; i++ {
			_, err := m.SelectCell(i)
			require.NoError(t, err)
		}
		if m.Winner() == OpponentSide {
			won = m
		}
	}
	require.NotNil(t, won, "the heuristic should win at least once")

	assert.Equal(t, GameOver, won.Phase())
	assert.True(t, won.PlayerFleet().IsSunk())
	assert.Equal(t, DefaultMatchConfig().Messages.Defeat, won.Message())

	var boards []BoardID
	for _, e := range rec.Drain() {
		if e.Type == EventReveal {
			boards = append(boards, e.Board)
		}
	}
	assert.Equal(t, []BoardID{PlayerBoard, TargetBoard}, boards, "loser first, then the hidden fleet")
}

func TestRestart(t *testing.T) {
	m, rec := newFixtureMatch(t, 4)
	oldRoot := m.Commitment().Root

	for _, i := range fleetCells(m.OpponentFleet()) {
		_, err := m.SelectCell(i)
		require.NoError(t, err)
	}
	require.Equal(t, GameOver, m.Phase())
	rec.Drain()

	require.NoError(t, m.Restart())

	assert.Equal(t, PlayerTurn, m.Phase())
	assert.Empty(t, m.Winner())
	assert.Empty(t, m.History())
	assert.Empty(t, m.Targeter().Pending())
	assert.Equal(t, 100, m.TargetField().Count(Empty))
	assert.Equal(t, 100, m.PlayerField().Count(Empty))
	for i := 0; i < m.Board().Size(); i++ {
		assert.True(t, m.InputEnabled(i))
	}

	for _, f := range []*Fleet{m.PlayerFleet(), m.OpponentFleet()} {
		assertValidPlacement(t, f)
		assert.False(t, f.IsSunk())
		assert.Equal(t, 0, f.SunkCount())
		for i := 0; i < f.Len(); i++ {
			assert.NotContains(t, f.Ship(i).Hits(), true)
		}
	}
	assert.NotEqual(t, oldRoot, m.Commitment().Root)

	enabled := 0
	for _, e := range rec.Drain() {
		if e.Type == EventInput && e.Enabled {
			enabled++
		}
	}
	assert.Equal(t, 100, enabled, "every input cell is reactivated")
}

func TestFullMatchTerminates(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, err := NewMatch(DefaultMatchConfig(), nil, WithRand(rng))
		require.NoError(t, err)

		shooter := NewTargeter(rand.New(rand.NewSource(seed + 100)))
		for turns := 0; m.Phase() == PlayerTurn; turns++ {
			require.Less(t, turns, 101)
			i, ok := shooter.NextShot(m.TargetField())
			require.True(t, ok)
			turn, err := m.SelectCell(i)
			require.NoError(t, err)
			shooter.Record(i, turn.PlayerShot.Result, turn.Phase == GameOver)
			shooter.Prune(m.TargetField())
		}

		assert.Equal(t, GameOver, m.Phase())
		assert.NotEmpty(t, m.Winner())
	}
}

func TestHelp(t *testing.T) {
	help := Help(nil)
	assert.Contains(t, help, "classic Russian")
	assert.Contains(t, help, "battleship")
	assert.Contains(t, help, "torpedo boat")
	assert.Contains(t, help, "10x10")
}
