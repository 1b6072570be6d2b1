package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/navalbattle/game/commit"
)

// Match is one game between the human fleet and the heuristic opponent.
// A Match is not safe for concurrent use.
type Match struct {
	id        string
	config    *MatchConfig
	board     Board
	rng       *rand.Rand
	presenter Presenter

	player   *Fleet // human fleet, shot at by the targeter
	opponent *Fleet // hidden fleet, shot at by SelectCell

	playerField *Field
	targetField *Field
	input       []bool
	targeter    *Targeter

	phase     Phase
	winner    Side
	message   string
	history   []ShotRecord
	layout    *commit.Layout
	startedAt time.Time

	fixture [2][]Ship
}

// MatchOption customizes a match at creation time
type MatchOption func(*Match)

// WithRand makes every random choice of the match come from rng
func WithRand(rng *rand.Rand) MatchOption {
	return func(m *Match) {
		m.rng = rng
	}
}

// WithLayouts places the fleets explicitly for the first round.
// A side given no ships gets a random layout. Restart always draws fresh random layouts.
func WithLayouts(player, opponent []Ship) MatchOption {
	return func(m *Match) {
		m.fixture = [2][]Ship{player, opponent}
	}
}

// NewMatch creates a match from config and places both fleets.
// A nil config uses DefaultMatchConfig and a nil presenter discards notifications.
func NewMatch(config *MatchConfig, presenter Presenter, opts ...MatchOption) (*Match, error) {
	if config == nil {
		config = DefaultMatchConfig()
	}
	if err := ValidateMatchConfig(config); err != nil {
		return nil, err
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}

	m := &Match{
		id:        uuid.NewString(),
		config:    config,
		board:     config.Board(),
		presenter: presenter,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		seed := config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		m.rng = rand.New(rand.NewSource(seed))
	}

	m.playerField = NewField(PlayerBoard, m.board)
	m.targetField = NewField(TargetBoard, m.board)
	m.input = make([]bool, m.board.Size())
	m.targeter = NewTargeter(m.rng)

	if err := m.placeFixture(); err != nil {
		return nil, err
	}

	if err := m.begin(); err != nil {
		return nil, err
	}
	return m, nil
}

// placeFixture places the first-round fleets, drawing a random layout for
// every side without fixed ships.
func (m *Match) placeFixture() error {
	var err error
	if m.player, err = m.placeSide(m.fixture[0]); err != nil {
		return fmt.Errorf("player fleet: %w", err)
	}
	if m.opponent, err = m.placeSide(m.fixture[1]); err != nil {
		return fmt.Errorf("opponent fleet: %w", err)
	}
	return nil
}

func (m *Match) placeSide(ships []Ship) (*Fleet, error) {
	if len(ships) > 0 {
		return NewFleetWithLayout(m.board, ships, m.rng)
	}
	f := NewFleet(m.board, m.config.Composition(), m.rng)
	if err := f.RandomLocation(); err != nil {
		return nil, err
	}
	return f, nil
}

// relocate draws fresh random layouts for both fleets
func (m *Match) relocate() error {
	if err := m.player.RandomLocation(); err != nil {
		return fmt.Errorf("player fleet: %w", err)
	}
	if err := m.opponent.RandomLocation(); err != nil {
		return fmt.Errorf("opponent fleet: %w", err)
	}
	return nil
}

// begin commits the hidden layout and hands the first turn to the player
func (m *Match) begin() error {
	layout, err := commit.Commit(m.opponent.Occupancy())
	if err != nil {
		return err
	}
	m.layout = layout

	for i := range m.input {
		m.input[i] = true
	}
	m.history = nil
	m.phase = PlayerTurn
	m.winner = ""
	m.message = m.config.Messages.Welcome
	m.startedAt = time.Now()
	return nil
}

// SelectCell fires the player's shot at index of the target board.
// A hit keeps the turn; a miss hands it to the opponent, whose whole
// shot sequence is resolved before SelectCell returns.
func (m *Match) SelectCell(index int) (*TurnResult, error) {
	switch m.phase {
	case Closed:
		return nil, ErrMatchClosed
	case GameOver:
		return nil, ErrGameOver
	case OpponentTurn:
		return nil, ErrNotPlayerTurn
	}
	if !m.board.ValidIndex(index) {
		return nil, fmt.Errorf("%w: %d not in 0..%d", ErrCellOutOfRange, index, m.board.Size()-1)
	}
	if !m.input[index] || !m.targetField.IsEmpty(index) {
		return nil, fmt.Errorf("%w: %s", ErrCellInactive, m.board.CellLabel(index))
	}

	m.setInput(index, false)
	result := m.opponent.Shot(m.board.Point(index))
	m.targetField.Render(index, result, m.presenter)
	shot := m.record(PlayerSide, index, result, m.opponent)

	turn := &TurnResult{PlayerShot: shot}
	label := m.board.CellLabel(index)

	if result == ShotHit {
		for _, n := range m.board.Neighbors(index, Diagonal) {
			m.setInput(n, false)
		}
		if m.opponent.IsSunk() {
			m.finish(PlayerSide)
		} else {
			m.message = formatMessage(m.config.Messages.PlayerHit, label)
		}
	} else {
		m.phase = OpponentTurn
		turn.OpponentShots = m.opponentTurn()
		if m.phase == OpponentTurn {
			m.phase = PlayerTurn
			m.message = m.describeOpponentTurn(label, turn.OpponentShots)
		}
	}

	turn.Phase = m.phase
	turn.Winner = m.winner
	turn.Message = m.message
	return turn, nil
}

// opponentTurn runs the targeter until it misses or sinks the player fleet
func (m *Match) opponentTurn() []ShotRecord {
	var shots []ShotRecord
	for {
		index, ok := m.targeter.NextShot(m.playerField)
		if !ok {
			return shots
		}

		result := m.player.Shot(m.board.Point(index))
		m.playerField.Render(index, result, m.presenter)
		shots = append(shots, m.record(OpponentSide, index, result, m.player))

		over := m.player.IsSunk()
		m.targeter.Record(index, result, over)
		m.targeter.Prune(m.playerField)

		if over {
			m.finish(OpponentSide)
			return shots
		}
		if result == ShotMiss {
			return shots
		}
	}
}

func (m *Match) describeOpponentTurn(label string, shots []ShotRecord) string {
	parts := []string{formatMessage(m.config.Messages.PlayerMiss, label)}
	for i := len(shots) - 1; i >= 0; i-- {
		if shots[i].Result == ShotHit {
			parts = append(parts, formatMessage(m.config.Messages.OpponentHit, shots[i].Label))
			break
		}
	}
	parts = append(parts, m.config.Messages.OpponentMiss)

	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// finish ends the match, locks the input surface and reveals the fleets.
// The loser's layout is revealed first; the hidden opponent layout is always revealed.
func (m *Match) finish(winner Side) {
	m.phase = GameOver
	m.winner = winner
	for i := range m.input {
		m.setInput(i, false)
	}

	if winner == OpponentSide {
		m.presenter.RevealFleet(PlayerBoard, m.player.Views())
		m.message = m.config.Messages.Defeat
	} else {
		m.message = m.config.Messages.Victory
	}
	m.presenter.RevealFleet(TargetBoard, m.opponent.Views())
}

// record appends a shot to the history
func (m *Match) record(shooter Side, index int, result ShotResult, target *Fleet) ShotRecord {
	rec := ShotRecord{
		Number:    len(m.history) + 1,
		Shooter:   shooter,
		Index:     index,
		Label:     m.board.CellLabel(index),
		Result:    result,
		Timestamp: time.Now().Unix(),
	}
	if result == ShotHit {
		if i, ok := target.ShipAt(m.board.Point(index)); ok {
			rec.Sunk = target.Ship(i).IsSunk()
		}
	}
	if shooter == PlayerSide {
		var bit uint8
		if result == ShotHit {
			bit = 1
		}
		if proof, err := m.layout.Open(index, bit); err == nil {
			rec.Proof = proof
		}
	}
	m.history = append(m.history, rec)
	return rec
}

func (m *Match) setInput(index int, enabled bool) {
	if m.input[index] == enabled {
		return
	}
	m.input[index] = enabled
	m.presenter.SetInputEnabled(index, enabled)
}

// Restart restores both fleets, draws new layouts and returns to the player's turn
func (m *Match) Restart() error {
	if m.phase == Closed {
		return ErrMatchClosed
	}

	m.player.Restore()
	m.opponent.Restore()
	if err := m.relocate(); err != nil {
		return err
	}

	m.targeter.Reset()
	m.playerField.Reset(m.presenter)
	m.targetField.Reset(m.presenter)
	for i := range m.input {
		m.setInput(i, true)
	}
	return m.begin()
}

// Quit closes the match; every later command returns ErrMatchClosed
func (m *Match) Quit() {
	if m.phase == Closed {
		return
	}
	for i := range m.input {
		m.setInput(i, false)
	}
	m.phase = Closed
	m.message = "Match closed."
}

// ID returns the match identifier
func (m *Match) ID() string { return m.id }

// Config returns the configuration the match was created from
func (m *Match) Config() *MatchConfig { return m.config }

// Board returns the frame shared by both boards
func (m *Match) Board() Board { return m.board }

// Phase returns the current turn phase
func (m *Match) Phase() Phase { return m.phase }

// Winner returns the winning side once the match is over
func (m *Match) Winner() Side { return m.winner }

// Message returns the latest status message
func (m *Match) Message() string { return m.message }

// PlayerFleet returns the human fleet
func (m *Match) PlayerFleet() *Fleet { return m.player }

// OpponentFleet returns the hidden fleet
func (m *Match) OpponentFleet() *Fleet { return m.opponent }

// PlayerField returns the board the opponent shoots at
func (m *Match) PlayerField() *Field { return m.playerField }

// TargetField returns the board the player shoots at
func (m *Match) TargetField() *Field { return m.targetField }

// Targeter returns the opponent heuristic
func (m *Match) Targeter() *Targeter { return m.targeter }

// InputEnabled reports whether the target board cell at index can be selected
func (m *Match) InputEnabled(index int) bool {
	return m.board.ValidIndex(index) && m.input[index]
}

// History returns a copy of every resolved shot in order
func (m *Match) History() []ShotRecord {
	out := make([]ShotRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Commitment returns the published layout commitment; the salt is included once the match is over
func (m *Match) Commitment() *Commitment {
	c := &Commitment{Root: m.layout.RootHex()}
	if m.phase == GameOver {
		c.Salt = m.layout.SaltHex()
	}
	return c
}

// State returns a snapshot of everything a client may see
func (m *Match) State() *MatchState {
	state := &MatchState{
		MatchID:      m.id,
		ConfigName:   m.config.Name,
		Columns:      m.board.Columns,
		Rows:         m.board.Rows,
		Phase:        m.phase,
		Winner:       m.winner,
		Message:      m.message,
		PlayerBoard:  m.playerField.Cells(),
		TargetBoard:  m.targetField.Cells(),
		InputEnabled: make([]bool, len(m.input)),
		PlayerFleet:  m.player.Views(),
		PendingHits:  m.targeter.Pending(),
		Commitment:   m.Commitment(),
		ShotHistory:  m.History(),
		StartedAt:    m.startedAt,
	}
	copy(state.InputEnabled, m.input)
	if m.phase == GameOver {
		state.TargetFleet = m.opponent.Views()
	}

	for _, rec := range m.history {
		switch {
		case rec.Shooter == PlayerSide:
			state.PlayerShots++
			if rec.Result == ShotHit {
				state.PlayerHits++
			}
		case rec.Result == ShotHit:
			state.OpponentHits++
		}
	}
	return state
}

func formatMessage(msg, label string) string {
	if msg == "" || !strings.Contains(msg, "%s") {
		return msg
	}
	return fmt.Sprintf(msg, label)
}
