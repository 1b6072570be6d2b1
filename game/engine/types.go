package engine

import (
	"time"

	"github.com/wricardo/mcp-training/navalbattle/game/commit"
)

// CellState represents the shot state of a single board cell
type CellState string

const (
	Empty CellState = "empty"
	Hit   CellState = "hit"
	Miss  CellState = "miss"
)

// ShotResult is the outcome of a shot against a ship or a fleet
type ShotResult string

const (
	ShotMiss ShotResult = "miss"
	ShotHit  ShotResult = "hit"
)

// ShipKind identifies a ship class; the value is the ship length in cells
type ShipKind int

const (
	TorpedoBoat ShipKind = 1
	Destroyer   ShipKind = 2
	Cruiser     ShipKind = 3
	Battleship  ShipKind = 4
)

// String returns the display name of the ship kind
func (k ShipKind) String() string {
	switch k {
	case TorpedoBoat:
		return "torpedo boat"
	case Destroyer:
		return "destroyer"
	case Cruiser:
		return "cruiser"
	case Battleship:
		return "battleship"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the known ship kinds
func (k ShipKind) Valid() bool {
	return k >= TorpedoBoat && k <= Battleship
}

// Orientation is the axis a ship is laid out along
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Side identifies one of the two fleets
type Side string

const (
	PlayerSide   Side = "player"
	OpponentSide Side = "opponent"
)

// BoardID identifies which board a presenter call refers to
type BoardID string

const (
	// PlayerBoard holds the human fleet; the opponent shoots at it.
	PlayerBoard BoardID = "player"
	// TargetBoard holds the opponent fleet; the human shoots at it.
	TargetBoard BoardID = "target"
)

// Phase is the turn state of a match
type Phase string

const (
	PlayerTurn   Phase = "player_turn"
	OpponentTurn Phase = "opponent_turn"
	GameOver     Phase = "game_over"
	Closed       Phase = "closed"
)

const (
	// Validation constants
	MinBoardSize         = 1
	MaxBoardSize         = 20
	DefaultColumns       = 10
	DefaultRows          = 10
	MaxShipsPerKind      = 10
	MaxPlacementAttempts = 10000
	MaxLayoutRestarts    = 50
)

// Point represents x,y coordinates on a board
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipView is a read-only snapshot of a ship used for rendering and reveals
type ShipView struct {
	Kind        ShipKind    `json:"kind"`
	Name        string      `json:"name"`
	Orientation Orientation `json:"orientation"`
	Head        Point       `json:"head"`
	Cells       []int       `json:"cells"`
	Hits        []bool      `json:"hits"`
	Sunk        bool        `json:"sunk"`
}

// ShotRecord represents a single resolved shot in the match history
type ShotRecord struct {
	Number    int             `json:"number"`
	Shooter   Side            `json:"shooter"`
	Index     int             `json:"index"`
	Label     string          `json:"label"`
	Result    ShotResult      `json:"result"`
	Sunk      bool            `json:"sunk,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Proof     *commit.Opening `json:"proof,omitempty"` // player shots only; verifiable once the salt is revealed
}

// TurnResult describes everything a single player selection caused
type TurnResult struct {
	PlayerShot    ShotRecord   `json:"player_shot"`
	OpponentShots []ShotRecord `json:"opponent_shots,omitempty"`
	Phase         Phase        `json:"phase"`
	Winner        Side         `json:"winner,omitempty"`
	Message       string       `json:"message"`
}

// MatchState is the complete externally visible state of a match
type MatchState struct {
	MatchID      string       `json:"match_id"`
	ConfigName   string       `json:"config_name"`
	Columns      int          `json:"columns"`
	Rows         int          `json:"rows"`
	Phase        Phase        `json:"phase"`
	Winner       Side         `json:"winner,omitempty"`
	Message      string       `json:"message"`
	PlayerBoard  []CellState  `json:"player_board"`
	TargetBoard  []CellState  `json:"target_board"`
	InputEnabled []bool       `json:"input_enabled"`
	PlayerFleet  []ShipView   `json:"player_fleet"`
	TargetFleet  []ShipView   `json:"target_fleet,omitempty"`
	PlayerShots  int          `json:"player_shots"`
	PlayerHits   int          `json:"player_hits"`
	OpponentHits int          `json:"opponent_hits"`
	PendingHits  []int        `json:"pending_hits,omitempty"`
	Commitment   *Commitment  `json:"commitment,omitempty"`
	ShotHistory  []ShotRecord `json:"shot_history"`
	StartedAt    time.Time    `json:"started_at"`
}

// Commitment publishes a hash of the hidden opponent layout at match start.
// Salt stays empty until the match is over.
type Commitment struct {
	Root string `json:"root"`
	Salt string `json:"salt,omitempty"`
}
