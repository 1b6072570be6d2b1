package engine

// Engine provides the main interface for match operations
type Engine interface {
	// Commands from the presentation layer
	SelectCell(index int) (*TurnResult, error)
	Restart() error
	Quit()

	// Match state
	ID() string
	Phase() Phase
	Winner() Side
	Message() string
	State() *MatchState
	InputEnabled(index int) bool

	// Configuration
	Config() *MatchConfig
	Board() Board

	// History
	History() []ShotRecord
	Commitment() *Commitment
}

var _ Engine = (*Match)(nil)
