package engine

import "sync"

// Presenter is the rendering collaborator notified by a match.
// Implementations must not call back into the match.
type Presenter interface {
	// RenderCell is invoked whenever a cell state changes
	RenderCell(board BoardID, index int, state CellState)
	// RevealFleet is invoked on game over with the unmasked layout of a fleet
	RevealFleet(board BoardID, ships []ShipView)
	// SetInputEnabled toggles whether a target board cell can be selected
	SetInputEnabled(index int, enabled bool)
}

// NopPresenter ignores every notification
type NopPresenter struct{}

func (NopPresenter) RenderCell(BoardID, int, CellState) {}
func (NopPresenter) RevealFleet(BoardID, []ShipView)    {}
func (NopPresenter) SetInputEnabled(int, bool)          {}

// Presenter event types
const (
	EventRenderCell = "render_cell"
	EventReveal     = "reveal_fleet"
	EventInput      = "input"
)

// PresenterEvent is one recorded presenter notification
type PresenterEvent struct {
	Type    string     `json:"type"`
	Board   BoardID    `json:"board,omitempty"`
	Index   int        `json:"index"`
	State   CellState  `json:"state,omitempty"`
	Enabled bool       `json:"enabled,omitempty"`
	Ships   []ShipView `json:"ships,omitempty"`
}

// EventRecorder buffers presenter notifications until they are drained
type EventRecorder struct {
	mu     sync.Mutex
	events []PresenterEvent
}

// NewEventRecorder creates an empty recorder
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) RenderCell(board BoardID, index int, state CellState) {
	r.add(PresenterEvent{Type: EventRenderCell, Board: board, Index: index, State: state})
}

func (r *EventRecorder) RevealFleet(board BoardID, ships []ShipView) {
	r.add(PresenterEvent{Type: EventReveal, Board: board, Index: -1, Ships: ships})
}

func (r *EventRecorder) SetInputEnabled(index int, enabled bool) {
	r.add(PresenterEvent{Type: EventInput, Board: TargetBoard, Index: index, Enabled: enabled})
}

// Drain returns and clears the buffered events
func (r *EventRecorder) Drain() []PresenterEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Len returns the number of buffered events
func (r *EventRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *EventRecorder) add(e PresenterEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}
