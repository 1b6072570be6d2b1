package main

import "testing"

func emptyState(width, height int) *GameState {
	state := &GameState{
		Columns:      width,
		Rows:         height,
		Phase:        "player_turn",
		TargetBoard:  make([]string, width*height),
		InputEnabled: make([]bool, width*height),
	}
	for i := range state.TargetBoard {
		state.TargetBoard[i] = "empty"
		state.InputEnabled[i] = true
	}
	return state
}

func TestSystematicStrategy_SweepParity(t *testing.T) {
	s := NewSystematicStrategy(4, 4)
	if len(s.sweep) != 16 {
		t.Fatalf("Expected every cell planned, got %d", len(s.sweep))
	}
	for k, i := range s.sweep[:8] {
		if (i%4+i/4)%2 != 0 {
			t.Errorf("Sweep step %d (cell %d) is not on the even parity", k, i)
		}
	}

	state := emptyState(4, 4)
	if i, ok := s.NextShot(state); !ok || i != 0 {
		t.Errorf("Expected first shot at cell 0, got %d", i)
	}
}

func TestSystematicStrategy_SkipsResolvedCells(t *testing.T) {
	s := NewSystematicStrategy(4, 4)
	state := emptyState(4, 4)
	state.TargetBoard[0] = "miss"
	state.InputEnabled[2] = false

	i, _ := s.NextShot(state)
	if i != 5 {
		t.Errorf("Expected cell 5 after skipping 0 and 2, got %d", i)
	}

	s.Skip(5)
	if i, _ = s.NextShot(state); i != 7 {
		t.Errorf("Expected cell 7 after skipping 5, got %d", i)
	}
}

func TestSystematicStrategy_FinishesWoundedShip(t *testing.T) {
	s := NewSystematicStrategy(5, 5)
	state := emptyState(5, 5)

	// Two hits in a row: next shot extends the line
	state.TargetBoard[11] = "hit"
	state.TargetBoard[12] = "hit"
	state.ShotHistory = []ShotRecord{
		{Shooter: "player", Index: 11, Result: "hit"},
		{Shooter: "player", Index: 12, Result: "hit"},
	}

	i, ok := s.NextShot(state)
	if !ok || (i != 10 && i != 13) {
		t.Errorf("Expected a shot along row 2, got %d", i)
	}

	// Once sunk the ship is no longer chased
	state.ShotHistory[1].Sunk = true
	s.next = 0
	if i, _ = s.NextShot(state); i != 0 {
		t.Errorf("Expected the sweep to resume at cell 0, got %d", i)
	}
}

func TestSystematicStrategy_SingleHitProbesNeighbors(t *testing.T) {
	s := NewSystematicStrategy(3, 3)
	state := emptyState(3, 3)
	state.TargetBoard[4] = "hit"
	state.InputEnabled[1] = false

	i, ok := s.NextShot(state)
	if !ok || i != 5 {
		t.Errorf("Expected the right neighbor 5 after the disabled top neighbor, got %d", i)
	}
}

func TestSystematicStrategy_Exhausted(t *testing.T) {
	s := NewSystematicStrategy(2, 1)
	state := emptyState(2, 1)
	state.TargetBoard[0] = "miss"
	state.TargetBoard[1] = "miss"

	if _, ok := s.NextShot(state); ok {
		t.Error("Expected no shot on a resolved board")
	}
}
