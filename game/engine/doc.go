// Package engine provides the core game logic for the naval battle game.
//
// The engine package implements the game mechanics including:
//   - Row-major grid geometry with edge clamping
//   - Ships, fleets and random placement without touching ships
//   - The opponent targeting heuristic
//   - The turn state machine, win detection and restart
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for match operations,
// implemented by Match. A Match owns two Fleets and two Fields: the player
// shoots at the target field through SelectCell, the Targeter shoots back at
// the player field. Every cell change is reported to a Presenter.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	match, err := engine.NewMatch(config, engine.NewEventRecorder())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	turn, err := match.SelectCell(42)
//	state := match.State()
//
// Game Rules:
//
// See Rules. A hit keeps the turn, a miss passes it. Diagonal neighbors of a
// hit can never hold a ship, so they are marked as misses on both boards.
package engine
