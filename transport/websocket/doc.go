// Package websocket provides the live presentation feed for naval battle sessions.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Broadcasting of presenter events and match snapshots
//   - Inbound select, restart and quit commands
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub owns every
// connection map. Each client connection has a read pump and a write pump;
// all map mutation and fan-out happens on the hub's event loop.
//
// Message Protocol:
//
// Messages are JSON-encoded, one document per frame:
//   - Incoming: {"action": "select", "index": 42}, {"action": "restart"}, {"action": "quit"}
//   - Outgoing: {"session_id": "ab12", "event": "presenter", "events": [...], "game_state": {...}}
//
// Presenter events are render_cell, reveal_fleet and input, in the order the
// match produced them. Command failures are answered to the sending client
// only, with event "error".
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetCommandHandler(func(ctx context.Context, sessionID string, cmd websocket.Command) error {
//		// run the command, then broadcast the result
//	})
//	go hub.Run()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
