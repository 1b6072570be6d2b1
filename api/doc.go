// Package api provides HTTP REST API handlers for the naval battle game.
//
// The api package implements:
//   - Session management endpoints
//   - The select, restart and quit commands
//   - Shot history with pagination
//   - Configuration listing, lookup and upload
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "compact"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/unified - Multi-session view (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Match:
//   - GET /api/sessions/{id}/state - Current match state
//   - POST /api/sessions/{id}/fire - Shoot at the target board
//   - POST /api/sessions/{id}/restart - New layouts, player's turn
//   - POST /api/sessions/{id}/quit - Close the match
//   - GET /api/sessions/{id}/history - Shot history (?page&limit&order&shooter=player|opponent)
//   - GET /api/help - Rules and fleet table (?session=id)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /ws?session=id - WebSocket feed of presenter events
//   - GET /health - Liveness check
//
// Fire accepts one of three target forms:
//
//	{"index": 71}
//	{"x": 1, "y": 7}
//	{"cell": "B7"}
//
// The target is bounds-checked against the session board before the
// service is called. A shot at a resolved or deactivated cell answers 200
// with "accepted": false.
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code:
//
//	{"error": "game is over"}
//
// Unknown sessions and configs map to 404, bad targets and invalid configs
// to 400, and commands that do not fit the match phase to 409.
package api
