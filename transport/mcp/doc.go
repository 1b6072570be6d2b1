// Package mcp exposes the naval battle REST API as Model Context Protocol tools.
//
// The client is thin: every tool translates its arguments into one REST call
// and renders the JSON reply as text for the agent. Boards are drawn side by
// side, the agent's own fleet on the left and the enemy board on the right.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state: both boards as ASCII grids
//   - fire: shoot by label (B7), row-major index or x/y
//   - restart_game, quit_game
//   - shot_history: paginated, optionally filtered by shooter
//   - list_configs, game_instructions
//   - verify_layout: check the revealed enemy layout against its commitment
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
