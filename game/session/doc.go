// Package session provides session management for the naval battle game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns an engine.Match wired to an engine.EventRecorder,
// plus metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with live sessions.
//
// Matches are in-memory only; a session disappears when it is deleted,
// expires, or the process exits.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Remove sessions idle for more than 24 hours
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
