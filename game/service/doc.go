// Package service provides the business logic layer for the naval battle game.
//
// The service package implements:
//   - Multi-session match management
//   - Configuration management and loading
//   - Shot processing and boundary checks
//   - Session lifecycle management
//   - Shot history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages match configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine.Match wired to an
// engine.EventRecorder; the presenter events recorded during a command are
// drained into the command result so transports can forward them.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Fire at B7
//	result, err := gameService.Fire(ctx, sessionInfo.ID, 71)
//
// Concurrency:
//
// A Match is not safe for concurrent use; the service serialises every
// command with its own lock, so the opponent's whole shot sequence runs
// to completion before another request touches the session.
package service
