package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Match Commands
	Fire(ctx context.Context, sessionID string, index int) (*FireResult, error)
	Restart(ctx context.Context, sessionID string) (*CommandResult, error)
	Quit(ctx context.Context, sessionID string) (*CommandResult, error)
	Help(ctx context.Context, sessionID string) string

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.MatchState, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.MatchConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.MatchConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles match configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.MatchConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.MatchConfig
	SaveConfig(name string, config *engine.MatchConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Match          *engine.Match
	Events         *engine.EventRecorder // presenter wired into Match
	Config         *engine.MatchConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
