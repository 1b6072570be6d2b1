package service

import (
	"time"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.MatchState  `json:"game_state"`
	GameConfig     *engine.MatchConfig `json:"game_config"`
}

// FireResult contains the result of a select_cell command
type FireResult struct {
	Accepted  bool                    `json:"accepted"`
	Cell      string                  `json:"cell"`
	Turn      *engine.TurnResult      `json:"turn,omitempty"`
	Message   string                  `json:"message"`
	Events    []engine.PresenterEvent `json:"events,omitempty"`
	GameState *engine.MatchState      `json:"game_state"`
	GameOver  bool                    `json:"game_over"`
	Winner    engine.Side             `json:"winner,omitempty"`
}

// CommandResult contains the result of a restart or quit command
type CommandResult struct {
	Action    string                  `json:"action"` // "restart" or "quit"
	Message   string                  `json:"message"`
	Events    []engine.PresenterEvent `json:"events,omitempty"`
	GameState *engine.MatchState      `json:"game_state"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	Order   string      `json:"order"`   // "asc" or "desc"
	Shooter engine.Side `json:"shooter"` // empty for both sides
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []engine.ShotRecord `json:"shots"`
	TotalShots  int                 `json:"total_shots"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a match configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	Ships       int    `json:"ships"`
	FleetCells  int    `json:"fleet_cells"`
}
