package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session with a freshly placed match
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.MatchConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Prefer the requested config_id, otherwise look it up by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info("session created", "session", session.ID, "config", configID, "match", session.Match.ID())

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Match.State(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name), // Return config_id consistently
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Match.State(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Match.State(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info("session deleted", "session", sessionID)
	return nil
}

// Fire selects a cell of the target board for a session.
// Selecting a cell that is no longer selectable is reported as a rejected shot, not an error.
func (s *gameServiceImpl) Fire(ctx context.Context, sessionID string, index int) (*FireResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	board := sess.Match.Board()
	if !board.ValidIndex(index) {
		return nil, fmt.Errorf("%w: %d not in 0..%d", engine.ErrCellOutOfRange, index, board.Size()-1)
	}
	label := board.CellLabel(index)

	turn, err := sess.Match.SelectCell(index)
	if errors.Is(err, engine.ErrCellInactive) {
		log.Debug("shot rejected", "session", sess.ID, "cell", label)
		return &FireResult{
			Accepted:  false,
			Cell:      label,
			Message:   sess.Config.Messages.AlreadyShot,
			Events:    sess.Events.Drain(),
			GameState: sess.Match.State(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	log.Debug("shot fired", "session", sess.ID, "cell", label, "result", turn.PlayerShot.Result,
		"opponent_shots", len(turn.OpponentShots), "phase", turn.Phase)
	if turn.Phase == engine.GameOver {
		log.Info("match over", "session", sess.ID, "winner", turn.Winner)
	}

	return &FireResult{
		Accepted:  true,
		Cell:      label,
		Turn:      turn,
		Message:   turn.Message,
		Events:    sess.Events.Drain(),
		GameState: sess.Match.State(),
		GameOver:  turn.Phase == engine.GameOver,
		Winner:    turn.Winner,
	}, nil
}

// Restart draws new layouts for both fleets of a session
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	if err := sess.Match.Restart(); err != nil {
		return nil, fmt.Errorf("failed to restart match: %w", err)
	}
	log.Info("match restarted", "session", sess.ID)

	return &CommandResult{
		Action:    "restart",
		Message:   sess.Match.Message(),
		Events:    sess.Events.Drain(),
		GameState: sess.Match.State(),
	}, nil
}

// Quit closes the match of a session; the session itself stays until deleted or expired
func (s *gameServiceImpl) Quit(ctx context.Context, sessionID string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Match.Quit()
	log.Info("match closed", "session", sess.ID)

	return &CommandResult{
		Action:    "quit",
		Message:   sess.Match.Message(),
		Events:    sess.Events.Drain(),
		GameState: sess.Match.State(),
	}, nil
}

// Help returns the rules and the fleet table of a session, or of the default config
func (s *gameServiceImpl) Help(ctx context.Context, sessionID string) string {
	if sessionID != "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if sess, err := s.sessions.Get(sessionID); err == nil {
			return engine.Help(sess.Config)
		}
	}
	return engine.Help(s.configs.GetDefault())
}

// GetGameState retrieves the current match state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.MatchState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Match.State(), nil
}

// GetShotHistory returns paginated shot history
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Match.History()
	if opts.Shooter != "" {
		filtered := history[:0]
		for _, rec := range history {
			if rec.Shooter == opts.Shooter {
				filtered = append(filtered, rec)
			}
		}
		history = filtered
	}
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of shots
	var shots []engine.ShotRecord
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			shots = append(shots, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			shots = history[start:end]
		}
	}

	// Ensure shots is not nil
	if shots == nil {
		shots = []engine.ShotRecord{}
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available match configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific match configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.MatchConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a match configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.MatchConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	log.Info("config saved", "config", configName)
	return nil
}
