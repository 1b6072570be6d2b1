package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/navalbattle/game/config"
	"github.com/wricardo/mcp-training/navalbattle/game/engine"
	"github.com/wricardo/mcp-training/navalbattle/game/service"
	"github.com/wricardo/mcp-training/navalbattle/game/session"
	"github.com/wricardo/mcp-training/navalbattle/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server.
// When hub is non-nil, WebSocket clients can also send commands through it.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	if hub != nil {
		hub.SetCommandHandler(s.handleCommand)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	// Unified sessions for multi-session view (must be before {id} pattern)
	api.HandleFunc("/sessions/unified", s.handleUnifiedSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Match commands
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/fire", s.handleFire).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")
	api.HandleFunc("/sessions/{id}/quit", s.handleQuit).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/help", s.handleHelp).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrCellOutOfRange), errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrCellInactive),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotPlayerTurn),
		errors.Is(err, engine.ErrMatchClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	// Support both new and old parameter names, but prefer config_id
	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		status := statusFor(err)
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	total := len(sessions)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	err := s.service.DeleteSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(hubKey(sessionID), "session_deleted", nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Match Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// fireRequest addresses a target cell by index, by coordinates or by label
type fireRequest struct {
	Index *int   `json:"index,omitempty"`
	X     *int   `json:"x,omitempty"`
	Y     *int   `json:"y,omitempty"`
	Cell  string `json:"cell,omitempty"`
}

// resolve converts the request to a cell index on board
func (req fireRequest) resolve(board engine.Board) (int, error) {
	switch {
	case req.Index != nil:
		if !board.ValidIndex(*req.Index) {
			return 0, fmt.Errorf("%w: %d not in 0..%d", engine.ErrCellOutOfRange, *req.Index, board.Size()-1)
		}
		return *req.Index, nil
	case req.X != nil && req.Y != nil:
		p := engine.Point{X: *req.X, Y: *req.Y}
		if !board.Contains(p) {
			return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d board", engine.ErrCellOutOfRange, p.X, p.Y, board.Columns, board.Rows)
		}
		return board.Index(p), nil
	case req.Cell != "":
		return board.ParseCellLabel(req.Cell)
	default:
		return 0, fmt.Errorf("%w: one of index, x/y or cell is required", engine.ErrCellOutOfRange)
	}
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req fireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	index, err := req.resolve(engine.NewBoard(state.Columns, state.Rows))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.Fire(r.Context(), sessionID, index)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.Events, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Restart(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.Events, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Quit(r.Context(), sessionID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(sessionID, result.Events, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	respondJSON(w, http.StatusOK, map[string]string{
		"help": s.service.Help(r.Context(), sessionID),
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	switch shooter := engine.Side(query.Get("shooter")); shooter {
	case engine.PlayerSide, engine.OpponentSide:
		opts.Shooter = shooter
	}

	history, err := s.service.GetShotHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// broadcast pushes presenter events and the resulting state to WebSocket clients
func (s *Server) broadcast(sessionID string, events []engine.PresenterEvent, state *engine.MatchState) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvents(hubKey(sessionID), events, state)
}

// hubKey normalizes a session ID the way session lookup does
func hubKey(sessionID string) string {
	return strings.ToLower(sessionID)
}

// handleCommand runs a command received over WebSocket
func (s *Server) handleCommand(ctx context.Context, sessionID string, cmd websocket.Command) error {
	switch cmd.Action {
	case websocket.ActionSelect:
		result, err := s.service.Fire(ctx, sessionID, cmd.Index)
		if err != nil {
			return err
		}
		s.broadcast(sessionID, result.Events, result.GameState)
		if !result.Accepted {
			return errors.New(result.Message)
		}
	case websocket.ActionRestart:
		result, err := s.service.Restart(ctx, sessionID)
		if err != nil {
			return err
		}
		s.broadcast(sessionID, result.Events, result.GameState)
	case websocket.ActionQuit:
		result, err := s.service.Quit(ctx, sessionID)
		if err != nil {
			return err
		}
		s.broadcast(sessionID, result.Events, result.GameState)
	default:
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
	return nil
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	matchConfig, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, matchConfig)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
		engine.MatchConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	configID := req.ConfigID
	if configID == "" {
		configID = strings.ToLower(strings.Join(strings.Fields(req.Name), "_"))
	}

	matchConfig := req.MatchConfig
	if err := s.service.SaveConfig(r.Context(), configID, &matchConfig); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		respondError(w, status, fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// Unified Sessions Handler

func (s *Server) handleUnifiedSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var sessions []*service.SessionInfo

	if sessionIDs := query.Get("sessionIds"); sessionIDs != "" {
		ids := strings.Split(sessionIDs, ",")
		sessions = make([]*service.SessionInfo, 0, len(ids))
		for _, id := range ids {
			id = strings.TrimSpace(id)
			if id != "" {
				info, err := s.service.GetSession(r.Context(), id)
				if err == nil {
					sessions = append(sessions, info)
				}
			}
		}
	} else if configName := query.Get("configName"); configName != "" {
		allSessions, err := s.service.ListSessions(r.Context())
		if err == nil {
			sessions = make([]*service.SessionInfo, 0)
			for _, info := range allSessions {
				if info.ConfigName == configName {
					sessions = append(sessions, info)
				}
			}
		}
	} else {
		allSessions, err := s.service.ListSessions(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		sessions = allSessions
	}

	configName := ""
	fleetCells := 0
	if len(sessions) > 0 {
		configName = sessions[0].ConfigName
		if sessions[0].GameConfig != nil {
			fleetCells = sessions[0].GameConfig.FleetCells()
		}
	}

	entries := make([]map[string]interface{}, 0, len(sessions))
	for _, info := range sessions {
		entries = append(entries, map[string]interface{}{
			"session_id":    info.ID,
			"config_name":   info.ConfigName,
			"game_state":    info.GameState,
			"created_at":    info.CreatedAt,
			"last_accessed": info.LastAccessedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"config_name": configName,
		"fleet_cells": fleetCells,
		"sessions":    entries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	log.Debug("websocket connect", "session", info.ID, "remote", r.RemoteAddr)
	s.hub.ServeWS(w, r, hubKey(info.ID))
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
