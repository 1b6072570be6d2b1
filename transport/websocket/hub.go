package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for a command handler to finish.
	commandTimeout = 5 * time.Second
)

// Event names pushed to clients
const (
	EventStateUpdate = "state_update"
	EventPresenter   = "presenter"
	EventError       = "error"
)

// Command actions accepted from clients
const (
	ActionSelect  = "select"
	ActionRestart = "restart"
	ActionQuit    = "quit"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	SessionID string                  `json:"session_id"`
	GameState *engine.MatchState      `json:"game_state,omitempty"`
	Event     string                  `json:"event,omitempty"`
	Events    []engine.PresenterEvent `json:"events,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Error     string                  `json:"error,omitempty"`
	Data      interface{}             `json:"data,omitempty"`
}

// Command is an inbound frame from a client: {"action":"select","index":42}
type Command struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

// CommandHandler executes a client command for a session.
// Results are expected to come back to clients through the broadcast methods.
type CommandHandler func(ctx context.Context, sessionID string, cmd Command) error

// Client represents a WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Outbound messages for every client of a session
	broadcast chan *Message

	// Outbound messages for a single client
	direct chan directMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Count requests, answered from the event loop
	count chan countRequest

	handler CommandHandler
}

type countRequest struct {
	sessionID string
	reply     chan int
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan countRequest),
	}
}

// SetCommandHandler installs the handler for inbound commands.
// It must be called before clients connect.
func (h *Hub) SetCommandHandler(handler CommandHandler) {
	h.handler = handler
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			if clients, ok := h.sessions[dm.client.sessionID]; ok && clients[dm.client] {
				select {
				case dm.client.send <- dm.data:
				default:
					h.unregisterClient(dm.client)
				}
			}

		case req := <-h.count:
			req.reply <- len(h.sessions[req.sessionID])
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "session", sessionID, "err", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of clients connected to a session
func (h *Hub) ClientCount(sessionID string) int {
	reply := make(chan int, 1)
	h.count <- countRequest{sessionID: sessionID, reply: reply}
	return <-reply
}

// BroadcastToSession sends a game state update to all clients in a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.MatchState) {
	message := &Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventStateUpdate,
	}
	if state != nil {
		message.Message = state.Message
	}
	h.broadcast <- message
}

// BroadcastEvents sends presenter notifications followed by the resulting state
func (h *Hub) BroadcastEvents(sessionID string, events []engine.PresenterEvent, state *engine.MatchState) {
	message := &Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventPresenter,
		Events:    events,
	}
	if state != nil {
		message.Message = state.Message
	}
	h.broadcast <- message
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	message := &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}

	h.broadcast <- message
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	log.Debug("websocket client registered", "session", client.sessionID,
		"clients", len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Debug("websocket client unregistered", "session", client.sessionID,
				"clients", len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error("failed to marshal broadcast message", "session", message.SessionID, "err", err)
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				h.unregisterClient(client)
			}
		}
	}
}

// reply queues a message for this client only
func (c *Client) reply(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error("failed to marshal reply", "session", c.sessionID, "err", err)
		return
	}
	c.hub.direct <- directMessage{client: c, data: data}
}

// dispatch decodes one inbound frame and hands it to the command handler
func (c *Client) dispatch(frame []byte) {
	var cmd Command
	if err := json.Unmarshal(frame, &cmd); err != nil {
		c.reply(&Message{SessionID: c.sessionID, Event: EventError, Error: "malformed command: " + err.Error()})
		return
	}

	switch cmd.Action {
	case ActionSelect, ActionRestart, ActionQuit:
	default:
		c.reply(&Message{SessionID: c.sessionID, Event: EventError, Error: "unknown action: " + cmd.Action})
		return
	}

	if c.hub.handler == nil {
		c.reply(&Message{SessionID: c.sessionID, Event: EventError, Error: "commands are not accepted on this connection"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := c.hub.handler(ctx, c.sessionID, cmd); err != nil {
		log.Debug("websocket command failed", "session", c.sessionID, "action", cmd.Action, "err", err)
		c.reply(&Message{SessionID: c.sessionID, Event: EventError, Error: err.Error()})
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read error", "session", c.sessionID, "err", err)
			}
			break
		}
		c.dispatch(frame)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame so clients can decode each frame directly
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
