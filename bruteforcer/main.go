package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type ShotRecord struct {
	Number  int    `json:"number"`
	Shooter string `json:"shooter"`
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Result  string `json:"result"`
	Sunk    bool   `json:"sunk,omitempty"`
}

type GameState struct {
	MatchID      string       `json:"match_id"`
	Columns      int          `json:"columns"`
	Rows         int          `json:"rows"`
	Phase        string       `json:"phase"`
	Winner       string       `json:"winner,omitempty"`
	Message      string       `json:"message"`
	TargetBoard  []string     `json:"target_board"`
	InputEnabled []bool       `json:"input_enabled"`
	PlayerShots  int          `json:"player_shots"`
	PlayerHits   int          `json:"player_hits"`
	OpponentHits int          `json:"opponent_hits"`
	ShotHistory  []ShotRecord `json:"shot_history"`
}

// Over reports whether the match accepts no more shots
func (s *GameState) Over() bool {
	return s.Phase == "game_over" || s.Phase == "closed"
}

type SessionResponse struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	GameState  *GameState `json:"game_state"`
}

type FireRequest struct {
	Index int `json:"index"`
}

type FireResponse struct {
	Accepted  bool       `json:"accepted"`
	Cell      string     `json:"cell"`
	Message   string     `json:"message"`
	GameState *GameState `json:"game_state"`
	GameOver  bool       `json:"game_over"`
	Winner    string     `json:"winner,omitempty"`
}

type CommandResponse struct {
	Action    string     `json:"action"`
	Message   string     `json:"message"`
	GameState *GameState `json:"game_state"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends body as JSON and decodes a 2xx reply into out
func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) CreateSession(configID string) (*GameState, error) {
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session SessionResponse
	if err := c.do("POST", "/api/sessions", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	var state GameState
	if err := c.do("GET", "/api/sessions/"+c.sessionID+"/state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Fire(index int) (*FireResponse, error) {
	var result FireResponse
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/fire", FireRequest{Index: index}, &result); err != nil {
		return nil, fmt.Errorf("fire: %w", err)
	}
	return &result, nil
}

func (c *Client) Restart() (*GameState, error) {
	var result CommandResponse
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/restart", nil, &result); err != nil {
		return nil, fmt.Errorf("restart: %w", err)
	}
	return result.GameState, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Config ID for a new session (classic, compact, grand)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	games := flag.Int("games", 10, "Number of matches to play")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between shots in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := *continueSession
	if savedSessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		if state, err = client.GetState(); err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*configID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s", client.sessionID)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}
	log.Printf("Board: %dx%d", state.Columns, state.Rows)

	wins, totalShots := 0, 0
	for game := 1; game <= *games; game++ {
		// Every game starts from fresh layouts
		if game > 1 || state.Over() || state.PlayerShots > 0 {
			if state, err = client.Restart(); err != nil {
				log.Fatalf("Failed to restart: %v", err)
			}
		}

		strategy := NewSystematicStrategy(state.Columns, state.Rows)
		log.Printf("\n=== 🎮 Game %d/%d ===", game, *games)

		for !state.Over() {
			index, ok := strategy.NextShot(state)
			if !ok {
				log.Printf("⚠️  No selectable cell left")
				break
			}

			result, err := client.Fire(index)
			if err != nil {
				log.Fatalf("Shot failed: %v", err)
			}
			if *verbose {
				log.Printf("%s: %s", result.Cell, result.Message)
			}
			if !result.Accepted {
				strategy.Skip(index)
			}
			state = result.GameState

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		totalShots += state.PlayerShots
		if state.Winner == "player" {
			wins++
			log.Printf("🎉 VICTORY in %d shots (%d hits taken)", state.PlayerShots, state.OpponentHits)
		} else {
			log.Printf("❌ Defeat after %d shots (%d hits scored)", state.PlayerShots, state.PlayerHits)
		}
	}

	log.Printf("\nSession %s: won %d of %d games, %.1f shots per game",
		client.sessionID, wins, *games, float64(totalShots)/float64(*games))
	if wins == 0 {
		os.Exit(1)
	}
}
