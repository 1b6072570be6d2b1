package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FleetEntry is one line of a fleet composition: count ships of a kind
type FleetEntry struct {
	Kind  ShipKind `json:"kind"`
	Count int      `json:"count"`
}

// MatchMessages holds the texts shown to the player
type MatchMessages struct {
	Welcome      string `json:"welcome"`
	PlayerHit    string `json:"player_hit"`
	PlayerMiss   string `json:"player_miss"`
	OpponentHit  string `json:"opponent_hit"`
	OpponentMiss string `json:"opponent_miss"`
	Victory      string `json:"victory"`
	Defeat       string `json:"defeat"`
	AlreadyShot  string `json:"already_shot"`
}

// MatchConfig represents the match configuration from JSON
type MatchConfig struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Columns     int           `json:"columns"`
	Rows        int           `json:"rows"`
	Fleet       []FleetEntry  `json:"fleet"`
	Seed        int64         `json:"seed,omitempty"` // 0 means a fresh random seed per match
	Messages    MatchMessages `json:"messages"`
}

// Board returns the board frame described by the config
func (c *MatchConfig) Board() Board {
	return NewBoard(c.Columns, c.Rows)
}

// Composition expands the fleet entries into placement order, longest ships first
func (c *MatchConfig) Composition() []ShipKind {
	var kinds []ShipKind
	for kind := Battleship; kind >= TorpedoBoat; kind-- {
		for _, entry := range c.Fleet {
			if entry.Kind != kind {
				continue
			}
			for i := 0; i < entry.Count; i++ {
				kinds = append(kinds, kind)
			}
		}
	}
	return kinds
}

// FleetCells returns the number of cells covered by the whole fleet
func (c *MatchConfig) FleetCells() int {
	total := 0
	for _, entry := range c.Fleet {
		total += int(entry.Kind) * entry.Count
	}
	return total
}

// ValidateMatchConfig validates a match configuration for correctness and playability
func ValidateMatchConfig(config *MatchConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if config.Columns < MinBoardSize || config.Columns > MaxBoardSize {
		return fmt.Errorf("config validation: columns must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Columns)
	}
	if config.Rows < MinBoardSize || config.Rows > MaxBoardSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.Rows)
	}

	// Validate fleet
	if len(config.Fleet) == 0 {
		return fmt.Errorf("config validation: fleet must contain at least one entry")
	}
	seen := make(map[ShipKind]bool)
	ships := 0
	for i, entry := range config.Fleet {
		if !entry.Kind.Valid() {
			return fmt.Errorf("config validation: fleet[%d] has unknown kind %d", i, entry.Kind)
		}
		if seen[entry.Kind] {
			return fmt.Errorf("config validation: fleet[%d] repeats kind %s", i, entry.Kind)
		}
		seen[entry.Kind] = true
		if entry.Count < 0 || entry.Count > MaxShipsPerKind {
			return fmt.Errorf("config validation: fleet[%d] count must be between 0 and %d, got %d", i, MaxShipsPerKind, entry.Count)
		}
		if entry.Count > 0 && int(entry.Kind) > config.Columns && int(entry.Kind) > config.Rows {
			return fmt.Errorf("config validation: %s of length %d does not fit a %dx%d board",
				entry.Kind, int(entry.Kind), config.Columns, config.Rows)
		}
		ships += entry.Count
	}
	if ships == 0 {
		return fmt.Errorf("config validation: fleet must contain at least one ship")
	}

	// Validate density - every ship with its no-touch margin must fit the corner lattice
	footprint := 0
	for _, entry := range config.Fleet {
		footprint += (int(entry.Kind) + 1) * 2 * entry.Count
	}
	lattice := (config.Columns + 1) * (config.Rows + 1)
	if footprint > lattice {
		return fmt.Errorf("config validation: fleet too dense for %dx%d board (footprint %d > %d)",
			config.Columns, config.Rows, footprint, lattice)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.Defeat == "" {
		return fmt.Errorf("config validation: messages.defeat is required")
	}

	// Validate format strings
	for name, msg := range map[string]string{
		"player_hit":   config.Messages.PlayerHit,
		"player_miss":  config.Messages.PlayerMiss,
		"opponent_hit": config.Messages.OpponentHit,
	} {
		if msg != "" && !strings.Contains(msg, "%s") {
			return fmt.Errorf("config validation: messages.%s must contain %%s for the cell label", name)
		}
	}

	return nil
}

// LoadMatchConfig loads a match configuration from a JSON file
func LoadMatchConfig(filename string) (*MatchConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config MatchConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateMatchConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a match configuration by name from the configs directory
func LoadConfigByName(configName string) (*MatchConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		configPath = filepath.Join(configDir, configName)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configName, err)
	}

	var config MatchConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configName, err)
	}

	if err := ValidateMatchConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return &config, nil
}

// DefaultMatchConfig returns the classic 10x10 configuration
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Name:        "Classic",
		Description: "Classic 10x10 battle with the Russian fleet: 1 battleship, 2 cruisers, 3 destroyers, 4 torpedo boats",
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		Fleet: []FleetEntry{
			{Kind: Battleship, Count: 1},
			{Kind: Cruiser, Count: 2},
			{Kind: Destroyer, Count: 3},
			{Kind: TorpedoBoat, Count: 4},
		},
		Messages: MatchMessages{
			Welcome:      "Your fleet is deployed. Fire at the enemy grid!",
			PlayerHit:    "Hit at %s! Fire again.",
			PlayerMiss:   "Miss at %s. The enemy returns fire.",
			OpponentHit:  "The enemy hit your ship at %s!",
			OpponentMiss: "The enemy missed. Your turn.",
			Victory:      "Victory! The enemy fleet is sunk.",
			Defeat:       "Defeat! Your fleet is sunk.",
			AlreadyShot:  "That cell has already been resolved.",
		},
	}
}
