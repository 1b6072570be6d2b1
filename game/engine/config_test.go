package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createValidConfig() *MatchConfig {
	return &MatchConfig{
		Name:        "Test Config",
		Description: "A valid test configuration",
		Columns:     6,
		Rows:        6,
		Fleet: []FleetEntry{
			{Kind: Cruiser, Count: 1},
			{Kind: Destroyer, Count: 1},
			{Kind: TorpedoBoat, Count: 2},
		},
		Messages: MatchMessages{
			Welcome:      "Welcome to the test game!",
			PlayerHit:    "Hit %s",
			PlayerMiss:   "Miss %s",
			OpponentHit:  "Enemy hit %s",
			OpponentMiss: "Enemy missed",
			Victory:      "Victory!",
			Defeat:       "Defeat!",
			AlreadyShot:  "Already shot",
		},
	}
}

func TestValidateMatchConfig_ValidConfig(t *testing.T) {
	config := createValidConfig()
	if err := ValidateMatchConfig(config); err != nil {
		t.Errorf("Expected valid config to pass validation, got: %v", err)
	}
	if err := ValidateMatchConfig(DefaultMatchConfig()); err != nil {
		t.Errorf("Expected default config to pass validation, got: %v", err)
	}
}

func TestValidateMatchConfig_Nil(t *testing.T) {
	if err := ValidateMatchConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateMatchConfig_MissingFields(t *testing.T) {
	tests := []struct {
		name     string
		modifier func(*MatchConfig)
		expected string
	}{
		{"name", func(c *MatchConfig) { c.Name = "" }, "name is required"},
		{"description", func(c *MatchConfig) { c.Description = "" }, "description is required"},
		{"welcome", func(c *MatchConfig) { c.Messages.Welcome = "" }, "messages.welcome is required"},
		{"victory", func(c *MatchConfig) { c.Messages.Victory = "" }, "messages.victory is required"},
		{"defeat", func(c *MatchConfig) { c.Messages.Defeat = "" }, "messages.defeat is required"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.modifier(config)
			err := ValidateMatchConfig(config)
			if err == nil {
				t.Fatalf("Expected error for missing %s", test.name)
			}
			if !strings.Contains(err.Error(), test.expected) {
				t.Errorf("Expected error containing '%s', got: %v", test.expected, err)
			}
		})
	}
}

func TestValidateMatchConfig_InvalidBoardSize(t *testing.T) {
	tests := []struct {
		name     string
		columns  int
		rows     int
		expected string
	}{
		{"zero columns", 0, 6, "columns must be between"},
		{"too many columns", 21, 6, "columns must be between"},
		{"zero rows", 6, 0, "rows must be between"},
		{"too many rows", 6, 21, "rows must be between"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			config.Columns = test.columns
			config.Rows = test.rows
			err := ValidateMatchConfig(config)
			if err == nil {
				t.Fatalf("Expected error for board %dx%d", test.columns, test.rows)
			}
			if !strings.Contains(err.Error(), test.expected) {
				t.Errorf("Expected error containing '%s', got: %v", test.expected, err)
			}
		})
	}
}

func TestValidateMatchConfig_Fleet(t *testing.T) {
	tests := []struct {
		name     string
		fleet    []FleetEntry
		expected string
	}{
		{"empty fleet", nil, "at least one entry"},
		{"unknown kind", []FleetEntry{{Kind: 5, Count: 1}}, "unknown kind"},
		{"repeated kind", []FleetEntry{{Kind: Destroyer, Count: 1}, {Kind: Destroyer, Count: 1}}, "repeats kind"},
		{"negative count", []FleetEntry{{Kind: Destroyer, Count: -1}}, "count must be between"},
		{"no ships", []FleetEntry{{Kind: Destroyer, Count: 0}}, "at least one ship"},
		{"too dense", []FleetEntry{{Kind: TorpedoBoat, Count: 10}, {Kind: Destroyer, Count: 3}}, "too dense"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			config.Fleet = test.fleet
			err := ValidateMatchConfig(config)
			if err == nil {
				t.Fatalf("Expected error for %s", test.name)
			}
			if !strings.Contains(err.Error(), test.expected) {
				t.Errorf("Expected error containing '%s', got: %v", test.expected, err)
			}
		})
	}
}

func TestValidateMatchConfig_ShipDoesNotFit(t *testing.T) {
	config := createValidConfig()
	config.Columns = 3
	config.Rows = 3
	config.Fleet = []FleetEntry{{Kind: Battleship, Count: 1}}
	err := ValidateMatchConfig(config)
	if err == nil {
		t.Fatal("Expected error for battleship on a 3x3 board")
	}
	if !strings.Contains(err.Error(), "does not fit") {
		t.Errorf("Expected fit validation error, got: %v", err)
	}
}

func TestValidateMatchConfig_FormatStrings(t *testing.T) {
	config := createValidConfig()
	config.Messages.PlayerHit = "No format"
	err := ValidateMatchConfig(config)
	if err == nil {
		t.Fatal("Expected error for player_hit without format verb")
	}
	if !strings.Contains(err.Error(), "player_hit must contain %s") {
		t.Errorf("Expected format string validation error, got: %v", err)
	}
}

func TestComposition(t *testing.T) {
	config := DefaultMatchConfig()
	got := config.Composition()
	want := DefaultComposition()
	if len(got) != len(want) {
		t.Fatalf("Expected %d ships, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ship %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if config.FleetCells() != 20 {
		t.Errorf("Expected 20 fleet cells, got %d", config.FleetCells())
	}
}

const testConfigJSON = `{
	"name": "Test Config",
	"description": "Test description",
	"columns": 6,
	"rows": 6,
	"fleet": [
		{"kind": 3, "count": 1},
		{"kind": 1, "count": 2}
	],
	"messages": {
		"welcome": "Welcome!",
		"player_hit": "Hit %s",
		"player_miss": "Miss %s",
		"opponent_hit": "Enemy hit %s",
		"opponent_miss": "Enemy missed",
		"victory": "Victory!",
		"defeat": "Defeat!",
		"already_shot": "Already shot"
	}
}`

func TestLoadConfigByName(t *testing.T) {
	tempDir := t.TempDir()

	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)
	os.Chdir(tempDir)

	os.MkdirAll("configs", 0755)
	if err := os.WriteFile(filepath.Join("configs", "test.json"), []byte(testConfigJSON), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	config, err := LoadConfigByName("test")
	if err != nil {
		t.Fatalf("Failed to load config by name: %v", err)
	}
	if config.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
	}
	if config.Columns != 6 || config.Rows != 6 {
		t.Errorf("Expected 6x6 board, got %dx%d", config.Columns, config.Rows)
	}

	config2, err := LoadConfigByName("test.json")
	if err != nil {
		t.Fatalf("Failed to load config by name with extension: %v", err)
	}
	if config2.Name != config.Name {
		t.Error("Expected both loads to return the same config")
	}

	if _, err := LoadConfigByName("missing"); err == nil {
		t.Error("Expected error for missing config")
	} else if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestLoadConfigByName_ConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "alt.json"), []byte(testConfigJSON), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	t.Setenv("CONFIG_DIR", tempDir)

	config, err := LoadConfigByName("alt")
	if err != nil {
		t.Fatalf("Failed to load config from CONFIG_DIR: %v", err)
	}
	if config.Name != "Test Config" {
		t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
	}
}

func TestLoadMatchConfig_Invalid(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "broken.json")

	if err := os.WriteFile(path, []byte(`{"name": "x"`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadMatchConfig(path); err == nil {
		t.Error("Expected error for malformed JSON")
	}

	if err := os.WriteFile(path, []byte(`{"name": "x", "description": "y", "columns": 0, "rows": 5}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadMatchConfig(path); err == nil {
		t.Error("Expected validation error")
	}
}
