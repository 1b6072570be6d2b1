package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

func createTestConfigDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir
}

func createValidConfig() *engine.MatchConfig {
	return &engine.MatchConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Columns:     6,
		Rows:        6,
		Fleet: []engine.FleetEntry{
			{Kind: engine.Cruiser, Count: 1},
			{Kind: engine.TorpedoBoat, Count: 2},
		},
		Messages: engine.MatchMessages{
			Welcome:      "Welcome!",
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

func writeConfigFile(t *testing.T, dir, name string, config *engine.MatchConfig) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	path := filepath.Join(dir, filename)
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestConfigDir(t)
		defer os.RemoveAll(dir)

		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Fatal("Expected manager to be non-nil")
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic.json as default, got '%s'", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default config", func(t *testing.T) {
		dir := createTestConfigDir(t)
		defer os.RemoveAll(dir)

		manager, err := NewManager(dir)
		if err != nil {
			t.Errorf("NewManager should succeed even without config files, got error: %v", err)
		}
		if manager == nil {
			t.Fatal("Expected manager to be created")
		}

		// Falls back to the built-in classic config
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Columns != engine.DefaultColumns || defaultConfig.FleetCells() != 20 {
			t.Errorf("Expected built-in classic default, got %dx%d with %d fleet cells",
				defaultConfig.Columns, defaultConfig.Rows, defaultConfig.FleetCells())
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	defaultConfig := createValidConfig()
	defaultConfig.Name = "Default"
	writeConfigFile(t, dir, "default", defaultConfig)

	wideConfig := createValidConfig()
	wideConfig.Name = "Wide"
	wideConfig.Columns = 12
	writeConfigFile(t, dir, "wide", wideConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("wide")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Wide" {
			t.Errorf("Expected config name 'Wide', got '%s'", config.Name)
		}
		if config.Columns != 12 {
			t.Errorf("Expected 12 columns, got %d", config.Columns)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("wide.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Wide" {
			t.Errorf("Expected config name 'Wide', got '%s'", config.Name)
		}

		// Both spellings share one cache entry
		plain, _ := manager.LoadConfig("wide")
		if plain != config {
			t.Error("Expected 'wide' and 'wide.json' to resolve to the same cached config")
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("wide")

		config2, err := manager.LoadConfig("wide")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if err != ErrConfigNotFound {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": ""}`) // Missing required fields
		err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644)
		if err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err = manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load overcrowded fleet", func(t *testing.T) {
		crowded := createValidConfig()
		crowded.Name = "Crowded"
		crowded.Columns = 3
		crowded.Rows = 3
		crowded.Fleet = []engine.FleetEntry{{Kind: engine.TorpedoBoat, Count: 5}}
		writeConfigFile(t, dir, "crowded", crowded)

		_, err := manager.LoadConfig("crowded")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for a fleet that cannot be placed, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644)
		if err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err = manager.LoadConfig("malformed")
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	defaultConfig := createValidConfig()
	defaultConfig.Name = "Default Config"
	writeConfigFile(t, dir, "default", defaultConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// No classic.json, so the first available config is used
	config := manager.GetDefault()
	if config == nil {
		t.Fatal("Expected default config to be non-nil")
	}
	if config.Name != "Default Config" {
		t.Errorf("Expected default config name 'Default Config', got '%s'", config.Name)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "classic", createValidConfig())
	other := createValidConfig()
	other.Name = "Other"
	writeConfigFile(t, dir, "other", other)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("other"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Other" {
		t.Errorf("Expected default 'Other', got '%s'", manager.GetDefault().Name)
	}

	if err := manager.SetDefault("missing"); err != ErrConfigNotFound {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
	if manager.GetDefault().Name != "Other" {
		t.Error("Failed SetDefault should keep the previous default")
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	configs := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"compact", "Compact"},
		{"grand", "Grand"},
		{"tiny", "Tiny"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Also add a non-JSON file and a broken config that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": "Broken"}`), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	// Sorted by config ID
	for i, cfg := range configs {
		info := configList[i]
		if info.ConfigID != cfg.filename {
			t.Errorf("Expected config %d to be '%s', got '%s'", i, cfg.filename, info.ConfigID)
		}
		if info.Name != cfg.name {
			t.Errorf("Expected name '%s', got '%s'", cfg.name, info.Name)
		}
		if info.Filename != cfg.filename+".json" {
			t.Errorf("Expected filename '%s.json', got '%s'", cfg.filename, info.Filename)
		}
		if info.Columns != 6 || info.Rows != 6 {
			t.Errorf("Expected 6x6 board, got %dx%d", info.Columns, info.Rows)
		}
		if info.Ships != 3 {
			t.Errorf("Expected 3 ships, got %d", info.Ships)
		}
		if info.FleetCells != 5 {
			t.Errorf("Expected 5 fleet cells, got %d", info.FleetCells)
		}
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "classic", config)
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Rows != 6 {
		t.Errorf("Expected initial 6 rows, got %d", loaded.Rows)
	}

	// Modify config file
	config.Rows = 9
	writeConfigFile(t, dir, "changeable", config)

	// Still cached
	cached, _ := manager.LoadConfig("changeable")
	if cached.Rows != 6 {
		t.Errorf("Expected cached 6 rows before reload, got %d", cached.Rows)
	}

	err = manager.ReloadConfig("changeable")
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Rows != 9 {
		t.Errorf("Expected reloaded 9 rows, got %d", reloaded.Rows)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	classic := createValidConfig()
	classic.Name = "Classic"
	writeConfigFile(t, dir, "classic", classic)
	writeConfigFile(t, dir, "extra", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if _, err := manager.LoadConfig("extra"); err != nil {
		t.Fatalf("Failed to load extra: %v", err)
	}

	classic.Description = "Refreshed"
	writeConfigFile(t, dir, "classic", classic)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected only the default in cache after refresh, got %d", manager.Count())
	}
	if manager.GetDefault().Description != "Refreshed" {
		t.Errorf("Expected refreshed default, got '%s'", manager.GetDefault().Description)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("valid config", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		data, err := os.ReadFile(filepath.Join(dir, "saved.json"))
		if err != nil {
			t.Fatalf("Expected saved.json on disk: %v", err)
		}
		if !strings.Contains(string(data), `"name": "Saved"`) {
			t.Errorf("Unexpected file content: %s", data)
		}

		loaded, err := manager.LoadConfig("saved")
		if err != nil || loaded != config {
			t.Errorf("Expected saved config to be cached, got %v, %v", loaded, err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		config := createValidConfig()
		config.Messages.Victory = ""
		if err := manager.SaveConfig("bad", config); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(err) {
			t.Error("Invalid config should not be written")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for path name, got %v", err)
		}
	})
}

func TestManager_ValidateConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "default", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*engine.MatchConfig)
	}{
		{"missing name", func(c *engine.MatchConfig) { c.Name = "" }},
		{"board too large", func(c *engine.MatchConfig) { c.Columns = 21 }},
		{"empty fleet", func(c *engine.MatchConfig) { c.Fleet = nil }},
		{"unknown kind", func(c *engine.MatchConfig) { c.Fleet[0].Kind = 7 }},
		{"ship longer than board", func(c *engine.MatchConfig) {
			c.Columns, c.Rows = 3, 3
			c.Fleet = []engine.FleetEntry{{Kind: engine.Battleship, Count: 1}}
		}},
		{"hit message without label", func(c *engine.MatchConfig) { c.Messages.PlayerHit = "Hit!" }},
	}

	t.Run("valid config", func(t *testing.T) {
		if err := manager.ValidateConfig(createValidConfig()); err != nil {
			t.Errorf("Expected valid config to pass validation: %v", err)
		}
	})

	for _, tt := range tests {
		t.Run("invalid config - "+tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.mutate(config)
			if err := manager.ValidateConfig(config); err == nil {
				t.Errorf("Expected error for config with %s", tt.name)
			}
		})
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "default", createValidConfig())

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Test concurrent loading
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			_, err := manager.LoadConfig(configName)
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}

func TestManager_CachingBehavior(t *testing.T) {
	dir := createTestConfigDir(t)
	defer os.RemoveAll(dir)

	writeConfigFile(t, dir, "classic", createValidConfig())

	testConfig := createValidConfig()
	testConfig.Name = "Test"
	writeConfigFile(t, dir, "test", testConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for i := 0; i < 10; i++ {
		config, err := manager.LoadConfig("test")
		if err != nil {
			t.Fatalf("Failed to load config on iteration %d: %v", i, err)
		}
		if config.Name != "Test" {
			t.Errorf("Unexpected config name on iteration %d", i)
		}
	}

	// Should have two entries in cache: classic and test
	if manager.Count() != 2 {
		t.Errorf("Expected 2 configs in cache, got %d", manager.Count())
	}
}

// ValidateConfig is a test-only shortcut to the engine validation
func (m *Manager) ValidateConfig(config *engine.MatchConfig) error {
	return engine.ValidateMatchConfig(config)
}
