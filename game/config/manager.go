package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
	"github.com/wricardo/mcp-training/navalbattle/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigName is the config used when a session does not name one
const DefaultConfigName = "classic"

// Manager handles match configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.MatchConfig
	configs       map[string]*engine.MatchConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.MatchConfig),
	}

	// Load default config
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// configID strips the .json extension so "classic" and "classic.json" share a cache entry
func configID(name string) string {
	return strings.TrimSuffix(name, ".json")
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.MatchConfig, error) {
	name = configID(name)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	configPath := filepath.Join(m.configDir, name+".json")

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config
	var config engine.MatchConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate config
	if err := engine.ValidateMatchConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Cache the config
	m.configs[name] = &config
	return &config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := configID(entry.Name())

		// Try to load the config to get details
		config, err := m.LoadConfig(name)
		if err != nil {
			log.Warn("skipping invalid config", "file", entry.Name(), "err", err)
			continue
		}

		ships := 0
		for _, f := range config.Fleet {
			ships += f.Count
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    name, // This is the identifier to use for session creation
			Name:        config.Name,
			Description: config.Description,
			Columns:     config.Columns,
			Rows:        config.Rows,
			Ships:       ships,
			FleetCells:  config.FleetCells(),
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.MatchConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache reloads all cached configurations from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.MatchConfig)
	m.mu.Unlock()

	// Reload default config without holding the lock; LoadConfig takes it
	return m.loadDefaultConfig()
}

// ReloadConfig drops one configuration from the cache and reads it again
func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	delete(m.configs, configID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}

// Count returns the number of cached configurations
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	// Try to load classic.json as default
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		// Try to load the first available config
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			log.Warn("no usable config found, using built-in default", "dir", m.configDir)
			m.setDefault(engine.DefaultMatchConfig())
			return nil
		}

		// Use the first available config
		config, err = m.LoadConfig(configs[0].ConfigID)
		if err != nil {
			m.setDefault(engine.DefaultMatchConfig())
			return nil
		}
	}

	m.setDefault(config)
	return nil
}

func (m *Manager) setDefault(config *engine.MatchConfig) {
	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.MatchConfig) error {
	// Validate config before saving
	if err := engine.ValidateMatchConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = configID(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	configPath := filepath.Join(m.configDir, name+".json")

	// Marshal config to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}
