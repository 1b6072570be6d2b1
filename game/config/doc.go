// Package config provides configuration management for the naval battle game.
//
// The config package handles:
//   - Loading match configurations from JSON files
//   - Configuration validation
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Match configurations are stored as JSON files in the configs directory.
// Each configuration defines the board size, the fleet composition as
// kind/count pairs (kind is the ship length), an optional seed and the
// messages shown to the player.
//
// Available Configurations:
//   - classic: 10x10 grid with the classic ten-ship fleet
//   - compact: 7x7 grid with six ships
//   - grand: 14x14 grid with a doubled fleet
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	matchConfig, err := manager.LoadConfig("compact")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no usable config the manager falls back to
// engine.DefaultMatchConfig.
package config
