// Command validate checks the match configuration JSON files in ../configs
// (or the directory given as the first argument). It checks:
//   - JSON structure, rejecting unknown fields
//   - Board size, fleet composition, density and messages
//   - Placement: the fleet is placed repeatedly with fresh random seeds
//     and every placement must succeed without overlap or touching
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// placementTrials is how many random layouts are drawn per config
const placementTrials = 200

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.MatchConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateMatchConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	board := config.Board()
	result.info("Board %dx%d, %d ships covering %d cells (%.0f%% of the board)",
		config.Columns, config.Rows, len(config.Composition()), config.FleetCells(),
		100*float64(config.FleetCells())/float64(board.Size()))

	placement := validatePlacement(&config, placementTrials)
	if !placement.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, placement.Errors...)

	return result
}

// validatePlacement draws random layouts and reports failures and effort
func validatePlacement(config *engine.MatchConfig, trials int) ValidationResult {
	result := ValidationResult{Valid: true}
	board := config.Board()
	composition := config.Composition()

	failures, attempts := 0, 0
	for seed := int64(1); seed <= int64(trials); seed++ {
		fleet := engine.NewFleet(board, composition, rand.New(rand.NewSource(seed)))
		err := fleet.RandomLocation()
		attempts += fleet.Attempts()
		if err != nil {
			failures++
			continue
		}
		if fleet.OccupiedCells() != config.FleetCells() {
			result.fail("Seed %d: fleet covers %d cells, expected %d", seed, fleet.OccupiedCells(), config.FleetCells())
		}
	}

	if failures > 0 {
		result.fail("Placement failed in %d of %d random layouts", failures, trials)
		return result
	}
	result.info("Placement succeeded in %d random layouts (avg %.1f ship tries per layout)",
		trials, float64(attempts)/float64(trials))
	return result
}

// main scans the config directory for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
