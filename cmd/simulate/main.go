// Command simulate plays headless matches in which the player side is driven by
// a bot, and prints how long matches last and who wins.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/navalbattle/game/config"
	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// Player strategies
const (
	StrategyHeuristic = "heuristic"
	StrategyRandom    = "random"
)

// Outcome is the result of one simulated match
type Outcome struct {
	Winner         engine.Side
	PlayerShots    int
	OpponentShots  int
	PlacementTries int
}

// Stats aggregates outcomes
type Stats struct {
	Games          int
	PlayerWins     int
	OpponentWins   int
	PlayerShots    int
	OpponentShots  int
	MinPlayerShots int
	MaxPlayerShots int
	PlacementTries int
}

// Add folds one outcome into the totals
func (s *Stats) Add(o Outcome) {
	s.Games++
	switch o.Winner {
	case engine.PlayerSide:
		s.PlayerWins++
	case engine.OpponentSide:
		s.OpponentWins++
	}
	s.PlayerShots += o.PlayerShots
	s.OpponentShots += o.OpponentShots
	s.PlacementTries += o.PlacementTries
	if s.Games == 1 || o.PlayerShots < s.MinPlayerShots {
		s.MinPlayerShots = o.PlayerShots
	}
	if o.PlayerShots > s.MaxPlayerShots {
		s.MaxPlayerShots = o.PlayerShots
	}
}

func avg(total, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// Print writes a human-readable summary
func (s *Stats) Print(w io.Writer, configName, strategy string) {
	fmt.Fprintf(w, "Config:          %s\n", configName)
	fmt.Fprintf(w, "Player strategy: %s\n", strategy)
	fmt.Fprintf(w, "Games:           %d\n", s.Games)
	fmt.Fprintf(w, "Player wins:     %d (%.1f%%)\n", s.PlayerWins, 100*avg(s.PlayerWins, s.Games))
	fmt.Fprintf(w, "Opponent wins:   %d (%.1f%%)\n", s.OpponentWins, 100*avg(s.OpponentWins, s.Games))
	fmt.Fprintf(w, "Player shots:    avg %.1f, min %d, max %d\n", avg(s.PlayerShots, s.Games), s.MinPlayerShots, s.MaxPlayerShots)
	fmt.Fprintf(w, "Opponent shots:  avg %.1f\n", avg(s.OpponentShots, s.Games))
	fmt.Fprintf(w, "Placement tries: avg %.1f per fleet\n", avg(s.PlacementTries, 2*s.Games))
}

// playerBot picks the player's shots among selectable cells
type playerBot struct {
	strategy string
	targeter *engine.Targeter
	rng      *rand.Rand
}

func newPlayerBot(strategy string, rng *rand.Rand) *playerBot {
	return &playerBot{strategy: strategy, targeter: engine.NewTargeter(rng), rng: rng}
}

// next returns a selectable cell, or false when none is left
func (b *playerBot) next(m *engine.Match) (int, bool) {
	if b.strategy == StrategyHeuristic {
		if i, ok := b.targeter.NextShot(m.TargetField()); ok && m.InputEnabled(i) {
			return i, true
		}
	}

	var open []int
	for i := 0; i < m.Board().Size(); i++ {
		if m.InputEnabled(i) {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return 0, false
	}
	return open[b.rng.Intn(len(open))], true
}

// Play runs one match to completion
func Play(cfg *engine.MatchConfig, strategy string, rng *rand.Rand) (Outcome, error) {
	m, err := engine.NewMatch(cfg, engine.NopPresenter{}, engine.WithRand(rng))
	if err != nil {
		return Outcome{}, err
	}

	bot := newPlayerBot(strategy, rng)
	for m.Phase() == engine.PlayerTurn {
		i, ok := bot.next(m)
		if !ok {
			return Outcome{}, fmt.Errorf("no selectable cell left in match %s", m.ID())
		}
		turn, err := m.SelectCell(i)
		if err != nil {
			return Outcome{}, fmt.Errorf("select %s: %w", m.Board().CellLabel(i), err)
		}
		over := turn.Phase == engine.GameOver
		bot.targeter.Record(i, turn.PlayerShot.Result, over)
		bot.targeter.Prune(m.TargetField())
	}

	o := Outcome{
		Winner:         m.Winner(),
		PlacementTries: m.PlayerFleet().Attempts() + m.OpponentFleet().Attempts(),
	}
	for _, shot := range m.History() {
		if shot.Shooter == engine.PlayerSide {
			o.PlayerShots++
		} else {
			o.OpponentShots++
		}
	}
	return o, nil
}

func loadConfig(dir, name string) (*engine.MatchConfig, error) {
	if dir == "" {
		return engine.DefaultMatchConfig(), nil
	}
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play bot matches against the opponent heuristic and print statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "games",
				Aliases: []string{"n"},
				Value:   100,
				Usage:   "number of matches to play",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config ID to play (default config when empty)",
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing match configurations, empty for the built-in config",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: StrategyHeuristic,
				Usage: "player strategy: heuristic or random",
				Validator: func(s string) error {
					if s != StrategyHeuristic && s != StrategyRandom {
						return fmt.Errorf("unknown strategy %q", s)
					}
					return nil
				},
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed, 0 for time based",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log every match",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(cmd.String("config-dir"), cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	seed := cmd.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	strategy := cmd.String("strategy")
	log.Debug("simulating", "config", cfg.Name, "strategy", strategy, "seed", seed)

	var stats Stats
	for g := 0; g < cmd.Int("games"); g++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		o, err := Play(cfg, strategy, rng)
		if err != nil {
			return fmt.Errorf("game %d: %w", g+1, err)
		}
		log.Debug("match finished", "game", g+1, "winner", o.Winner, "player_shots", o.PlayerShots, "opponent_shots", o.OpponentShots)
		stats.Add(o)
	}

	stats.Print(cmd.Root().Writer, cfg.Name, strategy)
	return nil
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal("simulate failed", "err", err)
	}
}
