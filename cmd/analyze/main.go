// Command analyze prints placement statistics for the configs in the
// project's configs directory. For each config it draws many random fleet
// layouts and reports how often every cell is occupied, which shows where
// a hunting shooter should aim first.
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/navalbattle/game/config"
	"github.com/wricardo/mcp-training/navalbattle/game/engine"
)

// Heatmap counts how often each cell held a ship over a number of layouts
type Heatmap struct {
	Board   engine.Board
	Layouts int
	Counts  []int
	Failed  int
}

// CellShare is the occupancy rate of one cell
type CellShare struct {
	Index int
	Rate  float64
}

// BuildHeatmap draws n random layouts of cfg's fleet
func BuildHeatmap(cfg *engine.MatchConfig, n int, rng *rand.Rand) *Heatmap {
	board := cfg.Board()
	h := &Heatmap{Board: board, Counts: make([]int, board.Size())}
	composition := cfg.Composition()

	for i := 0; i < n; i++ {
		fleet := engine.NewFleet(board, composition, rng)
		if err := fleet.RandomLocation(); err != nil {
			h.Failed++
			continue
		}
		h.Layouts++
		for cell, bit := range fleet.Occupancy() {
			h.Counts[cell] += int(bit)
		}
	}
	return h
}

// Rate returns the occupancy rate of cell i
func (h *Heatmap) Rate(i int) float64 {
	if h.Layouts == 0 {
		return 0
	}
	return float64(h.Counts[i]) / float64(h.Layouts)
}

// Ranked returns every cell ordered by occupancy rate, highest first
func (h *Heatmap) Ranked() []CellShare {
	cells := make([]CellShare, len(h.Counts))
	for i := range h.Counts {
		cells[i] = CellShare{Index: i, Rate: h.Rate(i)}
	}
	sort.SliceStable(cells, func(a, b int) bool { return cells[a].Rate > cells[b].Rate })
	return cells
}

// ParityShare returns the share of occupied cells on the (x+y) even squares
func (h *Heatmap) ParityShare() float64 {
	even, total := 0, 0
	for i, c := range h.Counts {
		p := h.Board.Point(i)
		if (p.X+p.Y)%2 == 0 {
			even += c
		}
		total += c
	}
	if total == 0 {
		return 0
	}
	return float64(even) / float64(total)
}

// Render draws the heatmap with one digit per cell, 9 being the hottest
func (h *Heatmap) Render(w io.Writer) {
	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}

	var header strings.Builder
	for x := 0; x < h.Board.Columns; x++ {
		header.WriteString(h.Board.CellLabel(x)[:1])
	}
	fmt.Fprintf(w, "    %s\n", header.String())

	for y := 0; y < h.Board.Rows; y++ {
		var row strings.Builder
		for x := 0; x < h.Board.Columns; x++ {
			c := h.Counts[h.Board.Index(engine.Point{X: x, Y: y})]
			level := 0
			if peak > 0 {
				level = c * 9 / peak
			}
			row.WriteByte(byte('0' + level))
		}
		fmt.Fprintf(w, "%3d %s\n", y, row.String())
	}
}

func analyzeConfig(w io.Writer, id string, cfg *engine.MatchConfig, layouts int, rng *rand.Rand) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", id)
	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Board: %d x %d\n", cfg.Columns, cfg.Rows)
	fmt.Fprintf(w, "Fleet: %d ships, %d cells (%.0f%% of the board)\n",
		len(cfg.Composition()), cfg.FleetCells(),
		100*float64(cfg.FleetCells())/float64(cfg.Board().Size()))

	h := BuildHeatmap(cfg, layouts, rng)
	if h.Failed > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: placement failed in %d of %d layouts\n", h.Failed, layouts)
	}
	if h.Layouts == 0 {
		return
	}

	h.Render(w)

	ranked := h.Ranked()
	top := ranked[:min(5, len(ranked))]
	labels := make([]string, len(top))
	for i, c := range top {
		labels[i] = fmt.Sprintf("%s %.0f%%", h.Board.CellLabel(c.Index), 100*c.Rate)
	}
	fmt.Fprintf(w, "Hottest cells: %s\n", strings.Join(labels, ", "))
	coldest := ranked[len(ranked)-1]
	fmt.Fprintf(w, "Coldest cell: %s %.0f%%\n", h.Board.CellLabel(coldest.Index), 100*coldest.Rate)
	fmt.Fprintf(w, "Even parity share: %.1f%%\n", 100*h.ParityShare())
}

func main() {
	configDir := flag.String("config-dir", "configs", "directory containing match configurations")
	layouts := flag.Int("layouts", 2000, "random layouts per config")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	manager, err := config.NewManager(*configDir)
	if err != nil {
		log.Fatal("cannot open configs", "dir", *configDir, "err", err)
	}
	infos, err := manager.ListConfigs()
	if err != nil {
		log.Fatal("cannot list configs", "err", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			log.Error("skipping config", "config", info.ConfigID, "err", err)
			continue
		}
		analyzeConfig(os.Stdout, info.ConfigID, cfg, *layouts, rng)
	}
}
