package engine

import (
	"fmt"
	"strings"
)

// Rules is the help text of the classic Russian rules
const Rules = `Rules (classic Russian version):
1. Every fleet is laid out on its own grid. Ships never overlap and never
   touch each other, not even by a corner. Layouts are drawn at random.
2. You always shoot first.
3. Shots alternate until one side sinks the whole enemy fleet and wins.
   A hit lets the shooter fire again; a miss passes the turn.
4. The cells diagonal to a hit cannot hold a ship and are marked as misses.

Cells are named by column letter and row number, e.g. A0 or J9.`

// FleetTable describes the fleet composition of config as a small table
func FleetTable(config *MatchConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fleet on a %dx%d grid:\n", config.Columns, config.Rows)
	fmt.Fprintf(&b, "%-8s%-16s%s\n", "Number", "Kind of ship", "Size")
	for kind := Battleship; kind >= TorpedoBoat; kind-- {
		for _, entry := range config.Fleet {
			if entry.Kind == kind && entry.Count > 0 {
				fmt.Fprintf(&b, "%-8d%-16s%d\n", entry.Count, kind, int(kind))
			}
		}
	}
	return b.String()
}

// Help returns the rules followed by the fleet table of config
func Help(config *MatchConfig) string {
	if config == nil {
		config = DefaultMatchConfig()
	}
	return Rules + "\n\n" + FleetTable(config)
}
