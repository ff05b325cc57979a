package bot

import (
	"math"

	"github.com/freeeve/breachline/pkg/terminal"
)

// PathDamage estimates the damage a mobile unit spawned at c takes on its way
// to the far edge: for each cell of the path, the number of opposing
// structures in range times perTurret. A blocked spawn cell costs +Inf.
func PathDamage(gs GameState, c terminal.Coord, perTurret float64) float64 {
	path := gs.FindPathToEdge(c)
	if len(path) == 0 {
		return math.Inf(1)
	}
	total := 0.0
	for _, cell := range path {
		total += float64(len(gs.Attackers(cell, terminal.Self))) * perTurret
	}
	return total
}

// LeastDamageSpawnLocation returns the candidate with the lowest PathDamage.
// Ties, and an all-blocked board, go to the earliest candidate.
func LeastDamageSpawnLocation(gs GameState, candidates []terminal.Coord) terminal.Coord {
	if len(candidates) == 0 {
		return terminal.Coord{}
	}
	perTurret := gs.UnitStats(terminal.Turret).DamageWalker
	best := candidates[0]
	bestDamage := math.Inf(1)
	for _, c := range candidates {
		d := PathDamage(gs, c, perTurret)
		if d < bestDamage {
			best, bestDamage = c, d
		}
	}
	return best
}
