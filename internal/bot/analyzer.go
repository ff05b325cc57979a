package bot

import (
	"slices"

	"github.com/freeeve/breachline/pkg/terminal"
)

// UnitFilter restricts a structure count. Nil fields match everything.
type UnitFilter struct {
	Types []terminal.UnitType
	X     []int
	Y     []int
}

func (f UnitFilter) match(u *terminal.Unit) bool {
	if f.Types != nil && !slices.Contains(f.Types, u.Type) {
		return false
	}
	if f.X != nil && !slices.Contains(f.X, u.Location.X()) {
		return false
	}
	if f.Y != nil && !slices.Contains(f.Y, u.Location.Y()) {
		return false
	}
	return true
}

// CountEnemyUnits counts opponent structures matching f.
func CountEnemyUnits(gs GameState, f UnitFilter) int {
	n := 0
	for _, u := range gs.StationaryUnits() {
		if u.Player == terminal.Opponent && f.match(u) {
			n++
		}
	}
	return n
}
