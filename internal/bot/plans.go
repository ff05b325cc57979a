package bot

import (
	"github.com/freeeve/breachline/pkg/terminal"
)

func (f *FunnelStrategy) starterDefense(gs GameState) {
	st := f.Layout.Starter
	gs.AttemptSpawn(terminal.Wall, st.Walls, 1)
	gs.AttemptSpawn(terminal.Turret, st.Turrets, 1)
	gs.AttemptUpgrade(st.AnchorUpgrades)
	gs.AttemptUpgrade(st.FlexUpgrades)
	gs.AttemptRemove(st.RemoveTurrets)
	gs.AttemptRemove(st.RemoveWalls)
}

// side picks the channel variant whose launch lane takes the least damage.
func (f *FunnelStrategy) side(gs GameState) (Side, FunnelSide) {
	lanes := f.Layout.Funnel.Lanes
	if LeastDamageSpawnLocation(gs, lanes[:]) == lanes[0] {
		return SideRight, f.Layout.Funnel.Channel
	}
	return SideLeft, f.Layout.Funnel.Channel.Mirror()
}

func (f *FunnelStrategy) funnel(gs GameState) (Side, bool, []Wave) {
	fl := f.Layout.Funnel
	gs.AttemptSpawn(terminal.Wall, fl.SkeletonWalls, 1)
	gs.AttemptSpawn(terminal.Turret, fl.SkeletonTurrets, 1)

	lane, ch := f.side(gs)
	gs.AttemptSpawn(terminal.Wall, ch.Walls, 1)
	gs.AttemptSpawn(terminal.Turret, ch.Turrets, 1)

	// Hold the gap shut on turns we do not attack through it.
	if !f.attackReady(gs) {
		gs.AttemptSpawn(terminal.Wall, ch.GapPatch, 1)
		gs.AttemptRemove(ch.GapPatch)
	}

	gs.AttemptSpawn(terminal.Support, ch.StarterSupports, 1)
	gs.AttemptUpgrade(fl.SkeletonTurrets)
	gs.AttemptUpgrade(ch.Upgrades)
	gs.AttemptUpgrade(ch.StarterSupports)
	gs.AttemptSpawn(terminal.Support, ch.Supports, 1)
	gs.AttemptUpgrade(ch.Supports)

	gs.AttemptRemove(ch.Walls)
	gs.AttemptRemove(ch.Turrets)

	if !f.attackReady(gs) {
		return lane, false, nil
	}
	return lane, true, SpawnSquads(gs, ch.Squad)
}

// demolisherLine lays a throwaway wall row so the demolishers walk along it,
// then sends them from the launch cell.
func (f *FunnelStrategy) demolisherLine(gs GameState) []Wave {
	d := f.Layout.Demolisher
	for _, c := range d.Line {
		gs.AttemptSpawn(terminal.Wall, []terminal.Coord{c}, 1)
		gs.AttemptRemove([]terminal.Coord{c})
	}
	w := Wave{Type: terminal.Demolisher, Location: d.Launch, Count: d.Count}
	w.Spawned = gs.AttemptSpawn(w.Type, []terminal.Coord{w.Location}, w.Count)
	return []Wave{w}
}
