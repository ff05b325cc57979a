package bot

import (
	"github.com/freeeve/breachline/pkg/terminal"
)

// StarterStrategy plugs every breach and spends all MP on interceptors
// dropped on random open friendly edge cells.
type StarterStrategy struct{}

func (*StarterStrategy) Name() string { return "starter" }

func (*StarterStrategy) PlayTurn(s *Session, gs GameState) TurnReport {
	r := TurnReport{Turn: gs.TurnNumber(), Posture: PostureStall}
	if s == nil {
		s = NewSession(nil, 0)
	}
	r.ReactiveTurrets = s.Breaches.Defend(gs)
	r.Waves = stallWithInterceptors(s, gs)
	r.Attack = len(r.Waves) > 0
	return r
}

func stallWithInterceptors(s *Session, gs GameState) []Wave {
	edges := append(gs.EdgeLocations(terminal.BottomLeft), gs.EdgeLocations(terminal.BottomRight)...)
	open := filterBlocked(gs, edges)
	cost := gs.UnitStats(terminal.Interceptor).CostMP
	if cost <= 0 || len(open) == 0 {
		return nil
	}
	var waves []Wave
	for gs.Resource(terminal.MP, terminal.Self) >= cost {
		loc := open[s.Rand.Intn(len(open))]
		if gs.AttemptSpawn(terminal.Interceptor, []terminal.Coord{loc}, 1) == 0 {
			break
		}
		waves = append(waves, Wave{Type: terminal.Interceptor, Location: loc, Count: 1, Spawned: 1})
	}
	return waves
}

// filterBlocked drops cells holding a structure.
func filterBlocked(gs GameState, locs []terminal.Coord) []terminal.Coord {
	var out []terminal.Coord
	for _, c := range locs {
		if gs.ContainsStationaryUnit(c) == nil {
			out = append(out, c)
		}
	}
	return out
}
