package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/pkg/terminal"
)

// Thresholds are the numbers the funnel strategy switches postures on.
type Thresholds struct {
	// OpeningTurns is the number of turns played with the starter defense.
	OpeningTurns int
	// FrontRows are the opponent rows counted for the demolisher trigger.
	FrontRows []int
	// FrontCount must be exceeded by the opponent structures on FrontRows.
	FrontCount int
	// DemolisherMP is the own MP needed to launch a demolisher line.
	DemolisherMP float64
	// DemolisherSP is the own SP needed for a demolisher line.
	DemolisherSP float64
	// AttackMP is the MP needed before the funnel attacks.
	AttackMP float64
	// PruneRatio is the health fraction at or below which a watched
	// structure is removed.
	PruneRatio float64
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OpeningTurns: 5,
		FrontRows:    []int{14, 15},
		FrontCount:   20,
		DemolisherMP: 12,
		DemolisherSP: 19,
		AttackMP:     11,
		PruneRatio:   0.6,
	}
}

// FunnelStrategy opens with a perimeter, then either funnels enemy units
// through a channel and counterattacks down the safer lane, or breaks a
// packed front line with demolishers.
type FunnelStrategy struct {
	Layout     *Layout
	Thresholds Thresholds
}

func NewFunnelStrategy(layout *Layout) *FunnelStrategy {
	return &FunnelStrategy{Layout: layout, Thresholds: DefaultThresholds()}
}

func (f *FunnelStrategy) Name() string { return "funnel" }

// PlayTurn queues the requests for one turn.
func (f *FunnelStrategy) PlayTurn(s *Session, gs GameState) TurnReport {
	r := TurnReport{Turn: gs.TurnNumber()}
	if r.Turn < f.Thresholds.OpeningTurns {
		r.Posture = PostureStarter
		f.starterDefense(gs)
	} else {
		r.EnemyFrontCount = CountEnemyUnits(gs, UnitFilter{Y: f.Thresholds.FrontRows})
		if f.demolisherReady(gs, r.EnemyFrontCount) {
			r.Posture = PostureDemolisher
			r.Attack = true
			r.Waves = f.demolisherLine(gs)
		} else {
			r.Posture = PostureFunnel
			r.Lane, r.Attack, r.Waves = f.funnel(gs)
		}
		if s != nil && s.Breaches != nil {
			r.ReactiveTurrets = s.Breaches.Defend(gs)
		}
	}
	r.Pruned = Prune(gs, f.Layout.PruneWatch, f.Thresholds.PruneRatio)

	log.Debug().
		Int("turn", r.Turn).
		Str("posture", string(r.Posture)).
		Str("lane", string(r.Lane)).
		Int("front", r.EnemyFrontCount).
		Int("pruned", r.Pruned).
		Msg("Turn planned")
	return r
}

func (f *FunnelStrategy) demolisherReady(gs GameState, front int) bool {
	t := f.Thresholds
	return front > t.FrontCount &&
		gs.Resource(terminal.MP, terminal.Self) >= t.DemolisherMP &&
		gs.Resource(terminal.SP, terminal.Self) >= t.DemolisherSP
}

func (f *FunnelStrategy) attackReady(gs GameState) bool {
	return gs.Resource(terminal.MP, terminal.Self) >= f.Thresholds.AttackMP && gs.TurnNumber()%2 == 1
}

// Prune marks own watched structures at or below ratio of their max health
// for removal and returns how many were marked.
func Prune(gs GameState, watch []terminal.Coord, ratio float64) int {
	var weak []terminal.Coord
	for _, c := range watch {
		u := gs.ContainsStationaryUnit(c)
		if u == nil || u.Player != terminal.Self {
			continue
		}
		if u.HealthRatio() <= ratio {
			weak = append(weak, c)
		}
	}
	if len(weak) == 0 {
		return 0
	}
	return gs.AttemptRemove(weak)
}
