package bot

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/pkg/terminal"
)

// GameState is the board a strategy plays against for one turn.
// *terminal.GameState implements it.
type GameState interface {
	TurnNumber() int
	Resource(r terminal.Resource, p terminal.Player) float64
	UnitStats(t terminal.UnitType) terminal.UnitStats
	NumberAffordable(t terminal.UnitType) int
	AttemptSpawn(t terminal.UnitType, locs []terminal.Coord, n int) int
	AttemptRemove(locs []terminal.Coord) int
	AttemptUpgrade(locs []terminal.Coord) int
	ContainsStationaryUnit(c terminal.Coord) *terminal.Unit
	StationaryUnits() []*terminal.Unit
	FindPathToEdge(c terminal.Coord) []terminal.Coord
	Attackers(c terminal.Coord, p terminal.Player) []*terminal.Unit
	EdgeLocations(e terminal.Edge) []terminal.Coord
}

var _ GameState = (*terminal.GameState)(nil)

// Strategy queues one turn's build and deploy requests.
type Strategy interface {
	Name() string
	PlayTurn(s *Session, gs GameState) TurnReport
}

// Posture names the plan a turn was played with.
type Posture string

const (
	PostureStarter    Posture = "starter_defense"
	PostureFunnel     Posture = "funnel"
	PostureDemolisher Posture = "demolisher_line"
	PostureStall      Posture = "interceptor_stall"
	PostureHold       Posture = "hold"
)

// Side is the handedness of the funnel channel.
type Side string

const (
	SideRight Side = "right"
	SideLeft  Side = "left"
)

// TurnReport summarises what a strategy did on one turn.
type TurnReport struct {
	Turn            int     `json:"turn"`
	Posture         Posture `json:"posture"`
	Lane            Side    `json:"lane,omitempty"`
	EnemyFrontCount int     `json:"enemy_front_count"`
	Attack          bool    `json:"attack"`
	Waves           []Wave  `json:"waves,omitempty"`
	ReactiveTurrets int     `json:"reactive_turrets"`
	Pruned          int     `json:"pruned"`
}

// StrategyForName returns the strategy registered under name. Unknown names
// fall back to the funnel strategy with the default layout.
func StrategyForName(name string, layout *Layout) Strategy {
	if layout == nil {
		layout = DefaultLayout()
	}
	switch strings.ToLower(name) {
	case "starter":
		return &StarterStrategy{}
	case "hold":
		return HoldStrategy{}
	case "", "funnel":
		return NewFunnelStrategy(layout)
	default:
		log.Warn().Str("strategy", name).Msg("Unknown strategy, using funnel")
		return NewFunnelStrategy(layout)
	}
}

// HoldStrategy submits nothing. Used for protocol smoke tests.
type HoldStrategy struct{}

func (HoldStrategy) Name() string { return "hold" }

func (HoldStrategy) PlayTurn(_ *Session, gs GameState) TurnReport {
	return TurnReport{Turn: gs.TurnNumber(), Posture: PostureHold}
}
