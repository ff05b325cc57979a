package terminal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog/log"
)

// StateType is the first element of a frame's turnInfo.
type StateType int

const (
	StateTurn   StateType = 0 // deploy phase: the algo must submit a turn
	StateAction StateType = 1 // action phase frame, informational only
	StateEnd    StateType = 2 // game over
)

// Request is one entry of the build or deploy stack.
type Request struct {
	Type     UnitType
	Location Coord
}

// turnFrame mirrors the JSON frame the host sends at the start of each turn.
type turnFrame struct {
	TurnInfo []float64 `json:"turnInfo"`
	P1Stats  []float64 `json:"p1Stats"`
	P2Stats  []float64 `json:"p2Stats"`
	P1Units  [][][]any `json:"p1Units"`
	P2Units  [][][]any `json:"p2Units"`
}

// GameState is the board as seen at the start of one turn, plus the requests
// queued against it. Spawns are applied to the local map immediately so later
// requests in the same turn see them; removals are only flagged because the
// host clears removed structures after the action phase.
type GameState struct {
	Config *Config
	Map    *GameMap

	turnNumber int
	health     [2]float64
	resources  [2]Cost

	buildStack  []Request
	deployStack []Request
}

// NewGameState parses a turn frame.
func NewGameState(cfg *Config, frame []byte) (*GameState, error) {
	var f turnFrame
	if err := json.Unmarshal(frame, &f); err != nil {
		return nil, fmt.Errorf("decode turn frame: %w", err)
	}
	if len(f.TurnInfo) < 2 {
		return nil, fmt.Errorf("turn frame has turnInfo of length %d", len(f.TurnInfo))
	}
	if len(f.P1Stats) < 3 || len(f.P2Stats) < 3 {
		return nil, fmt.Errorf("turn frame is missing player stats")
	}

	gs := &GameState{
		Config:     cfg,
		Map:        NewGameMap(cfg),
		turnNumber: int(f.TurnInfo[1]),
	}
	for p, stats := range [][]float64{f.P1Stats, f.P2Stats} {
		gs.health[p] = stats[0]
		gs.resources[p] = Cost{stats[1], stats[2]}
	}
	gs.placeUnits(f.P1Units, Self)
	gs.placeUnits(f.P2Units, Opponent)
	return gs, nil
}

func (gs *GameState) placeUnits(lists [][][]any, p Player) {
	for i, list := range lists {
		if i >= unitTypeCount {
			break
		}
		t := UnitType(i)
		for _, entry := range list {
			if len(entry) < 3 {
				continue
			}
			x, okX := entry[0].(float64)
			y, okY := entry[1].(float64)
			hp, okH := entry[2].(float64)
			if !okX || !okY || !okH {
				continue
			}
			loc := Coord{int(x), int(y)}
			switch t {
			case Remove:
				if u := gs.Map.StationaryAt(loc); u != nil {
					u.PendingRemoval = true
				}
			case Upgrade:
				if u := gs.Map.StationaryAt(loc); u != nil {
					u.upgrade(gs.Config, false)
				}
			default:
				gs.Map.AddUnit(t, loc, p, hp)
			}
		}
	}
}

// TurnNumber is the host's turn counter, starting at 0.
func (gs *GameState) TurnNumber() int { return gs.turnNumber }

// Health returns a player's remaining life.
func (gs *GameState) Health(p Player) float64 { return gs.health[p] }

// Resource returns a player's current budget, net of requests queued this turn.
func (gs *GameState) Resource(r Resource, p Player) float64 { return gs.resources[p][r] }

func (gs *GameState) spend(c Cost) {
	gs.resources[Self][SP] -= c[SP]
	gs.resources[Self][MP] -= c[MP]
}

// UnitStats returns the base stats of a unit kind.
func (gs *GameState) UnitStats(t UnitType) UnitStats { return gs.Config.Stats(t) }

// TypeCost returns what spawning (or upgrading) a unit kind costs.
func (gs *GameState) TypeCost(t UnitType, upgrade bool) Cost {
	if upgrade {
		return gs.Config.UpgradedStats(t).Cost()
	}
	return gs.Config.Stats(t).Cost()
}

// NumberAffordable is how many units of a kind the local player can buy now.
func (gs *GameState) NumberAffordable(t UnitType) int {
	cost := gs.TypeCost(t, false)
	held := gs.resources[Self]
	n := math.MaxInt
	for r := SP; r <= MP; r++ {
		if cost[r] > 0 {
			n = min(n, int(math.Floor(held[r]/cost[r])))
		}
	}
	if n == math.MaxInt {
		return 0
	}
	return max(n, 0)
}

// ContainsStationaryUnit returns the structure on a cell, or nil.
func (gs *GameState) ContainsStationaryUnit(c Coord) *Unit { return gs.Map.StationaryAt(c) }

// StationaryUnits returns every structure on the board, both players.
func (gs *GameState) StationaryUnits() []*Unit { return gs.Map.StationaryUnits() }

// EdgeLocations returns the cells along an edge.
func (gs *GameState) EdgeLocations(e Edge) []Coord { return EdgeLocations(e) }

// CanSpawn reports whether n units of a kind could be spawned at c now.
func (gs *GameState) CanSpawn(t UnitType, c Coord, n int) bool {
	if t < Wall || t > Interceptor {
		return false
	}
	if !InArenaBounds(c) {
		return false
	}
	affordable := gs.NumberAffordable(t) >= n
	stationary := t.Stationary()
	blocked := gs.Map.StationaryAt(c) != nil || (stationary && len(gs.Map.At(c)) > 0)
	ownTerritory := c.Y() < HalfArena
	onEdge := OnEdge(c, BottomLeft) || OnEdge(c, BottomRight)
	return affordable && ownTerritory && !blocked &&
		(stationary || onEdge) && (!stationary || n == 1)
}

// AttemptSpawn queues up to n units of a kind at each location, stopping at
// a location as soon as one spawn is refused. It returns how many were
// queued. Occupied cells and unaffordable requests are skipped silently.
func (gs *GameState) AttemptSpawn(t UnitType, locs []Coord, n int) int {
	if n < 1 {
		return 0
	}
	spawned := 0
	for _, loc := range locs {
		for i := 0; i < n; i++ {
			if !gs.CanSpawn(t, loc, 1) {
				log.Debug().Str("unit", t.String()).Stringer("at", loc).Msg("Spawn refused")
				break
			}
			gs.spend(gs.TypeCost(t, false))
			gs.Map.AddUnit(t, loc, Self, -1)
			req := Request{Type: t, Location: loc}
			if t.Stationary() {
				gs.buildStack = append(gs.buildStack, req)
			} else {
				gs.deployStack = append(gs.deployStack, req)
			}
			spawned++
		}
	}
	return spawned
}

// AttemptRemove flags own structures for removal. A structure already
// flagged is skipped so repeated requests add nothing.
func (gs *GameState) AttemptRemove(locs []Coord) int {
	removed := 0
	for _, loc := range locs {
		u := gs.Map.StationaryAt(loc)
		if loc.Y() >= HalfArena || u == nil || u.Player != Self || u.PendingRemoval {
			continue
		}
		u.PendingRemoval = true
		gs.buildStack = append(gs.buildStack, Request{Type: Remove, Location: loc})
		removed++
	}
	return removed
}

// AttemptUpgrade queues upgrades for own structures that are not upgraded
// yet and whose upgrade is affordable.
func (gs *GameState) AttemptUpgrade(locs []Coord) int {
	upgraded := 0
	for _, loc := range locs {
		u := gs.Map.StationaryAt(loc)
		if loc.Y() >= HalfArena || u == nil || u.Player != Self || u.Upgraded {
			continue
		}
		if !gs.Config.Stats(u.Type).Upgradeable() {
			continue
		}
		cost := gs.TypeCost(u.Type, true)
		held := gs.resources[Self]
		if held[SP] < cost[SP] || held[MP] < cost[MP] {
			continue
		}
		gs.spend(cost)
		u.upgrade(gs.Config, true)
		gs.buildStack = append(gs.buildStack, Request{Type: Upgrade, Location: loc})
		upgraded++
	}
	return upgraded
}

// Attackers returns the opposing structures of p that can hit c.
func (gs *GameState) Attackers(c Coord, p Player) []*Unit {
	var out []*Unit
	for _, loc := range LocationsInRange(c, gs.Config.MaxAttackRange()) {
		for _, u := range gs.Map.At(loc) {
			if u.Player == p || !u.Stationary() {
				continue
			}
			if u.Stats.DamageWalker <= 0 && u.Stats.DamageTower <= 0 {
				continue
			}
			if c.Distance(loc) <= u.Stats.AttackRange {
				out = append(out, u)
			}
		}
	}
	return out
}

// FindPathToEdge returns the path a mobile unit spawned at c would walk,
// starting with c. It is empty when c is blocked.
func (gs *GameState) FindPathToEdge(c Coord) []Coord {
	return gs.FindPathToTarget(c, TargetEdge(c))
}

// FindPathToTarget is FindPathToEdge with an explicit target edge.
func (gs *GameState) FindPathToTarget(c Coord, e Edge) []Coord {
	if !InArenaBounds(c) || gs.Map.StationaryAt(c) != nil {
		return nil
	}
	return newPathFinder(gs.Map).navigate(c, EdgeLocations(e))
}

// BuildStack returns the structure, removal and upgrade requests queued so far.
func (gs *GameState) BuildStack() []Request { return append([]Request(nil), gs.buildStack...) }

// DeployStack returns the mobile spawns queued so far.
func (gs *GameState) DeployStack() []Request { return append([]Request(nil), gs.deployStack...) }

// Submit writes the turn to the host: the build stack line, then the deploy
// stack line.
func (gs *GameState) Submit(w io.Writer) error {
	for _, stack := range [][]Request{gs.buildStack, gs.deployStack} {
		line, err := gs.encodeStack(stack)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write turn: %w", err)
		}
	}
	return nil
}

// EncodeTurn returns the two lines Submit would write, without newlines.
func (gs *GameState) EncodeTurn() (build, deploy []byte, err error) {
	if build, err = gs.encodeStack(gs.buildStack); err != nil {
		return nil, nil, err
	}
	if deploy, err = gs.encodeStack(gs.deployStack); err != nil {
		return nil, nil, err
	}
	return build, deploy, nil
}

func (gs *GameState) encodeStack(stack []Request) ([]byte, error) {
	entries := make([][3]any, 0, len(stack))
	for _, r := range stack {
		entries = append(entries, [3]any{gs.Config.Shorthand(r.Type), r.Location.X(), r.Location.Y()})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode stack: %w", err)
	}
	return data, nil
}
