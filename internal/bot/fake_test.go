package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/freeeve/breachline/pkg/terminal"
)

// call is one request a strategy made against fakeState.
type call struct {
	op   string // spawn, remove, upgrade
	unit terminal.UnitType
	locs []terminal.Coord
	n    int
}

// fakeState records every request. Structures and upgrades cost 1 SP and
// mobile units 1 MP; nothing else is enforced except occupied cells.
type fakeState struct {
	turn      int
	res       [2]terminal.Cost
	units     map[terminal.Coord]*terminal.Unit
	paths     map[terminal.Coord][]terminal.Coord
	attackers map[terminal.Coord]int
	calls     []call
}

func newFakeState(turn int, sp, mp float64) *fakeState {
	return &fakeState{
		turn:      turn,
		res:       [2]terminal.Cost{{sp, mp}, {sp, mp}},
		units:     map[terminal.Coord]*terminal.Unit{},
		paths:     map[terminal.Coord][]terminal.Coord{},
		attackers: map[terminal.Coord]int{},
	}
}

func (f *fakeState) place(t terminal.UnitType, p terminal.Player, c terminal.Coord, health, max float64) *terminal.Unit {
	u := &terminal.Unit{Type: t, Player: p, Location: c, Health: health, MaxHealth: max}
	f.units[c] = u
	return u
}

func (f *fakeState) TurnNumber() int { return f.turn }

func (f *fakeState) Resource(r terminal.Resource, p terminal.Player) float64 { return f.res[p][r] }

func (f *fakeState) UnitStats(t terminal.UnitType) terminal.UnitStats {
	switch t {
	case terminal.Turret:
		return terminal.UnitStats{CostSP: 1, DamageWalker: 6, AttackRange: 2.5}
	case terminal.Scout, terminal.Demolisher, terminal.Interceptor:
		return terminal.UnitStats{CostMP: 1}
	default:
		return terminal.UnitStats{CostSP: 1}
	}
}

func (f *fakeState) NumberAffordable(t terminal.UnitType) int {
	if t.Stationary() {
		return int(f.res[terminal.Self][terminal.SP])
	}
	return int(f.res[terminal.Self][terminal.MP])
}

func (f *fakeState) AttemptSpawn(t terminal.UnitType, locs []terminal.Coord, n int) int {
	f.calls = append(f.calls, call{op: "spawn", unit: t, locs: append([]terminal.Coord(nil), locs...), n: n})
	r := terminal.MP
	if t.Stationary() {
		r = terminal.SP
	}
	spawned := 0
	for _, c := range locs {
		for i := 0; i < n; i++ {
			if f.res[terminal.Self][r] < 1 {
				break
			}
			if t.Stationary() && f.units[c] != nil {
				break
			}
			f.res[terminal.Self][r]--
			if t.Stationary() {
				f.place(t, terminal.Self, c, 60, 60)
			}
			spawned++
		}
	}
	return spawned
}

func (f *fakeState) AttemptRemove(locs []terminal.Coord) int {
	f.calls = append(f.calls, call{op: "remove", locs: append([]terminal.Coord(nil), locs...)})
	removed := 0
	for _, c := range locs {
		u := f.units[c]
		if u == nil || u.Player != terminal.Self || u.PendingRemoval {
			continue
		}
		u.PendingRemoval = true
		removed++
	}
	return removed
}

// AttemptUpgrade doubles max health for 1 SP and raises health by the same
// amount, the way the game library treats a local upgrade.
func (f *fakeState) AttemptUpgrade(locs []terminal.Coord) int {
	f.calls = append(f.calls, call{op: "upgrade", locs: append([]terminal.Coord(nil), locs...)})
	upgraded := 0
	for _, c := range locs {
		u := f.units[c]
		if u == nil || u.Player != terminal.Self || u.Upgraded || f.res[terminal.Self][terminal.SP] < 1 {
			continue
		}
		f.res[terminal.Self][terminal.SP]--
		u.Health += u.MaxHealth
		u.MaxHealth *= 2
		u.Upgraded = true
		upgraded++
	}
	return upgraded
}

func (f *fakeState) ContainsStationaryUnit(c terminal.Coord) *terminal.Unit { return f.units[c] }

func (f *fakeState) StationaryUnits() []*terminal.Unit {
	var out []*terminal.Unit
	for _, u := range f.units {
		out = append(out, u)
	}
	return out
}

func (f *fakeState) FindPathToEdge(c terminal.Coord) []terminal.Coord {
	if p, ok := f.paths[c]; ok {
		return p
	}
	return []terminal.Coord{c}
}

func (f *fakeState) Attackers(c terminal.Coord, _ terminal.Player) []*terminal.Unit {
	return make([]*terminal.Unit, f.attackers[c])
}

func (f *fakeState) EdgeLocations(e terminal.Edge) []terminal.Coord { return terminal.EdgeLocations(e) }

// ops returns the recorded calls as "op unit" strings for quick comparison.
func (f *fakeState) ops() []string {
	var out []string
	for _, c := range f.calls {
		if c.op == "spawn" {
			out = append(out, c.op+" "+c.unit.String())
		} else {
			out = append(out, c.op)
		}
	}
	return out
}

func (f *fakeState) mobileSpawns() int {
	n := 0
	for _, c := range f.calls {
		if c.op == "spawn" && c.unit.Mobile() {
			n++
		}
	}
	return n
}

// fillFront puts n opponent walls on rows 14 and 15.
func (f *fakeState) fillFront(n int) {
	for i := 0; i < n; i++ {
		f.place(terminal.Wall, terminal.Opponent, terminal.XY(i%28, 14+i/28), 60, 60)
	}
}

func loadConfig(t *testing.T) *terminal.Config {
	t.Helper()
	data, err := os.ReadFile("../../pkg/terminal/testdata/config.json")
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := terminal.ParseConfig(data)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

type frameUnit struct {
	Type   terminal.UnitType
	At     terminal.Coord
	Health float64
}

// newGameState builds a real game state from a rendered turn frame.
func newGameState(t *testing.T, cfg *terminal.Config, turn int, own, opp [3]float64, mine, theirs []frameUnit) *terminal.GameState {
	t.Helper()
	group := func(units []frameUnit) [][][]any {
		out := make([][][]any, 8)
		for i := range out {
			out[i] = [][]any{}
		}
		for i, u := range units {
			out[u.Type] = append(out[u.Type], []any{u.At.X(), u.At.Y(), u.Health, fmt.Sprint(i + 1)})
		}
		return out
	}
	frame, _ := json.Marshal(map[string]any{
		"turnInfo": []int{0, turn, -1, 0},
		"p1Stats":  []float64{own[0], own[1], own[2], 0},
		"p2Stats":  []float64{opp[0], opp[1], opp[2], 0},
		"p1Units":  group(mine),
		"p2Units":  group(theirs),
	})
	gs, err := terminal.NewGameState(cfg, frame)
	if err != nil {
		t.Fatalf("new game state: %v", err)
	}
	return gs
}
