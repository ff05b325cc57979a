package terminal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

func loadTestConfig(t *testing.T) *Config {
	t.Helper()
	data, err := os.ReadFile("testdata/config.json")
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

// testUnit is one [x, y, health, id] entry in a frame's unit lists.
type testUnit struct {
	Type   UnitType
	X, Y   int
	Health float64
}

// buildFrame renders a turn frame. Units are grouped per player by type.
func buildFrame(stateType, turn int, p1, p2 [3]float64, mine, theirs []testUnit) []byte {
	group := func(units []testUnit) [][][]any {
		out := make([][][]any, unitTypeCount)
		for i := range out {
			out[i] = [][]any{}
		}
		for i, u := range units {
			out[u.Type] = append(out[u.Type], []any{u.X, u.Y, u.Health, fmt.Sprint(i + 1)})
		}
		return out
	}
	frame := map[string]any{
		"turnInfo": []int{stateType, turn, -1, 0},
		"p1Stats":  []float64{p1[0], p1[1], p1[2], 0},
		"p2Stats":  []float64{p2[0], p2[1], p2[2], 0},
		"p1Units":  group(mine),
		"p2Units":  group(theirs),
		"events":   map[string]any{"breach": []any{}},
	}
	data, _ := json.Marshal(frame)
	return data
}

func TestInArenaBounds(t *testing.T) {
	tests := []struct {
		c    Coord
		want bool
	}{
		{XY(13, 0), true},
		{XY(14, 0), true},
		{XY(12, 0), false},
		{XY(15, 0), false},
		{XY(0, 13), true},
		{XY(27, 14), true},
		{XY(0, 12), false},
		{XY(13, 27), true},
		{XY(12, 27), false},
		{XY(3, 10), true},
		{XY(-1, 13), false},
		{XY(5, 28), false},
	}
	for _, tt := range tests {
		if got := InArenaBounds(tt.c); got != tt.want {
			t.Errorf("InArenaBounds(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestCoordMirror(t *testing.T) {
	if got := XY(3, 12).Mirror(); got != XY(24, 12) {
		t.Errorf("expected [24, 12], got %v", got)
	}
	if got := XY(13, 0).Mirror(); got != XY(14, 0) {
		t.Errorf("expected [14, 0], got %v", got)
	}
	c := XY(7, 6)
	if c.Mirror().Mirror() != c {
		t.Error("mirror should be an involution")
	}
}

func TestCoordJSON(t *testing.T) {
	var c Coord
	if err := json.Unmarshal([]byte(`[11, 2]`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != XY(11, 2) {
		t.Errorf("expected [11, 2], got %v", c)
	}
	data, _ := json.Marshal(XY(4, 9))
	if string(data) != "[4,9]" {
		t.Errorf("expected [4,9], got %s", data)
	}
}

func TestLocationsInRange(t *testing.T) {
	center := XY(13, 10)
	locs := LocationsInRange(center, 2.5)
	seen := make(map[Coord]bool)
	for _, l := range locs {
		if l.Distance(center) >= 3.01 {
			t.Errorf("%v is too far from %v", l, center)
		}
		seen[l] = true
	}
	for _, want := range []Coord{center, XY(15, 10), XY(13, 12), XY(14, 12), XY(16, 10)} {
		if !seen[want] {
			t.Errorf("expected %v in range", want)
		}
	}
	if len(LocationsInRange(XY(13, 0), 0)) != 1 {
		t.Error("radius 0 should yield only the centre")
	}
}

func TestEdges(t *testing.T) {
	for _, e := range []Edge{TopRight, TopLeft, BottomLeft, BottomRight} {
		locs := EdgeLocations(e)
		if len(locs) != HalfArena {
			t.Errorf("%s: expected %d cells, got %d", e, HalfArena, len(locs))
		}
		for _, l := range locs {
			if !InArenaBounds(l) {
				t.Errorf("%s: %v out of bounds", e, l)
			}
		}
	}
	for _, c := range []Coord{XY(13, 0), XY(11, 2), XY(1, 12), XY(2, 11)} {
		if !OnEdge(c, BottomLeft) {
			t.Errorf("expected %v on bottom-left edge", c)
		}
	}
	for _, c := range []Coord{XY(14, 0), XY(16, 2), XY(26, 12)} {
		if !OnEdge(c, BottomRight) {
			t.Errorf("expected %v on bottom-right edge", c)
		}
	}
	if TargetEdge(XY(13, 0)) != TopRight || TargetEdge(XY(14, 0)) != TopLeft {
		t.Error("bottom spawns should target the opposite top edge")
	}
	if TargetEdge(XY(13, 27)) != BottomRight || TargetEdge(XY(14, 27)) != BottomLeft {
		t.Error("top spawns should target the opposite bottom edge")
	}
}

func TestParseConfig(t *testing.T) {
	cfg := loadTestConfig(t)

	if cfg.Shorthand(Turret) != "DF" {
		t.Errorf("expected DF, got %s", cfg.Shorthand(Turret))
	}
	typ, err := cfg.TypeOf("SI")
	if err != nil || typ != Interceptor {
		t.Errorf("TypeOf(SI) = %v, %v", typ, err)
	}
	if _, err := cfg.TypeOf("ZZ"); err == nil {
		t.Error("expected error for unknown shorthand")
	}

	base := cfg.Stats(Turret)
	up := cfg.UpgradedStats(Turret)
	if base.DamageWalker != 6 || up.DamageWalker != 14 {
		t.Errorf("turret damage base=%v upgraded=%v", base.DamageWalker, up.DamageWalker)
	}
	if up.StartHealth != base.StartHealth {
		t.Error("upgrade without startHealth should keep base health")
	}
	if !base.Upgradeable() || cfg.Stats(Scout).Upgradeable() {
		t.Error("only structures with an upgrade block are upgradeable")
	}
	if got := cfg.MaxAttackRange(); got != 4.5 {
		t.Errorf("expected max attack range 4.5, got %v", got)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	if _, err := ParseConfig([]byte(`{`)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := ParseConfig([]byte(`{"unitInformation":[{"shorthand":"FF"}]}`)); err == nil {
		t.Error("expected error for short unit list")
	}
}

func TestNewGameState(t *testing.T) {
	cfg := loadTestConfig(t)
	frame := buildFrame(0, 7, [3]float64{30, 25, 9.5}, [3]float64{28, 20, 4},
		[]testUnit{
			{Wall, 3, 13, 30},
			{Turret, 3, 12, 75},
			{Upgrade, 3, 12, 75},
			{Remove, 3, 13, 30},
		},
		[]testUnit{
			{Turret, 10, 14, 75},
			{Wall, 11, 15, 60},
		})

	gs, err := NewGameState(cfg, frame)
	if err != nil {
		t.Fatalf("new game state: %v", err)
	}
	if gs.TurnNumber() != 7 {
		t.Errorf("expected turn 7, got %d", gs.TurnNumber())
	}
	if gs.Resource(SP, Self) != 25 || gs.Resource(MP, Self) != 9.5 {
		t.Errorf("unexpected own resources: %v %v", gs.Resource(SP, Self), gs.Resource(MP, Self))
	}
	if gs.Resource(SP, Opponent) != 20 {
		t.Errorf("unexpected opponent SP: %v", gs.Resource(SP, Opponent))
	}

	wall := gs.ContainsStationaryUnit(XY(3, 13))
	if wall == nil || !wall.PendingRemoval {
		t.Fatal("expected wall at [3, 13] pending removal")
	}
	if wall.HealthRatio() != 0.5 {
		t.Errorf("expected health ratio 0.5, got %v", wall.HealthRatio())
	}
	turret := gs.ContainsStationaryUnit(XY(3, 12))
	if turret == nil || !turret.Upgraded || turret.Stats.DamageWalker != 14 {
		t.Fatal("expected upgraded turret at [3, 12]")
	}
	enemy := gs.ContainsStationaryUnit(XY(10, 14))
	if enemy == nil || enemy.Player != Opponent {
		t.Fatal("expected opponent turret at [10, 14]")
	}
	if n := len(gs.StationaryUnits()); n != 4 {
		t.Errorf("expected 4 structures, got %d", n)
	}
}

func TestNewGameState_Malformed(t *testing.T) {
	cfg := loadTestConfig(t)
	if _, err := NewGameState(cfg, []byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := NewGameState(cfg, []byte(`{"turnInfo":[0]}`)); err == nil {
		t.Error("expected error for short turnInfo")
	}
	if _, err := NewGameState(cfg, []byte(`{"turnInfo":[0,1],"p1Stats":[30]}`)); err == nil {
		t.Error("expected error for missing stats")
	}
}

func emptyState(t *testing.T, sp, mp float64) *GameState {
	t.Helper()
	gs, err := NewGameState(loadTestConfig(t), buildFrame(0, 1, [3]float64{30, sp, mp}, [3]float64{30, 40, 5}, nil, nil))
	if err != nil {
		t.Fatalf("new game state: %v", err)
	}
	return gs
}

func TestAttemptSpawn(t *testing.T) {
	gs := emptyState(t, 10, 5)

	n := gs.AttemptSpawn(Wall, []Coord{XY(0, 13), XY(1, 13)}, 1)
	if n != 2 {
		t.Fatalf("expected 2 walls, got %d", n)
	}
	if gs.Resource(SP, Self) != 8 {
		t.Errorf("expected 8 SP left, got %v", gs.Resource(SP, Self))
	}

	// Same cells again: blocked, no cost.
	if n := gs.AttemptSpawn(Wall, []Coord{XY(0, 13), XY(1, 13)}, 1); n != 0 {
		t.Errorf("expected 0 on occupied cells, got %d", n)
	}
	if gs.Resource(SP, Self) != 8 {
		t.Errorf("occupied spawn should not spend, SP=%v", gs.Resource(SP, Self))
	}

	// Enemy half and out of bounds are refused.
	if n := gs.AttemptSpawn(Turret, []Coord{XY(13, 14), XY(0, 0)}, 1); n != 0 {
		t.Errorf("expected refusal, got %d", n)
	}

	// Mobile units must start on a friendly edge and stop when MP runs out.
	if n := gs.AttemptSpawn(Scout, []Coord{XY(13, 5)}, 1); n != 0 {
		t.Errorf("expected off-edge scout refusal, got %d", n)
	}
	if n := gs.AttemptSpawn(Scout, []Coord{XY(13, 0)}, 100); n != 5 {
		t.Errorf("expected 5 scouts, got %d", n)
	}
	if len(gs.DeployStack()) != 5 || len(gs.BuildStack()) != 2 {
		t.Errorf("unexpected stacks: build=%d deploy=%d", len(gs.BuildStack()), len(gs.DeployStack()))
	}
}

func TestAttemptRemove_Idempotent(t *testing.T) {
	gs := emptyState(t, 10, 0)
	gs.AttemptSpawn(Wall, []Coord{XY(5, 12)}, 1)

	if n := gs.AttemptRemove([]Coord{XY(5, 12)}); n != 1 {
		t.Fatalf("expected 1 removal, got %d", n)
	}
	if n := gs.AttemptRemove([]Coord{XY(5, 12), XY(6, 12)}); n != 0 {
		t.Errorf("expected repeated/empty removal to be a no-op, got %d", n)
	}

	build := gs.BuildStack()
	if len(build) != 2 || build[1].Type != Remove {
		t.Fatalf("expected [wall, remove], got %+v", build)
	}
	// The structure stays on the local map until the host clears it.
	if gs.ContainsStationaryUnit(XY(5, 12)) == nil {
		t.Error("removed wall should remain on the local map this turn")
	}
}

func TestAttemptUpgrade(t *testing.T) {
	gs := emptyState(t, 7, 0)
	gs.AttemptSpawn(Turret, []Coord{XY(3, 12)}, 1)

	if n := gs.AttemptUpgrade([]Coord{XY(3, 12), XY(3, 12), XY(4, 12)}); n != 1 {
		t.Fatalf("expected one upgrade, got %d", n)
	}
	if gs.Resource(SP, Self) != 1 {
		t.Errorf("expected 1 SP left, got %v", gs.Resource(SP, Self))
	}
	gs.AttemptSpawn(Wall, []Coord{XY(4, 12)}, 1)
	if n := gs.AttemptUpgrade([]Coord{XY(4, 12)}); n != 0 {
		t.Errorf("expected unaffordable upgrade to be skipped, got %d", n)
	}
}

func TestAttemptUpgrade_KeepsFullHealth(t *testing.T) {
	gs := emptyState(t, 10, 0)
	gs.AttemptSpawn(Wall, []Coord{XY(2, 13)}, 1)
	if n := gs.AttemptUpgrade([]Coord{XY(2, 13)}); n != 1 {
		t.Fatalf("expected one upgrade, got %d", n)
	}
	wall := gs.ContainsStationaryUnit(XY(2, 13))
	if wall.MaxHealth != 120 || wall.Health != 120 {
		t.Errorf("expected upgraded wall at 120/120, got %v/%v", wall.Health, wall.MaxHealth)
	}
	if wall.HealthRatio() != 1 {
		t.Errorf("expected a fresh upgraded wall at full health, got ratio %v", wall.HealthRatio())
	}
}

func TestNewGameState_UpgradedHealthFromFrame(t *testing.T) {
	cfg := loadTestConfig(t)
	frame := buildFrame(0, 4, [3]float64{30, 0, 0}, [3]float64{30, 0, 0},
		[]testUnit{
			{Wall, 2, 13, 90},
			{Upgrade, 2, 13, 90},
		}, nil)
	gs, err := NewGameState(cfg, frame)
	if err != nil {
		t.Fatalf("new game state: %v", err)
	}
	wall := gs.ContainsStationaryUnit(XY(2, 13))
	if wall == nil || wall.Health != 90 || wall.MaxHealth != 120 {
		t.Fatalf("expected reported health 90 of 120, got %+v", wall)
	}
}

func TestAttackers(t *testing.T) {
	cfg := loadTestConfig(t)
	frame := buildFrame(0, 3, [3]float64{30, 0, 0}, [3]float64{30, 0, 0}, nil,
		[]testUnit{
			{Turret, 13, 14, 75},
			{Wall, 13, 15, 60},
			{Turret, 20, 20, 75},
		})
	gs, err := NewGameState(cfg, frame)
	if err != nil {
		t.Fatalf("new game state: %v", err)
	}

	if n := len(gs.Attackers(XY(13, 12), Self)); n != 1 {
		t.Errorf("expected 1 attacker at [13, 12], got %d", n)
	}
	if n := len(gs.Attackers(XY(13, 11), Self)); n != 0 {
		t.Errorf("expected no attacker 3 cells away, got %d", n)
	}
	if n := len(gs.Attackers(XY(13, 12), Opponent)); n != 0 {
		t.Errorf("own structures never attack the opponent's query, got %d", n)
	}
}

func TestSubmit(t *testing.T) {
	gs := emptyState(t, 10, 3)
	gs.AttemptSpawn(Wall, []Coord{XY(0, 13)}, 1)
	gs.AttemptRemove([]Coord{XY(0, 13)})
	gs.AttemptSpawn(Interceptor, []Coord{XY(26, 12)}, 1)

	var sb strings.Builder
	if err := gs.Submit(&sb); err != nil {
		t.Fatalf("submit: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), sb.String())
	}
	if lines[0] != `[["FF",0,13],["RM",0,13]]` {
		t.Errorf("unexpected build line %s", lines[0])
	}
	if lines[1] != `[["SI",26,12]]` {
		t.Errorf("unexpected deploy line %s", lines[1])
	}
}

func TestSubmit_Empty(t *testing.T) {
	gs := emptyState(t, 0, 0)
	var sb strings.Builder
	if err := gs.Submit(&sb); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sb.String() != "[]\n[]\n" {
		t.Errorf("expected two empty stacks, got %q", sb.String())
	}
}
