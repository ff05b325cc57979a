package terminal

import (
	"encoding/json"
	"fmt"
)

// PeekStateType reports whether line is a game frame and, if so, its state
// type. Lines without turnInfo (the config message) report ok=false.
func PeekStateType(line []byte) (StateType, bool, error) {
	var probe struct {
		TurnInfo []float64 `json:"turnInfo"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return 0, false, fmt.Errorf("decode frame header: %w", err)
	}
	if probe.TurnInfo == nil {
		return 0, false, nil
	}
	if len(probe.TurnInfo) == 0 {
		return 0, true, fmt.Errorf("empty turnInfo")
	}
	return StateType(probe.TurnInfo[0]), true, nil
}

// BreachEvent is a mobile unit reaching an edge during the action phase.
type BreachEvent struct {
	Location Coord
	Damage   float64
	UnitID   string
	// Owner is the player whose unit scored. Opponent-owned breaches are the
	// ones that cost the local player health.
	Owner Player
}

// ActionFrame is the subset of an action-phase frame the algo consumes.
type ActionFrame struct {
	Turn     int
	Frame    int
	Breaches []BreachEvent
}

// ParseActionFrame decodes an action frame. Breach entries that do not have
// the [[x, y], damage, type, id, owner] shape are dropped.
func ParseActionFrame(line []byte) (*ActionFrame, error) {
	var f struct {
		TurnInfo []float64 `json:"turnInfo"`
		Events   struct {
			Breach []json.RawMessage `json:"breach"`
		} `json:"events"`
	}
	if err := json.Unmarshal(line, &f); err != nil {
		return nil, fmt.Errorf("decode action frame: %w", err)
	}
	af := &ActionFrame{}
	if len(f.TurnInfo) > 1 {
		af.Turn = int(f.TurnInfo[1])
	}
	if len(f.TurnInfo) > 2 {
		af.Frame = int(f.TurnInfo[2])
	}
	for _, raw := range f.Events.Breach {
		if b, ok := parseBreach(raw); ok {
			af.Breaches = append(af.Breaches, b)
		}
	}
	return af, nil
}

func parseBreach(raw json.RawMessage) (BreachEvent, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 5 {
		return BreachEvent{}, false
	}
	var xy []float64
	if err := json.Unmarshal(fields[0], &xy); err != nil || len(xy) != 2 {
		return BreachEvent{}, false
	}
	b := BreachEvent{Location: Coord{int(xy[0]), int(xy[1])}}
	var owner int
	if err := json.Unmarshal(fields[4], &owner); err != nil {
		return BreachEvent{}, false
	}
	// On the wire 1 is the local player and 2 the opponent.
	switch owner {
	case 1:
		b.Owner = Self
	case 2:
		b.Owner = Opponent
	default:
		return BreachEvent{}, false
	}
	// Damage is informational only; a missing or non-numeric value reads as 0.
	if err := json.Unmarshal(fields[1], &b.Damage); err != nil {
		b.Damage = 0
	}
	if err := json.Unmarshal(fields[3], &b.UnitID); err != nil {
		var n float64
		if json.Unmarshal(fields[3], &n) == nil {
			b.UnitID = fmt.Sprint(n)
		}
	}
	return b, true
}
