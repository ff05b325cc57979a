package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/pkg/terminal"
)

// Breach is a cell where an opponent unit scored on us.
type Breach struct {
	Location terminal.Coord
	Turn     int
}

// Tracker remembers every breach of the game and plugs them each turn.
// Breaches are never forgotten, so a cell scored on twice is defended twice.
type Tracker struct {
	breaches []Breach
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records the opponent breaches of an action frame and returns them.
func (t *Tracker) Observe(af *terminal.ActionFrame) []Breach {
	if af == nil {
		return nil
	}
	var added []Breach
	for _, ev := range af.Breaches {
		if ev.Owner != terminal.Opponent {
			continue
		}
		b := Breach{Location: ev.Location, Turn: af.Turn}
		t.breaches = append(t.breaches, b)
		added = append(added, b)
		log.Debug().Stringer("at", ev.Location).Int("turn", af.Turn).Msg("Got scored on")
	}
	return added
}

// Len returns the number of breaches recorded.
func (t *Tracker) Len() int { return len(t.breaches) }

// Breaches returns a copy of the breach log.
func (t *Tracker) Breaches() []Breach {
	return append([]Breach(nil), t.breaches...)
}

// Defend queues one turret just in front of every recorded breach and
// returns how many were placed.
func (t *Tracker) Defend(gs GameState) int {
	placed := 0
	for _, b := range t.breaches {
		placed += gs.AttemptSpawn(terminal.Turret, []terminal.Coord{b.Location.Offset(0, 1)}, 1)
	}
	return placed
}
