package bot

import (
	"math"

	"github.com/freeeve/breachline/pkg/terminal"
)

const (
	// threeWaveMP is the mobile budget from which interceptors lead the attack.
	threeWaveMP = 17
	// spendRemaining sizes the last wave so it takes whatever MP is left.
	spendRemaining = 100
)

// SquadPoints are the launch cells of an attack.
type SquadPoints struct {
	Forward   terminal.Coord `yaml:"forward"`
	Primary   terminal.Coord `yaml:"primary"`
	Secondary terminal.Coord `yaml:"secondary"`
}

// Wave is one spawn request of mobile units.
type Wave struct {
	Type     terminal.UnitType `json:"type"`
	Location terminal.Coord    `json:"location"`
	Count    int               `json:"count"`
	Spawned  int               `json:"spawned"`
}

// PlanSquads sizes the waves for a mobile budget of mp.
func PlanSquads(mp float64, pts SquadPoints) []Wave {
	m := int(math.Floor(mp))
	if mp >= threeWaveMP {
		squad := m / 3
		return []Wave{
			{Type: terminal.Interceptor, Location: pts.Forward, Count: squad * 2 / 3},
			{Type: terminal.Scout, Location: pts.Primary, Count: squad},
			{Type: terminal.Scout, Location: pts.Secondary, Count: spendRemaining},
		}
	}
	squad := m / 2
	return []Wave{
		{Type: terminal.Scout, Location: pts.Primary, Count: squad * 3 / 4},
		{Type: terminal.Scout, Location: pts.Secondary, Count: spendRemaining},
	}
}

// SpawnSquads plans waves for the current MP and queues them in order.
func SpawnSquads(gs GameState, pts SquadPoints) []Wave {
	waves := PlanSquads(gs.Resource(terminal.MP, terminal.Self), pts)
	for i := range waves {
		w := &waves[i]
		w.Spawned = gs.AttemptSpawn(w.Type, []terminal.Coord{w.Location}, w.Count)
	}
	return waves
}
