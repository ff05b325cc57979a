package bot

import (
	"math/rand"

	"github.com/freeeve/breachline/pkg/terminal"
)

// Session is the state one game keeps between turns. It is created when the
// host sends the config and lives until the end frame.
type Session struct {
	Config   *terminal.Config
	Breaches *Tracker
	Rand     *rand.Rand
	Seed     int64
}

// NewSession starts a game. A zero seed is replaced by a clock seed.
func NewSession(cfg *terminal.Config, seed int64) *Session {
	r, used := newRand(seed)
	return &Session{
		Config:   cfg,
		Breaches: NewTracker(),
		Rand:     r,
		Seed:     used,
	}
}
