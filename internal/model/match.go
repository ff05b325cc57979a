package model

import (
	"encoding/json"
	"time"
)

// Match is one game played by the algo.
type Match struct {
	ID         string     `json:"id"`
	Strategy   string     `json:"strategy"`
	Seed       int64      `json:"seed"`
	Status     string     `json:"status"` // active, finished
	Result     string     `json:"result,omitempty"` // win, loss, draw, unknown
	OwnHealth  float64    `json:"own_health"`
	OppHealth  float64    `json:"opp_health"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TurnRecord is the journal entry written after each planned turn.
type TurnRecord struct {
	MatchID         string          `json:"match_id"`
	Turn            int             `json:"turn"`
	Posture         string          `json:"posture"`
	Lane            string          `json:"lane,omitempty"`
	OwnSP           float64         `json:"own_sp"`
	OwnMP           float64         `json:"own_mp"`
	OppSP           float64         `json:"opp_sp"`
	OppMP           float64         `json:"opp_mp"`
	EnemyFront      int             `json:"enemy_front"`
	Attack          bool            `json:"attack"`
	BuildCount      int             `json:"build_count"`
	DeployCount     int             `json:"deploy_count"`
	ReactiveTurrets int             `json:"reactive_turrets"`
	Pruned          int             `json:"pruned"`
	Waves           json.RawMessage `json:"waves,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BreachRecord is an opponent unit scoring on the algo.
type BreachRecord struct {
	MatchID   string    `json:"match_id"`
	Turn      int       `json:"turn"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

// Match results.
const (
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultDraw    = "draw"
	ResultUnknown = "unknown"
)
