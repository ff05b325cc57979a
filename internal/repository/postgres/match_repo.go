package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freeeve/breachline/internal/model"
)

// MatchRepo persists the match journal.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// StartMatch inserts the match row. Starting a match twice keeps the first row.
func (r *MatchRepo) StartMatch(ctx context.Context, m *model.Match) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO matches (id, strategy, seed)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET strategy = matches.strategy
		 RETURNING status, started_at`,
		m.ID, m.Strategy, m.Seed,
	).Scan(&m.Status, &m.StartedAt)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	return nil
}

// RecordTurn upserts the journal entry for one turn.
func (r *MatchRepo) RecordTurn(ctx context.Context, t model.TurnRecord) error {
	waves := []byte(t.Waves)
	if len(waves) == 0 {
		waves = []byte("[]")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_turns (match_id, turn, posture, lane, own_sp, own_mp, opp_sp, opp_mp,
		        enemy_front, attack, build_count, deploy_count, reactive_turrets, pruned, waves)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (match_id, turn) DO UPDATE SET
		        posture = EXCLUDED.posture, lane = EXCLUDED.lane,
		        own_sp = EXCLUDED.own_sp, own_mp = EXCLUDED.own_mp,
		        opp_sp = EXCLUDED.opp_sp, opp_mp = EXCLUDED.opp_mp,
		        enemy_front = EXCLUDED.enemy_front, attack = EXCLUDED.attack,
		        build_count = EXCLUDED.build_count, deploy_count = EXCLUDED.deploy_count,
		        reactive_turrets = EXCLUDED.reactive_turrets, pruned = EXCLUDED.pruned,
		        waves = EXCLUDED.waves`,
		t.MatchID, t.Turn, t.Posture, t.Lane, t.OwnSP, t.OwnMP, t.OppSP, t.OppMP,
		t.EnemyFront, t.Attack, t.BuildCount, t.DeployCount, t.ReactiveTurrets, t.Pruned, waves,
	)
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// RecordBreach appends a breach.
func (r *MatchRepo) RecordBreach(ctx context.Context, b model.BreachRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_breaches (match_id, turn, x, y) VALUES ($1, $2, $3, $4)`,
		b.MatchID, b.Turn, b.X, b.Y,
	)
	if err != nil {
		return fmt.Errorf("record breach: %w", err)
	}
	return nil
}

// FinishMatch marks the match finished with its result.
func (r *MatchRepo) FinishMatch(ctx context.Context, matchID, result string, ownHealth, oppHealth float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE matches SET status = 'finished', result = $2, own_health = $3, opp_health = $4, finished_at = now()
		 WHERE id = $1`,
		matchID, result, ownHealth, oppHealth,
	)
	if err != nil {
		return fmt.Errorf("finish match: %w", err)
	}
	return nil
}

// FindMatch returns a match by ID, or nil when it does not exist.
func (r *MatchRepo) FindMatch(ctx context.Context, matchID string) (*model.Match, error) {
	var m model.Match
	var result sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, strategy, seed, status, result, own_health, opp_health, started_at, finished_at
		 FROM matches WHERE id = $1`, matchID,
	).Scan(&m.ID, &m.Strategy, &m.Seed, &m.Status, &result, &m.OwnHealth, &m.OppHealth, &m.StartedAt, &m.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find match: %w", err)
	}
	m.Result = result.String
	return &m, nil
}

// ListMatches returns the most recent matches first.
func (r *MatchRepo) ListMatches(ctx context.Context, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, strategy, seed, status, result, own_health, opp_health, started_at, finished_at
		 FROM matches ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var m model.Match
		var result sql.NullString
		if err := rows.Scan(&m.ID, &m.Strategy, &m.Seed, &m.Status, &result, &m.OwnHealth, &m.OppHealth, &m.StartedAt, &m.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Result = result.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListTurns returns a match's journal in turn order.
func (r *MatchRepo) ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, posture, lane, own_sp, own_mp, opp_sp, opp_mp, enemy_front, attack,
		        build_count, deploy_count, reactive_turrets, pruned, waves, created_at
		 FROM match_turns WHERE match_id = $1 ORDER BY turn`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		var waves []byte
		if err := rows.Scan(&t.MatchID, &t.Turn, &t.Posture, &t.Lane, &t.OwnSP, &t.OwnMP, &t.OppSP, &t.OppMP,
			&t.EnemyFront, &t.Attack, &t.BuildCount, &t.DeployCount, &t.ReactiveTurrets, &t.Pruned, &waves, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Waves = waves
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ListBreaches returns a match's breaches in the order they were recorded.
func (r *MatchRepo) ListBreaches(ctx context.Context, matchID string) ([]model.BreachRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, turn, x, y, created_at FROM match_breaches WHERE match_id = $1 ORDER BY id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list breaches: %w", err)
	}
	defer rows.Close()

	var out []model.BreachRecord
	for rows.Next() {
		var b model.BreachRecord
		if err := rows.Scan(&b.MatchID, &b.Turn, &b.X, &b.Y, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan breach: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
