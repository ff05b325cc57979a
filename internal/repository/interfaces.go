package repository

import (
	"context"

	"github.com/freeeve/breachline/internal/model"
)

// MatchJournal records what the algo did during a match.
type MatchJournal interface {
	StartMatch(ctx context.Context, m *model.Match) error
	RecordTurn(ctx context.Context, rec model.TurnRecord) error
	RecordBreach(ctx context.Context, rec model.BreachRecord) error
	FinishMatch(ctx context.Context, matchID, result string, ownHealth, oppHealth float64) error
}

// MatchReader reads back a persisted journal.
type MatchReader interface {
	FindMatch(ctx context.Context, matchID string) (*model.Match, error)
	ListMatches(ctx context.Context, limit int) ([]model.Match, error)
	ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error)
	ListBreaches(ctx context.Context, matchID string) ([]model.BreachRecord, error)
}
