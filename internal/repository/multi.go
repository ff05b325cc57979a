package repository

import (
	"context"
	"errors"

	"github.com/freeeve/breachline/internal/model"
)

// Multi fans every journal call out to all sinks. Each sink is called even
// when an earlier one fails; the errors are joined.
type Multi []MatchJournal

func (m Multi) StartMatch(ctx context.Context, match *model.Match) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.StartMatch(ctx, match))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordTurn(ctx context.Context, rec model.TurnRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordTurn(ctx, rec))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordBreach(ctx context.Context, rec model.BreachRecord) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.RecordBreach(ctx, rec))
	}
	return errors.Join(errs...)
}

func (m Multi) FinishMatch(ctx context.Context, matchID, result string, ownHealth, oppHealth float64) error {
	var errs []error
	for _, j := range m {
		errs = append(errs, j.FinishMatch(ctx, matchID, result, ownHealth, oppHealth))
	}
	return errors.Join(errs...)
}
