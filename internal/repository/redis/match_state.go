package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/breachline/internal/model"
)

// statusTTL bounds how long a finished or abandoned match stays visible.
const statusTTL = 24 * time.Hour

// Key patterns for live match status.
func statusKey(matchID string) string   { return "match:" + matchID + ":status" }
func breachesKey(matchID string) string { return "match:" + matchID + ":breaches" }

const activeKey = "matches:active"

// StartMatch publishes a new match as active.
func (c *Client) StartMatch(ctx context.Context, m *model.Match) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, statusKey(m.ID),
			"strategy", m.Strategy,
			"seed", m.Seed,
			"status", "active",
			"turn", -1,
		)
		p.Expire(ctx, statusKey(m.ID), statusTTL)
		p.SAdd(ctx, activeKey, m.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("start match status: %w", err)
	}
	return nil
}

// RecordTurn overwrites the live status with the latest turn.
func (c *Client) RecordTurn(ctx context.Context, t model.TurnRecord) error {
	err := c.rdb.HSet(ctx, statusKey(t.MatchID),
		"turn", t.Turn,
		"posture", t.Posture,
		"lane", t.Lane,
		"own_sp", t.OwnSP,
		"own_mp", t.OwnMP,
		"enemy_front", t.EnemyFront,
		"attack", t.Attack,
	).Err()
	if err != nil {
		return fmt.Errorf("record turn status: %w", err)
	}
	return nil
}

// RecordBreach appends "x,y@turn" to the match's breach list.
func (c *Client) RecordBreach(ctx context.Context, b model.BreachRecord) error {
	entry := fmt.Sprintf("%d,%d@%d", b.X, b.Y, b.Turn)
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, breachesKey(b.MatchID), entry)
		p.Expire(ctx, breachesKey(b.MatchID), statusTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record breach status: %w", err)
	}
	return nil
}

// FinishMatch marks the match finished and drops it from the active set.
func (c *Client) FinishMatch(ctx context.Context, matchID, result string, ownHealth, oppHealth float64) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, statusKey(matchID),
			"status", "finished",
			"result", result,
			"own_health", ownHealth,
			"opp_health", oppHealth,
		)
		p.SRem(ctx, activeKey, matchID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("finish match status: %w", err)
	}
	return nil
}

// MatchStatus is the live view of a match.
type MatchStatus struct {
	MatchID  string
	Strategy string
	Status   string
	Result   string
	Turn     int
	Posture  string
	Lane     string
	Breaches []string
}

// GetMatchStatus returns the live status, or nil when the match is unknown.
func (c *Client) GetMatchStatus(ctx context.Context, matchID string) (*MatchStatus, error) {
	fields, err := c.rdb.HGetAll(ctx, statusKey(matchID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get match status: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	breaches, err := c.rdb.LRange(ctx, breachesKey(matchID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("get match breaches: %w", err)
	}
	turn, _ := strconv.Atoi(fields["turn"])
	return &MatchStatus{
		MatchID:  matchID,
		Strategy: fields["strategy"],
		Status:   fields["status"],
		Result:   fields["result"],
		Turn:     turn,
		Posture:  fields["posture"],
		Lane:     fields["lane"],
		Breaches: breaches,
	}, nil
}

// ActiveMatches returns the IDs of matches still in progress.
func (c *Client) ActiveMatches(ctx context.Context) ([]string, error) {
	ids, err := c.rdb.SMembers(ctx, activeKey).Result()
	if err != nil {
		return nil, fmt.Errorf("active matches: %w", err)
	}
	return ids, nil
}
