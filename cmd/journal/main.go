// Command journal prints the stored turn journal of a match, the list of
// recent matches, or the live status of a running match.
//
// Usage:
//
//	go run ./cmd/journal/ -list
//	go run ./cmd/journal/ -match abc123
//	go run ./cmd/journal/ -live abc123 -redis redis://localhost:6379/0
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/internal/model"
	"github.com/freeeve/breachline/internal/repository"
	"github.com/freeeve/breachline/internal/repository/postgres"
	"github.com/freeeve/breachline/internal/repository/redis"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dbURL := flag.String("db", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	redisURL := flag.String("redis", os.Getenv("REDIS_URL"), "Redis connection URL")
	matchID := flag.String("match", "", "Print the journal of this match")
	live := flag.String("live", "", "Print the live status of this match from Redis")
	list := flag.Bool("list", false, "List recent matches")
	limit := flag.Int("n", 20, "Number of matches to list")
	jsonOut := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *live != "" {
		if *redisURL == "" {
			log.Fatal().Msg("-live needs -redis or REDIS_URL")
		}
		rc, err := redis.NewClient(ctx, *redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer rc.Close()
		st, err := rc.GetMatchStatus(ctx, *live)
		if err != nil {
			log.Fatal().Err(err).Msg("Status lookup failed")
		}
		if st == nil {
			log.Fatal().Str("match", *live).Msg("No live status for match")
		}
		if *jsonOut {
			writeJSON(os.Stdout, st)
			return
		}
		fmt.Printf("%s  %s  %s  turn %d  %s %s  breaches: %s\n",
			st.MatchID, st.Strategy, st.Status, st.Turn, st.Posture, st.Lane, strings.Join(st.Breaches, " "))
		return
	}

	if *dbURL == "" {
		log.Fatal().Msg("-db or DATABASE_URL is required")
	}
	db, err := postgres.Connect(ctx, *dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	var reader repository.MatchReader = postgres.NewMatchRepo(db)

	switch {
	case *list:
		matches, err := reader.ListMatches(ctx, *limit)
		if err != nil {
			log.Fatal().Err(err).Msg("List failed")
		}
		if *jsonOut {
			writeJSON(os.Stdout, matches)
			return
		}
		printMatches(os.Stdout, matches)
	case *matchID != "":
		m, err := reader.FindMatch(ctx, *matchID)
		if err != nil {
			log.Fatal().Err(err).Msg("Match lookup failed")
		}
		if m == nil {
			log.Fatal().Str("match", *matchID).Msg("Match not found")
		}
		turns, err := reader.ListTurns(ctx, *matchID)
		if err != nil {
			log.Fatal().Err(err).Msg("Turn lookup failed")
		}
		breaches, err := reader.ListBreaches(ctx, *matchID)
		if err != nil {
			log.Fatal().Err(err).Msg("Breach lookup failed")
		}
		if *jsonOut {
			writeJSON(os.Stdout, map[string]any{"match": m, "turns": turns, "breaches": breaches})
			return
		}
		printJournal(os.Stdout, m, turns, breaches)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printMatches(w io.Writer, matches []model.Match) {
	for _, m := range matches {
		result := m.Result
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(w, "%-14s %-8s %-9s %-7s %s\n", m.ID, m.Strategy, m.Status, result, m.StartedAt.Format(time.RFC3339))
	}
}

func printJournal(w io.Writer, m *model.Match, turns []model.TurnRecord, breaches []model.BreachRecord) {
	fmt.Fprintf(w, "Match %s (%s, seed %d): %s", m.ID, m.Strategy, m.Seed, m.Status)
	if m.Result != "" {
		fmt.Fprintf(w, ", %s %.0f-%.0f", m.Result, m.OwnHealth, m.OppHealth)
	}
	fmt.Fprintln(w)

	breachesByTurn := make(map[int]int)
	for _, b := range breaches {
		breachesByTurn[b.Turn]++
	}
	for _, t := range turns {
		fmt.Fprintln(w, formatTurn(t, breachesByTurn[t.Turn]))
	}
}

// formatTurn renders one journal line.
func formatTurn(t model.TurnRecord, breaches int) string {
	lane := t.Lane
	if lane == "" {
		lane = "-"
	}
	attack := ""
	if t.Attack {
		attack = " attack"
	}
	return fmt.Sprintf("  turn %3d  %-18s %-5s SP %5.1f MP %5.1f  front %2d  build %2d deploy %2d  pruned %d  breaches %d%s",
		t.Turn, t.Posture, lane, t.OwnSP, t.OwnMP, t.EnemyFront, t.BuildCount, t.DeployCount, t.Pruned, breaches, attack)
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
