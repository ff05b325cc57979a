// Command replay runs recorded host streams (a config line followed by the
// game's frames, one JSON document per line) through a strategy and reports
// the posture it picks every turn. Replays are played in parallel.
//
// Usage:
//
//	go run ./cmd/replay/ -strategy funnel -workers 4 games/*.replay
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/internal/bot"
	"github.com/freeeve/breachline/internal/repository/postgres"
	"github.com/freeeve/breachline/pkg/algo"
)

// replayResult is the outcome of one replay file.
type replayResult struct {
	File    string           `json:"file"`
	MatchID string           `json:"match_id"`
	Turns   []bot.TurnReport `json:"turns"`
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		strategyName string
		layoutFile   string
		workers      int
		dbURL        string
		seed         int64
		jsonOut      bool
	)

	flag.StringVar(&strategyName, "strategy", "funnel", "Strategy to replay with")
	flag.StringVar(&layoutFile, "layout", "", "YAML layout override")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel replays)")
	flag.StringVar(&dbURL, "db", "", "Database URL to journal the replays (empty = no journal)")
	flag.Int64Var(&seed, "seed", 1, "Seed for every replay")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] file...")
		os.Exit(2)
	}
	if workers < 1 {
		workers = 1
	}

	layout := bot.DefaultLayout()
	if layoutFile != "" {
		l, err := bot.LoadLayout(layoutFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Layout load failed")
		}
		layout = l
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var journal *postgres.MatchRepo
	if dbURL != "" {
		db, err := postgres.Connect(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		journal = postgres.NewMatchRepo(db)
	}

	results := make([]*replayResult, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i, file := range files {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, file string) {
			defer wg.Done()
			defer func() { <-sem }()

			opts := bot.RunnerOptions{Seed: seed}
			if journal != nil {
				opts.Journal = journal
			}
			res, err := replayFile(ctx, file, bot.StrategyForName(strategyName, layout), opts)
			if err != nil {
				log.Error().Err(err).Str("file", file).Msg("Replay failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = res
			mu.Unlock()
			log.Info().Str("file", file).Int("turns", len(res.Turns)).Msg("Replay completed")
		}(i, file)
	}

	wg.Wait()

	if jsonOut {
		printJSON(os.Stdout, results, errCount)
	} else {
		printSummary(os.Stdout, results, errCount)
	}
}

func replayFile(ctx context.Context, path string, strategy bot.Strategy, opts bot.RunnerOptions) (*replayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return replay(ctx, f, path, strategy, opts)
}

// replay feeds a recorded stream to a runner; the submitted turns are discarded.
func replay(ctx context.Context, r io.Reader, name string, strategy bot.Strategy, opts bot.RunnerOptions) (*replayResult, error) {
	runner := bot.NewRunner(strategy, opts)
	defer runner.Close()
	tr := algo.NewStdioTransport(r, io.Discard)
	defer tr.Close()
	if err := algo.NewCore(tr, runner).Run(ctx); err != nil {
		return nil, err
	}
	return &replayResult{File: name, MatchID: runner.MatchID(), Turns: runner.Reports()}, nil
}

// postureCounts tallies how many turns each posture was played.
func postureCounts(results []*replayResult) map[bot.Posture]int {
	counts := make(map[bot.Posture]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, t := range r.Turns {
			counts[t.Posture]++
		}
	}
	return counts
}

func printSummary(w io.Writer, results []*replayResult, errCount int) {
	completed := 0
	for _, r := range results {
		if r != nil {
			completed++
		}
	}
	fmt.Fprintf(w, "\nReplays: %d completed", completed)
	if errCount > 0 {
		fmt.Fprintf(w, ", %d failed", errCount)
	}
	fmt.Fprintln(w)

	counts := postureCounts(results)
	postures := make([]string, 0, len(counts))
	for p := range counts {
		postures = append(postures, string(p))
	}
	sort.Strings(postures)
	for _, p := range postures {
		fmt.Fprintf(w, "  %-18s %d turns\n", p, counts[bot.Posture(p)])
	}
}

func printJSON(w io.Writer, results []*replayResult, errCount int) {
	out := struct {
		Total   int             `json:"total"`
		Errors  int             `json:"errors"`
		Results []*replayResult `json:"results"`
	}{
		Total:   len(results),
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}
