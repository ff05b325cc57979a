// Command algo is the Terminal algo the game host launches. It reads the
// host's frames on stdin (or a websocket) and answers every turn.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/internal/auth"
	"github.com/freeeve/breachline/internal/bot"
	"github.com/freeeve/breachline/internal/config"
	"github.com/freeeve/breachline/internal/logger"
	"github.com/freeeve/breachline/internal/repository"
	"github.com/freeeve/breachline/internal/repository/postgres"
	"github.com/freeeve/breachline/internal/repository/redis"
	"github.com/freeeve/breachline/pkg/algo"
)

func main() {
	logger.Init()
	cfg := config.Load()

	strategyName := flag.String("strategy", cfg.Strategy, "algo strategy (funnel, starter, hold)")
	transport := flag.String("transport", cfg.Transport, "host transport (stdio, websocket)")
	hostURL := flag.String("host", cfg.HostURL, "websocket host URL")
	layoutFile := flag.String("layout", cfg.LayoutFile, "YAML layout override")
	seed := flag.Int64("seed", cfg.Seed, "random seed (0 = clock)")
	matchID := flag.String("match", cfg.MatchID, "match ID for the journal (empty = generated)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	layout := bot.DefaultLayout()
	if *layoutFile != "" {
		l, err := bot.LoadLayout(*layoutFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", *layoutFile).Msg("Layout load failed")
		}
		layout = l
		log.Info().Str("file", *layoutFile).Msg("Layout override loaded")
	}
	strategy := bot.StrategyForName(*strategyName, layout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("Received shutdown signal")
		cancel()
	}()

	var journals repository.Multi
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Postgres journal disabled")
		} else {
			defer db.Close()
			journals = append(journals, postgres.NewMatchRepo(db))
		}
	}
	if cfg.RedisURL != "" {
		rc, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis status disabled")
		} else {
			defer rc.Close()
			journals = append(journals, rc)
		}
	}
	opts := bot.RunnerOptions{
		MatchID:        *matchID,
		Seed:           *seed,
		JournalTimeout: cfg.JournalTimeout,
	}
	if len(journals) > 0 {
		opts.Journal = journals
	}
	runner := bot.NewRunner(strategy, opts)

	var tr algo.Transport
	switch *transport {
	case "websocket":
		token, err := auth.NewTokenManager(cfg.HostSecret).GenerateAlgoToken("breachline", strategy.Name(), runner.MatchID())
		if err != nil {
			log.Fatal().Err(err).Msg("Token generation failed")
		}
		ws, err := algo.DialWebsocket(ctx, *hostURL, token)
		if err != nil {
			log.Fatal().Err(err).Str("host", *hostURL).Msg("Host connection failed")
		}
		tr = ws
	default:
		tr = algo.NewStdioTransport(os.Stdin, os.Stdout)
	}
	defer tr.Close()

	log.Info().
		Str("strategy", strategy.Name()).
		Str("transport", *transport).
		Str("matchId", runner.MatchID()).
		Int("journals", len(journals)).
		Msg("Algo starting")

	err := algo.NewCore(tr, runner).Run(ctx)
	runner.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Algo failed")
	}
	log.Info().Msg("Algo finished")
}
