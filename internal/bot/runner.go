package bot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/internal/logger"
	"github.com/freeeve/breachline/internal/model"
	"github.com/freeeve/breachline/internal/repository"
	"github.com/freeeve/breachline/pkg/algo"
	"github.com/freeeve/breachline/pkg/terminal"
)

// RunnerOptions configures a Runner. Journal may be nil.
type RunnerOptions struct {
	MatchID        string
	Seed           int64
	Journal        repository.MatchJournal
	JournalTimeout time.Duration
}

// journalQueueSize bounds the writes waiting on a slow journal. Writes past
// it are dropped.
const journalQueueSize = 64

type journalWrite struct {
	ctx  context.Context
	what string
	fn   func(context.Context, repository.MatchJournal) error
}

// Runner plays a Strategy through the host protocol and journals each turn.
// Journal writes run on a single background writer, off the turn path.
type Runner struct {
	strategy Strategy
	opts     RunnerOptions
	session  *Session
	reports  []TurnReport

	mu     sync.Mutex
	closed bool
	writes chan journalWrite
	done   chan struct{}
}

var _ algo.Handler = (*Runner)(nil)

// NewRunner creates a Runner. A missing match ID is generated.
func NewRunner(strategy Strategy, opts RunnerOptions) *Runner {
	if opts.MatchID == "" {
		opts.MatchID = logger.NewMatchID()
	}
	if opts.JournalTimeout <= 0 {
		opts.JournalTimeout = 2 * time.Second
	}
	r := &Runner{strategy: strategy, opts: opts}
	if opts.Journal != nil {
		r.writes = make(chan journalWrite, journalQueueSize)
		r.done = make(chan struct{})
		go r.writeLoop()
	}
	return r
}

// Close waits for queued journal writes to finish. It is safe to call more
// than once; later journal writes are dropped.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed || r.writes == nil {
		r.closed = true
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.writes)
	r.mu.Unlock()
	<-r.done
}

// MatchID returns the ID the match is journaled under.
func (r *Runner) MatchID() string { return r.opts.MatchID }

// Session returns the current game session, nil before the config arrives.
func (r *Runner) Session() *Session { return r.session }

// Reports returns the turn reports played so far.
func (r *Runner) Reports() []TurnReport { return append([]TurnReport(nil), r.reports...) }

func (r *Runner) OnGameStart(ctx context.Context, cfg *terminal.Config) error {
	r.session = NewSession(cfg, r.opts.Seed)
	r.reports = nil
	l := logger.ForMatch(logger.WithMatchID(ctx, r.opts.MatchID))
	l.Info().
		Str("strategy", r.strategy.Name()).
		Int64("seed", r.session.Seed).
		Msg("Configuring algo")

	r.journal(ctx, "start match", func(ctx context.Context, j repository.MatchJournal) error {
		return j.StartMatch(ctx, &model.Match{ID: r.opts.MatchID, Strategy: r.strategy.Name(), Seed: r.session.Seed})
	})
	return nil
}

func (r *Runner) OnTurn(ctx context.Context, gs *terminal.GameState) error {
	if r.session == nil {
		r.session = NewSession(gs.Config, r.opts.Seed)
	}
	start := time.Now()
	report := r.strategy.PlayTurn(r.session, gs)
	r.reports = append(r.reports, report)

	l := logger.ForMatch(logger.WithMatchID(ctx, r.opts.MatchID))
	l.Info().
		Int("turn", report.Turn).
		Str("posture", string(report.Posture)).
		Str("lane", string(report.Lane)).
		Bool("attack", report.Attack).
		Int("build", len(gs.BuildStack())).
		Int("deploy", len(gs.DeployStack())).
		Dur("took", time.Since(start)).
		Msg("Turn submitted")

	rec := model.TurnRecord{
		MatchID:         r.opts.MatchID,
		Turn:            report.Turn,
		Posture:         string(report.Posture),
		Lane:            string(report.Lane),
		OwnSP:           gs.Resource(terminal.SP, terminal.Self),
		OwnMP:           gs.Resource(terminal.MP, terminal.Self),
		OppSP:           gs.Resource(terminal.SP, terminal.Opponent),
		OppMP:           gs.Resource(terminal.MP, terminal.Opponent),
		EnemyFront:      report.EnemyFrontCount,
		Attack:          report.Attack,
		BuildCount:      len(gs.BuildStack()),
		DeployCount:     len(gs.DeployStack()),
		ReactiveTurrets: report.ReactiveTurrets,
		Pruned:          report.Pruned,
	}
	if len(report.Waves) > 0 {
		if waves, err := json.Marshal(report.Waves); err == nil {
			rec.Waves = waves
		}
	}
	r.journal(ctx, "record turn", func(ctx context.Context, j repository.MatchJournal) error {
		return j.RecordTurn(ctx, rec)
	})
	return nil
}

// OnActionFrame only feeds the breach log.
func (r *Runner) OnActionFrame(ctx context.Context, af *terminal.ActionFrame) {
	if r.session == nil {
		return
	}
	for _, b := range r.session.Breaches.Observe(af) {
		rec := model.BreachRecord{MatchID: r.opts.MatchID, Turn: b.Turn, X: b.Location.X(), Y: b.Location.Y()}
		r.journal(ctx, "record breach", func(ctx context.Context, j repository.MatchJournal) error {
			return j.RecordBreach(ctx, rec)
		})
	}
}

func (r *Runner) OnGameEnd(ctx context.Context, frame []byte) {
	l := logger.ForMatch(logger.WithMatchID(ctx, r.opts.MatchID))
	logger.LogFrame(l, "end_frame", frame)

	result, own, opp := model.ResultUnknown, 0.0, 0.0
	if r.session != nil && r.session.Config != nil {
		if gs, err := terminal.NewGameState(r.session.Config, frame); err == nil {
			own, opp = gs.Health(terminal.Self), gs.Health(terminal.Opponent)
			result = matchResult(own, opp)
		}
	}
	breaches := 0
	if r.session != nil {
		breaches = r.session.Breaches.Len()
	}
	l.Info().
		Str("result", result).
		Float64("health", own).
		Float64("enemyHealth", opp).
		Int("breaches", breaches).
		Int("turns", len(r.reports)).
		Msg("Game over")

	r.journal(ctx, "finish match", func(ctx context.Context, j repository.MatchJournal) error {
		return j.FinishMatch(ctx, r.opts.MatchID, result, own, opp)
	})
	r.Close()
}

func matchResult(own, opp float64) string {
	switch {
	case own > opp:
		return model.ResultWin
	case own < opp:
		return model.ResultLoss
	default:
		return model.ResultDraw
	}
}

// journal queues fn for the background writer. A full queue drops the write.
func (r *Runner) journal(ctx context.Context, what string, fn func(context.Context, repository.MatchJournal) error) {
	if r.opts.Journal == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		log.Warn().Str("matchId", r.opts.MatchID).Msg("Journal " + what + " after close, dropped")
		return
	}
	select {
	case r.writes <- journalWrite{ctx: context.WithoutCancel(ctx), what: what, fn: fn}:
	default:
		log.Warn().Str("matchId", r.opts.MatchID).Msg("Journal queue full, dropping " + what)
	}
}

// writeLoop runs queued writes in order, each under the per-call timeout.
// Failures are logged and never reach the game loop.
func (r *Runner) writeLoop() {
	defer close(r.done)
	for w := range r.writes {
		ctx, cancel := context.WithTimeout(w.ctx, r.opts.JournalTimeout)
		if err := w.fn(ctx, r.opts.Journal); err != nil {
			log.Warn().Err(err).Str("matchId", r.opts.MatchID).Msg("Journal " + w.what + " failed")
		}
		cancel()
	}
}
