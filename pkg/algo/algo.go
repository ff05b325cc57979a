// Package algo runs a Terminal algo against a game host. The host sends one
// JSON document per line: first the game config, then a frame for every turn
// start and every action-phase step, and finally an end-of-game frame. The
// algo answers each turn-start frame with exactly two lines, the build stack
// and the deploy stack.
package algo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/breachline/pkg/terminal"
)

// Handler receives the host's messages. OnTurn queues requests on the game
// state; Core submits whatever was queued once OnTurn returns.
type Handler interface {
	OnGameStart(ctx context.Context, cfg *terminal.Config) error
	OnTurn(ctx context.Context, gs *terminal.GameState) error
	OnActionFrame(ctx context.Context, af *terminal.ActionFrame)
	OnGameEnd(ctx context.Context, frame []byte)
}

// Core is the message loop between a Transport and a Handler.
type Core struct {
	transport Transport
	handler   Handler
	cfg       *terminal.Config
}

// NewCore creates a Core.
func NewCore(t Transport, h Handler) *Core {
	return &Core{transport: t, handler: h}
}

// Run processes host messages until the end-of-game frame, the host closing
// the stream, or ctx being cancelled. Undecodable lines are logged and
// skipped; only transport failures are returned.
func (c *Core) Run(ctx context.Context) error {
	for {
		line, err := c.transport.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			log.Info().Msg("Host closed the stream")
			return nil
		}
		if err != nil {
			return fmt.Errorf("algo: read: %w", err)
		}

		stateType, isFrame, err := terminal.PeekStateType(line)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable host message")
			continue
		}

		if !isFrame {
			if err := c.startGame(ctx, line); err != nil {
				log.Error().Err(err).Msg("Game start failed")
			}
			continue
		}

		switch stateType {
		case terminal.StateTurn:
			if err := c.playTurn(ctx, line); err != nil {
				return err
			}
		case terminal.StateAction:
			af, err := terminal.ParseActionFrame(line)
			if err != nil {
				log.Warn().Err(err).Msg("Skipping undecodable action frame")
				continue
			}
			c.handler.OnActionFrame(ctx, af)
		case terminal.StateEnd:
			log.Info().Msg("Got end state, game over")
			c.handler.OnGameEnd(ctx, line)
			return nil
		default:
			log.Warn().Int("stateType", int(stateType)).Msg("Unexpected frame type")
		}
	}
}

func (c *Core) startGame(ctx context.Context, line []byte) error {
	cfg, err := terminal.ParseConfig(line)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return c.handler.OnGameStart(ctx, cfg)
}

// playTurn always answers a turn frame, with empty stacks if the frame could
// not be used, so the host never waits on the algo.
func (c *Core) playTurn(ctx context.Context, line []byte) error {
	if c.cfg == nil {
		log.Warn().Msg("Turn frame before game config, submitting empty turn")
		return c.submitEmpty()
	}
	gs, err := terminal.NewGameState(c.cfg, line)
	if err != nil {
		log.Warn().Err(err).Msg("Undecodable turn frame, submitting empty turn")
		return c.submitEmpty()
	}
	if err := c.handler.OnTurn(ctx, gs); err != nil {
		log.Error().Err(err).Int("turn", gs.TurnNumber()).Msg("Turn handler failed, submitting queued requests")
	}

	build, deploy, err := gs.EncodeTurn()
	if err != nil {
		return fmt.Errorf("algo: encode turn: %w", err)
	}
	return c.submit(build, deploy)
}

func (c *Core) submitEmpty() error {
	return c.submit([]byte("[]"), []byte("[]"))
}

func (c *Core) submit(build, deploy []byte) error {
	if err := c.transport.WriteLine(build); err != nil {
		return fmt.Errorf("algo: write build stack: %w", err)
	}
	if err := c.transport.WriteLine(deploy); err != nil {
		return fmt.Errorf("algo: write deploy stack: %w", err)
	}
	return nil
}
