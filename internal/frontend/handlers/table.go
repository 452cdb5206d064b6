// Package handlers runs the Thirty game over a Telnet session.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/frontend/telnet"
	"github.com/cory-johannsen/thirty/internal/game/command"
	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/session"
)

const welcomeBanner = `
` + telnet.Bold + telnet.BrightWhite + `  T H I R T Y` + telnet.Reset + `

  Six dice, ten rounds, three throws a round.
  Type ` + telnet.Green + `help` + telnet.Reset + ` for commands or ` + telnet.Green + `resume <match-id>` + telnet.Reset + ` to continue a saved match.
`

const prompt = telnet.Cyan + "thirty> " + telnet.Reset

// saveTimeout bounds each snapshot write.
const saveTimeout = 5 * time.Second

// GameHandler implements telnet.SessionHandler. Each connection plays one
// match at a time; the match is saved after every change.
type GameHandler struct {
	store    match.Store
	sessions *session.Manager
	registry *command.Registry
	roller   *dice.Roller
	rules    match.Rules
	logger   *zap.Logger
}

// NewGameHandler creates a GameHandler.
//
// Precondition: all arguments must be non-nil and rules must be valid.
// Postcondition: Returns a GameHandler ready to handle sessions.
func NewGameHandler(
	store match.Store,
	sessions *session.Manager,
	registry *command.Registry,
	roller *dice.Roller,
	rules match.Rules,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		store:    store,
		sessions: sessions,
		registry: registry,
		roller:   roller,
		rules:    rules,
		logger:   logger,
	}
}

// HandleSession implements telnet.SessionHandler. It starts a new match and
// processes commands until the player quits or disconnects.
//
// Postcondition: Returns nil on quit, or the error that ended the session.
// The attached match is saved and detached in every case.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.WriteString(welcomeBanner); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	tc := &tableContext{h: h, ctx: ctx, conn: conn, addr: addr}
	if err := tc.startMatch(); err != nil {
		return err
	}
	defer tc.release()

	err := h.commandLoop(tc)
	h.logger.Info("player left",
		zap.String("remote_addr", addr),
		zap.String("match_id", tc.entry.ID),
		zap.Int("round", tc.entry.Match.Round()),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}

// commandLoop reads lines, resolves them through the registry and dispatches
// to the table handlers.
//
// Postcondition: Returns nil on quit, ctx.Err() on cancellation, or a wrapped error on failure.
func (h *GameHandler) commandLoop(tc *tableContext) error {
	for {
		select {
		case <-tc.ctx.Done():
			_ = tc.conn.WriteLine(telnet.Colorize(telnet.Yellow, "Server shutting down. Your match is saved."))
			return tc.ctx.Err()
		default:
		}

		if err := tc.conn.WritePrompt(prompt); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		line, err := tc.conn.ReadLine()
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		parsed := command.Parse(line)
		if parsed.Command == "" {
			continue
		}
		cmd, ok := h.registry.Resolve(parsed.Command)
		if !ok {
			_ = tc.conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command %q. Type help for a list.", parsed.Command))
			continue
		}
		fn, ok := tableHandlerMap[cmd.Handler]
		if !ok {
			h.logger.Error("command has no table handler", zap.String("handler", cmd.Handler))
			continue
		}

		res, err := fn(tc, parsed)
		if err != nil {
			return err
		}
		if res.quit {
			return nil
		}
	}
}

// tableContext is the per-connection state shared by the table handlers.
type tableContext struct {
	h     *GameHandler
	ctx   context.Context
	conn  *telnet.Conn
	addr  string
	entry *session.Entry
}

// startMatch creates a fresh match, attaches it and shows the opening throw.
func (tc *tableContext) startMatch() error {
	m, err := match.New(tc.h.rules, tc.h.roller, tc.h.logger)
	if err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	tc.entry = tc.h.sessions.Create(tc.addr, m)
	tc.h.logger.Info("match started",
		zap.String("match_id", tc.entry.ID),
		zap.String("remote_addr", tc.addr),
	)
	tc.save()
	return tc.conn.WriteLines(
		telnet.Colorf(telnet.Cyan, "Match %s", tc.entry.ID),
		RenderTable(m),
	)
}

// release saves and detaches the current match.
func (tc *tableContext) release() {
	if tc.entry == nil {
		return
	}
	tc.save()
	if err := tc.h.sessions.Detach(tc.entry.ID); err != nil {
		tc.h.logger.Warn("detaching match", zap.String("match_id", tc.entry.ID), zap.Error(err))
	}
	tc.entry = nil
}

// save writes the current snapshot. Storage failures are logged and reported
// to the player; play continues from memory.
func (tc *tableContext) save() {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(tc.ctx), saveTimeout)
	defer cancel()

	if err := tc.h.store.Save(ctx, tc.entry.ID, tc.entry.Match.Snapshot()); err != nil {
		tc.h.logger.Error("saving match", zap.String("match_id", tc.entry.ID), zap.Error(err))
		_ = tc.conn.WriteLine(telnet.Colorize(telnet.Red, "Warning: this match could not be saved."))
	}
}

// resume loads id from storage and attaches it in place of the current match.
func (tc *tableContext) resume(raw string) error {
	id, err := session.NormalizeID(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", match.ErrSnapshotNotFound, err)
	}
	if id == tc.entry.ID {
		return fmt.Errorf("%w: %s", session.ErrMatchActive, id)
	}
	snap, err := tc.h.store.Load(tc.ctx, id)
	if err != nil {
		return err
	}
	m, err := match.Restore(snap, tc.h.roller, tc.h.logger)
	if err != nil {
		return err
	}
	entry, err := tc.h.sessions.Attach(id, tc.addr, m)
	if err != nil {
		return err
	}
	tc.release()
	tc.entry = entry
	tc.h.logger.Info("match resumed",
		zap.String("match_id", id),
		zap.String("remote_addr", tc.addr),
		zap.Int("round", m.Round()),
	)
	return nil
}

// describeError turns a game error into a player-facing message.
func describeError(err error) string {
	switch {
	case errors.Is(err, match.ErrNoThrowsLeft):
		return "No throws left this round. Score a category."
	case errors.Is(err, match.ErrMatchComplete):
		return "This match is over. Type new to play again."
	case errors.Is(err, match.ErrDieLocked):
		return "That die is locked for the rest of the round."
	case errors.Is(err, match.ErrDieIndex), errors.Is(err, command.ErrBadArgument):
		return "Name dice by number, 1 to 6."
	case errors.Is(err, match.ErrSnapshotNotFound):
		return "No saved match with that id."
	case errors.Is(err, session.ErrMatchActive):
		return "That match is already being played."
	default:
		return err.Error()
	}
}
