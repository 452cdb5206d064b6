package handlers

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/frontend/telnet"
	"github.com/cory-johannsen/thirty/internal/game/command"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// tableResult tells the command loop what to do next.
type tableResult struct {
	quit bool
}

// tableHandlerFunc runs one command against the connection's match. A
// returned error ends the session; game errors are reported to the player instead.
type tableHandlerFunc func(tc *tableContext, parsed command.ParseResult) (tableResult, error)

// TableHandlers returns the map from Handler constant to table function.
// Exported so tests can verify every built-in command is dispatched.
func TableHandlers() map[string]tableHandlerFunc {
	return tableHandlerMap
}

var tableHandlerMap = map[string]tableHandlerFunc{
	command.HandlerThrow:   tableThrow,
	command.HandlerHold:    tableHold,
	command.HandlerScore:   tableScore,
	command.HandlerChoices: tableChoices,
	command.HandlerDice:    tableDice,
	command.HandlerScores:  tableScores,
	command.HandlerNew:     tableNew,
	command.HandlerResume:  tableResume,
	command.HandlerQuit:    tableQuit,
	command.HandlerHelp:    tableHelp,
}

// reply writes lines and maps a write failure to a session-ending error.
func reply(tc *tableContext, lines ...string) (tableResult, error) {
	return tableResult{}, tc.conn.WriteLines(lines...)
}

func replyError(tc *tableContext, err error) (tableResult, error) {
	return reply(tc, telnet.Colorize(telnet.Red, describeError(err)))
}

func tableThrow(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	if _, err := tc.entry.Match.Throw(); err != nil {
		return replyError(tc, err)
	}
	tc.save()
	return reply(tc, RenderTable(tc.entry.Match))
}

func tableHold(tc *tableContext, parsed command.ParseResult) (tableResult, error) {
	indices, err := command.DieIndices(parsed.Args)
	if err != nil {
		return replyError(tc, err)
	}
	var failures []string
	changed := false
	for _, idx := range indices {
		if err := tc.entry.Match.Hold(idx); err != nil {
			failures = append(failures, telnet.Colorize(telnet.Red, describeError(err)))
			if errors.Is(err, match.ErrMatchComplete) {
				break
			}
			continue
		}
		changed = true
	}
	if changed {
		tc.save()
	}
	return reply(tc, append(failures, RenderTable(tc.entry.Match))...)
}

func tableScore(tc *tableContext, parsed command.ParseResult) (tableResult, error) {
	c, err := command.CategoryArg(parsed.Args)
	if err != nil {
		if errors.Is(err, command.ErrBadArgument) {
			return reply(tc, telnet.Colorize(telnet.Red, "Usage: score <low|4-12>"))
		}
		return reply(tc, telnet.Colorf(telnet.Red, "%q is not a category.", strings.Join(parsed.Args, " ")))
	}

	out, err := tc.entry.Match.Score(c)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidCategory) {
			return reply(tc,
				telnet.Colorf(telnet.Red, "%s has already been played.", c),
				RenderChoices(tc.entry.Match.Choices()),
			)
		}
		return replyError(tc, err)
	}
	tc.save()

	lines := []string{RenderOutcome(out)}
	if out.Complete {
		tc.h.logger.Info("match complete",
			zap.String("match_id", tc.entry.ID),
			zap.Int("total", tc.entry.Match.Total()),
		)
		lines = append(lines, RenderScoreSheet(tc.entry.Match.Results(), tc.entry.Match.Total()))
	}
	lines = append(lines, RenderTable(tc.entry.Match))
	return reply(tc, lines...)
}

func tableChoices(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	return reply(tc, RenderChoices(tc.entry.Match.Choices()))
}

func tableDice(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	return reply(tc, RenderTable(tc.entry.Match))
}

func tableScores(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	return reply(tc, RenderScoreSheet(tc.entry.Match.Results(), tc.entry.Match.Total()))
}

func tableNew(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	previous := tc.entry.ID
	tc.release()
	if err := tc.conn.WriteLine(telnet.Colorf(telnet.Dim, "Match %s saved.", previous)); err != nil {
		return tableResult{}, err
	}
	return tableResult{}, tc.startMatch()
}

func tableResume(tc *tableContext, parsed command.ParseResult) (tableResult, error) {
	if len(parsed.Args) != 1 {
		return reply(tc, telnet.Colorize(telnet.Red, "Usage: resume <match-id>"))
	}
	if err := tc.resume(parsed.Args[0]); err != nil {
		tc.h.logger.Debug("resume refused", zap.String("match_id", parsed.Args[0]), zap.Error(err))
		return replyError(tc, err)
	}
	return reply(tc,
		telnet.Colorf(telnet.Cyan, "Match %s", tc.entry.ID),
		RenderTable(tc.entry.Match),
	)
}

func tableQuit(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	_ = tc.conn.WriteLine(telnet.Colorf(telnet.Cyan, "Match %s saved. Goodbye.", tc.entry.ID))
	return tableResult{quit: true}, nil
}

func tableHelp(tc *tableContext, _ command.ParseResult) (tableResult, error) {
	return reply(tc, RenderHelp(tc.h.registry))
}
