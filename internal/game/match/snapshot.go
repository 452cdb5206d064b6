package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// Snapshot is everything needed to rebuild a Match exactly.
type Snapshot struct {
	Rules      Rules
	Round      int
	ThrowsLeft int
	Complete   bool
	Dice       []dice.State
	Board      scoring.Snapshot
}

// Store persists match snapshots by id.
type Store interface {
	Save(ctx context.Context, id string, snap Snapshot) error
	Load(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// Snapshot captures the full match state.
func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		Rules:      m.rules,
		Round:      m.round,
		ThrowsLeft: m.throwsLeft,
		Complete:   m.complete,
		Dice:       m.Dice(),
		Board:      m.board.Snapshot(),
	}
}

// Restore rebuilds a match from snap without throwing any dice.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a Match whose Snapshot() equals snap, or an error if
// snap is inconsistent.
func Restore(snap Snapshot, roller *dice.Roller, logger *zap.Logger) (*Match, error) {
	if err := snap.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("restoring match rules: %w", err)
	}
	if snap.Round < 1 || snap.Round > snap.Rules.Rounds {
		return nil, fmt.Errorf("restoring match: round %d outside 1-%d", snap.Round, snap.Rules.Rounds)
	}
	if snap.ThrowsLeft < 0 || snap.ThrowsLeft >= snap.Rules.ThrowsPerRound {
		return nil, fmt.Errorf("restoring match: %d throws left with %d per round", snap.ThrowsLeft, snap.Rules.ThrowsPerRound)
	}
	if len(snap.Dice) != scoring.DiceCount {
		return nil, fmt.Errorf("restoring match: %w: %d dice", scoring.ErrMalformedDice, len(snap.Dice))
	}
	board, err := scoring.Restore(snap.Board)
	if err != nil {
		return nil, fmt.Errorf("restoring match: %w", err)
	}
	played := snap.Round - 1
	if snap.Complete {
		played = snap.Round
	}
	if len(snap.Board.Scores) != played {
		return nil, fmt.Errorf("restoring match: %d categories played by round %d (complete=%v)",
			len(snap.Board.Scores), snap.Round, snap.Complete)
	}

	m := &Match{
		rules:      snap.Rules,
		dice:       make([]*dice.Die, len(snap.Dice)),
		board:      board,
		roller:     roller,
		logger:     logger,
		round:      snap.Round,
		throwsLeft: snap.ThrowsLeft,
		complete:   snap.Complete,
	}
	for i, s := range snap.Dice {
		d, err := dice.FromState(s)
		if err != nil {
			return nil, fmt.Errorf("restoring die %d: %w", i, err)
		}
		m.dice[i] = d
	}
	return m, nil
}
