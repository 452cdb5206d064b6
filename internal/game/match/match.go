// Package match runs one game of Thirty: ten rounds of up to three throws,
// each round closed by committing the dice to a scoring category.
package match

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// Default rules.
const (
	DefaultRounds         = 10
	DefaultThrowsPerRound = 3
)

var (
	// ErrNoThrowsLeft is returned by Throw once the round's throws are spent.
	ErrNoThrowsLeft = errors.New("no throws left this round")
	// ErrMatchComplete is returned by any play after the final round.
	ErrMatchComplete = errors.New("match is complete")
	// ErrDieIndex is returned when a die position is outside [0, 6).
	ErrDieIndex = errors.New("die index out of range")
	// ErrDieLocked is returned when holding a die that can no longer be thrown.
	ErrDieLocked = errors.New("die is locked for this round")
	// ErrSnapshotNotFound is returned by a Store that holds no snapshot for an id.
	ErrSnapshotNotFound = errors.New("match snapshot not found")
)

// Rules configures the length of a match.
type Rules struct {
	// Rounds is the number of rounds played; at most one per category.
	Rounds int
	// ThrowsPerRound counts the opening throw of each round.
	ThrowsPerRound int
}

// DefaultRules returns ten rounds of three throws.
func DefaultRules() Rules {
	return Rules{Rounds: DefaultRounds, ThrowsPerRound: DefaultThrowsPerRound}
}

// Validate checks the rule bounds.
//
// Postcondition: Returns nil if 1 <= Rounds <= 10 and ThrowsPerRound >= 1.
func (r Rules) Validate() error {
	if r.Rounds < 1 || r.Rounds > len(scoring.AllCategories()) {
		return fmt.Errorf("rounds must be 1-%d, got %d", len(scoring.AllCategories()), r.Rounds)
	}
	if r.ThrowsPerRound < 1 {
		return fmt.Errorf("throws per round must be >= 1, got %d", r.ThrowsPerRound)
	}
	return nil
}

// Outcome reports the result of committing a round to a category.
type Outcome struct {
	Round    int
	Category scoring.Category
	Points   int
	// Values are the dice as scored; Used holds the positions consumed.
	Values []int
	Used   []int
	// Complete is true when this was the final round.
	Complete bool
}

// Match is the state of a single game.
//
// A Match is not safe for concurrent use.
type Match struct {
	rules      Rules
	dice       []*dice.Die
	board      *scoring.Scoreboard
	roller     *dice.Roller
	logger     *zap.Logger
	round      int
	throwsLeft int
	complete   bool
}

// New starts a match at round one with the opening throw already made.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a Match with Round() == 1 or a rules error.
func New(rules Rules, roller *dice.Roller, logger *zap.Logger) (*Match, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	m := &Match{
		rules:  rules,
		dice:   make([]*dice.Die, scoring.DiceCount),
		board:  scoring.NewScoreboard(),
		roller: roller,
		logger: logger,
	}
	for i := range m.dice {
		m.dice[i] = dice.MustNew(1)
	}
	m.round = 1
	m.startRound()
	return m, nil
}

// NewGame discards all progress and starts again from round one.
func (m *Match) NewGame() {
	m.board.Reset()
	m.round = 1
	m.complete = false
	m.startRound()
	m.logger.Info("new game started")
}

func (m *Match) startRound() {
	for _, d := range m.dice {
		d.Reset()
	}
	m.roller.Throw(m.dice)
	m.throwsLeft = m.rules.ThrowsPerRound - 1
	if m.throwsLeft == 0 {
		m.lockAll()
	}
}

func (m *Match) lockAll() {
	for _, d := range m.dice {
		d.Lock()
	}
}

// Throw re-rolls every enabled, unheld die. Held dice are locked.
//
// Postcondition: ThrowsLeft() decreases by one; when it reaches zero every
// die is locked.
func (m *Match) Throw() ([]int, error) {
	if m.complete {
		return nil, ErrMatchComplete
	}
	if m.throwsLeft == 0 {
		return nil, ErrNoThrowsLeft
	}
	values := m.roller.Throw(m.dice)
	m.throwsLeft--
	if m.throwsLeft == 0 {
		m.lockAll()
	}
	return values, nil
}

// Hold toggles the hold on the die at index.
//
// Precondition: 0 <= index < 6.
// Postcondition: the die's Selected flag flips, or an error is returned and
// nothing changes.
func (m *Match) Hold(index int) error {
	if m.complete {
		return ErrMatchComplete
	}
	if index < 0 || index >= len(m.dice) {
		return fmt.Errorf("%w: %d", ErrDieIndex, index)
	}
	d := m.dice[index]
	if !d.Enabled() {
		return fmt.Errorf("%w: die %d", ErrDieLocked, index)
	}
	d.Select()
	return nil
}

// Score commits the current dice to c and moves to the next round, or ends
// the match after the final round.
//
// Postcondition: on error the match is unchanged.
func (m *Match) Score(c scoring.Category) (Outcome, error) {
	if m.complete {
		return Outcome{}, ErrMatchComplete
	}
	values := dice.Values(m.dice)
	points, err := m.board.Resolve(m.dice, c)
	if err != nil {
		return Outcome{}, fmt.Errorf("scoring round %d: %w", m.round, err)
	}

	out := Outcome{
		Round:    m.round,
		Category: c,
		Points:   points,
		Values:   values,
		Used:     make([]int, 0, len(m.dice)),
	}
	for i, d := range m.dice {
		if d.Consumed() {
			out.Used = append(out.Used, i)
		}
	}

	m.logger.Debug("round scored",
		zap.Int("round", m.round),
		zap.Stringer("category", c),
		zap.Ints("dice", values),
		zap.Ints("used", out.Used),
		zap.Int("points", points),
		zap.Int("total", m.board.Total()),
	)

	if m.round >= m.rules.Rounds || m.board.Complete() {
		m.complete = true
		out.Complete = true
		m.lockAll()
		m.logger.Info("match complete", zap.Int("total", m.board.Total()))
		return out, nil
	}
	m.round++
	m.startRound()
	return out, nil
}

// Round returns the current round number, starting at 1.
func (m *Match) Round() int { return m.round }

// ThrowsLeft returns the re-throws remaining this round.
func (m *Match) ThrowsLeft() int { return m.throwsLeft }

// Complete reports whether the final round has been scored.
func (m *Match) Complete() bool { return m.complete }

// Rules returns the rules the match was created with.
func (m *Match) Rules() Rules { return m.rules }

// Dice returns a copy of the current dice state in position order.
func (m *Match) Dice() []dice.State {
	out := make([]dice.State, len(m.dice))
	for i, d := range m.dice {
		out[i] = d.State()
	}
	return out
}

// Choices returns the categories still open.
func (m *Match) Choices() []scoring.Category { return m.board.Available() }

// Total returns the points scored so far.
func (m *Match) Total() int { return m.board.Total() }

// Results returns the ledger ordered Low first.
func (m *Match) Results() []scoring.Score { return m.board.RoundScores() }
