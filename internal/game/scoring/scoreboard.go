// Package scoring implements the Thirty scoring engine: the category set, the
// per-game score ledger and exact-subset-sum resolution of a throw.
package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/thirty/internal/game/dice"
)

// DiceCount is the number of dice every resolution requires.
const DiceCount = 6

var (
	// ErrInvalidCategory is returned for a category outside the closed set or
	// one that was already played this game.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrMalformedDice is returned when a resolution is given anything other
	// than six dice showing values in [1, 6].
	ErrMalformedDice = errors.New("malformed dice input")
)

// Score is one ledger entry.
type Score struct {
	Category Category
	Points   int
}

// Scoreboard owns the categories still open in one game and the points
// recorded for those already played.
//
// A Scoreboard is not safe for concurrent use; one game owns one Scoreboard.
//
// Invariant: every category is either available or in the ledger, never both.
type Scoreboard struct {
	available map[Category]bool
	ledger    map[Category]int
}

// NewScoreboard returns a Scoreboard with all ten categories available.
func NewScoreboard() *Scoreboard {
	s := &Scoreboard{}
	s.Reset()
	return s
}

// Reset clears the ledger and reopens every category. Dice are not touched.
//
// Postcondition: len(Available()) == 10; Total() == 0.
func (s *Scoreboard) Reset() {
	s.available = make(map[Category]bool, maxTarget-lowTarget+1)
	for _, c := range AllCategories() {
		s.available[c] = true
	}
	s.ledger = make(map[Category]int, maxTarget-lowTarget+1)
}

// IsAvailable reports whether c may still be played.
func (s *Scoreboard) IsAvailable(c Category) bool {
	return s.available[c]
}

// Complete reports whether every category has been played.
func (s *Scoreboard) Complete() bool {
	return len(s.available) == 0
}

// Available returns the categories not yet played, Low first then ascending.
func (s *Scoreboard) Available() []Category {
	out := make([]Category, 0, len(s.available))
	for c := range s.available {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Total returns the sum of all recorded points.
func (s *Scoreboard) Total() int {
	total := 0
	for _, p := range s.ledger {
		total += p
	}
	return total
}

// RoundScores returns the ledger ordered Low first then ascending.
func (s *Scoreboard) RoundScores() []Score {
	out := make([]Score, 0, len(s.ledger))
	for c, p := range s.ledger {
		out = append(out, Score{Category: c, Points: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category.Less(out[j].Category) })
	return out
}

// Resolve commits the throw in dice to category c and returns the points
// awarded.
//
// Low awards the sum of every die showing three or less and marks nothing.
// A numeric category awards its target once for every disjoint group of
// unconsumed dice found summing exactly to it, marking those dice consumed.
// A zero-point resolution still uses up the category.
//
// Precondition: len(dice) == 6 with every value in [1, 6]; c is available.
// Postcondition: on error nothing is mutated. On success c is no longer
// available, the ledger holds (c, points), and the dice newly consumed sum to
// points (numeric categories only).
func (s *Scoreboard) Resolve(dd []*dice.Die, c Category) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCategory, c)
	}
	if !s.available[c] {
		return 0, fmt.Errorf("%w: %s already played", ErrInvalidCategory, c)
	}
	if err := validateDice(dd); err != nil {
		return 0, err
	}

	var points int
	if c.IsLow() {
		points = sumLow(dd)
	} else {
		points = resolveTarget(dd, c.Target())
	}

	delete(s.available, c)
	s.ledger[c] = points
	return points, nil
}

func validateDice(dd []*dice.Die) error {
	if len(dd) != DiceCount {
		return fmt.Errorf("%w: got %d dice, want %d", ErrMalformedDice, len(dd), DiceCount)
	}
	for i, d := range dd {
		if d == nil {
			return fmt.Errorf("%w: die %d is nil", ErrMalformedDice, i)
		}
		if v := d.Value(); v < 1 || v > dice.Faces {
			return fmt.Errorf("%w: die %d shows %d", ErrMalformedDice, i, v)
		}
	}
	return nil
}
