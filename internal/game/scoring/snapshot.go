package scoring

import "fmt"

// Snapshot is the persisted form of a Scoreboard.
type Snapshot struct {
	Scores    []Score
	Available []Category
}

// Snapshot captures the ledger and open categories.
func (s *Scoreboard) Snapshot() Snapshot {
	return Snapshot{Scores: s.RoundScores(), Available: s.Available()}
}

// Restore rebuilds a Scoreboard from snap.
//
// Postcondition: Returns a Scoreboard whose Available and RoundScores equal
// snap, or an error wrapping ErrInvalidCategory if snap is inconsistent: an
// invalid or duplicated category, or a category both played and open, or a
// category missing from both.
func Restore(snap Snapshot) (*Scoreboard, error) {
	s := &Scoreboard{
		available: make(map[Category]bool, len(snap.Available)),
		ledger:    make(map[Category]int, len(snap.Scores)),
	}
	for _, sc := range snap.Scores {
		if !sc.Category.Valid() {
			return nil, fmt.Errorf("restoring ledger: %w: %s", ErrInvalidCategory, sc.Category)
		}
		if _, dup := s.ledger[sc.Category]; dup {
			return nil, fmt.Errorf("restoring ledger: %w: %s recorded twice", ErrInvalidCategory, sc.Category)
		}
		s.ledger[sc.Category] = sc.Points
	}
	for _, c := range snap.Available {
		if !c.Valid() {
			return nil, fmt.Errorf("restoring categories: %w: %s", ErrInvalidCategory, c)
		}
		if _, played := s.ledger[c]; played {
			return nil, fmt.Errorf("restoring categories: %w: %s is both played and open", ErrInvalidCategory, c)
		}
		if s.available[c] {
			return nil, fmt.Errorf("restoring categories: %w: %s listed twice", ErrInvalidCategory, c)
		}
		s.available[c] = true
	}
	if len(s.available)+len(s.ledger) != len(AllCategories()) {
		return nil, fmt.Errorf("restoring: %w: %d played and %d open, want %d in total",
			ErrInvalidCategory, len(s.ledger), len(s.available), len(AllCategories()))
	}
	return s, nil
}
