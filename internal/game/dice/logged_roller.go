package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice throws.
// Every throw is logged at debug level with the held and resulting values.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that throws with src and logs each throw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Throw rolls dice once and logs the outcome.
//
// Postcondition: same as the package-level Throw.
func (r *Roller) Throw(dice []*Die) []int {
	held := make([]int, 0, len(dice))
	for i, d := range dice {
		if d.Selected() || !d.Enabled() {
			held = append(held, i)
		}
	}
	values := Throw(dice, r.src)
	r.logger.Debug("dice throw",
		zap.Ints("held", held),
		zap.Ints("values", values),
	)
	return values
}
