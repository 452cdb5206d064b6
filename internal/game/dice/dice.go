// Package dice provides the six-sided die model and the randomness
// abstraction used to throw it.
package dice

import (
	"errors"
	"fmt"
)

// Faces is the number of sides on every die in the game.
const Faces = 6

// ErrInvalidValue is returned when a die value lies outside [1, Faces].
var ErrInvalidValue = errors.New("dice: value out of range")

// Source is the randomness provider for dice throws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// State is the plain, serializable form of a Die.
type State struct {
	Value    int  `yaml:"value" json:"value"`
	Consumed bool `yaml:"consumed" json:"consumed"`
	Enabled  bool `yaml:"enabled" json:"enabled"`
	Selected bool `yaml:"selected" json:"selected"`
}

// Die is a single six-sided die.
//
// A die is enabled while it may still be thrown this round. Selecting an
// enabled die holds it; the next throw locks a held die (disabled, deselected)
// instead of changing its value. Consumed marks a die already used to satisfy
// a scoring category this round.
//
// Invariant: 1 <= Value() <= Faces.
type Die struct {
	value    int
	consumed bool
	enabled  bool
	selected bool
}

// New returns an enabled, unselected, unconsumed die showing value.
//
// Precondition: 1 <= value <= Faces.
// Postcondition: Returns a Die or ErrInvalidValue.
func New(value int) (*Die, error) {
	if err := checkValue(value); err != nil {
		return nil, err
	}
	return &Die{value: value, enabled: true}, nil
}

// MustNew is New for values known to be valid. It panics otherwise.
func MustNew(value int) *Die {
	d, err := New(value)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// FromState rebuilds a die from its serialized form.
//
// Postcondition: Returns a Die equal to s or ErrInvalidValue.
func FromState(s State) (*Die, error) {
	if err := checkValue(s.Value); err != nil {
		return nil, err
	}
	return &Die{value: s.Value, consumed: s.Consumed, enabled: s.Enabled, selected: s.Selected}, nil
}

// State returns the serializable form of d.
func (d *Die) State() State {
	return State{Value: d.value, Consumed: d.consumed, Enabled: d.enabled, Selected: d.selected}
}

// Value returns the face showing.
func (d *Die) Value() int { return d.value }

// Consumed reports whether the die already satisfied a category this round.
func (d *Die) Consumed() bool { return d.consumed }

// Enabled reports whether the die may still be thrown this round.
func (d *Die) Enabled() bool { return d.enabled }

// Selected reports whether the die is held for the next throw.
func (d *Die) Selected() bool { return d.selected }

// Consume marks the die as used by a scoring category.
//
// Postcondition: Consumed() == true until the next Reset.
func (d *Die) Consume() { d.consumed = true }

// Select toggles the hold on an enabled die. Disabled dice ignore the call.
func (d *Die) Select() {
	if d.enabled {
		d.selected = !d.selected
	}
}

// Lock disables the die so no further throw changes it this round.
func (d *Die) Lock() {
	d.enabled = false
	d.selected = false
}

// Roll throws the die once.
//
// A held die is locked instead of rolled; an enabled die gets a new value
// from src; a disabled die is left unchanged.
//
// Precondition: src must be non-nil.
func (d *Die) Roll(src Source) {
	switch {
	case d.selected:
		d.Lock()
	case d.enabled:
		d.value = src.Intn(Faces) + 1
	}
}

// Reset prepares the die for a new round: enabled, unselected and not
// consumed. The value is kept; the caller throws afterwards.
func (d *Die) Reset() {
	d.consumed = false
	d.enabled = true
	d.selected = false
}

// String renders the die value.
func (d *Die) String() string {
	return fmt.Sprintf("%d", d.value)
}

func checkValue(v int) error {
	if v < 1 || v > Faces {
		return fmt.Errorf("%w: %d", ErrInvalidValue, v)
	}
	return nil
}
