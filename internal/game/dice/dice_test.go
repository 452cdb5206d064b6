package dice_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/thirty/internal/game/dice"
)

func TestNew_RejectsOutOfRange(t *testing.T) {
	for _, v := range []int{-1, 0, 7, 100} {
		_, err := dice.New(v)
		assert.True(t, errors.Is(err, dice.ErrInvalidValue), "value %d must be rejected", v)
	}
}

func TestNew_InitialState(t *testing.T) {
	d, err := dice.New(4)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Value())
	assert.True(t, d.Enabled())
	assert.False(t, d.Selected())
	assert.False(t, d.Consumed())
}

func TestReset_ClearsConsumedAndHold(t *testing.T) {
	d := dice.MustNew(3)
	d.Select()
	d.Consume()
	d.Roll(dice.NewSequenceSource(6))
	require.False(t, d.Enabled())

	d.Reset()
	assert.False(t, d.Consumed())
	assert.True(t, d.Enabled())
	assert.False(t, d.Selected())
	assert.Equal(t, 3, d.Value(), "Reset must not change the value")
}

func TestSelect_TogglesOnlyWhenEnabled(t *testing.T) {
	d := dice.MustNew(2)
	d.Select()
	assert.True(t, d.Selected())
	d.Select()
	assert.False(t, d.Selected())

	d.Lock()
	d.Select()
	assert.False(t, d.Selected(), "a locked die cannot be held")
}

func TestRoll_HeldDieIsLocked(t *testing.T) {
	d := dice.MustNew(5)
	d.Select()
	d.Roll(dice.NewSequenceSource(1))
	assert.Equal(t, 5, d.Value())
	assert.False(t, d.Enabled())
	assert.False(t, d.Selected())

	d.Roll(dice.NewSequenceSource(1))
	assert.Equal(t, 5, d.Value(), "a locked die keeps its value")
}

func TestRoll_EnabledDieTakesSourceValue(t *testing.T) {
	d := dice.MustNew(1)
	d.Roll(dice.NewSequenceSource(6))
	assert.Equal(t, 6, d.Value())
	assert.True(t, d.Enabled())
}

func TestStateRoundTrip(t *testing.T) {
	d := dice.MustNew(4)
	d.Select()
	d.Consume()

	restored, err := dice.FromState(d.State())
	require.NoError(t, err)
	assert.Equal(t, d.State(), restored.State())

	_, err = dice.FromState(dice.State{Value: 9})
	assert.ErrorIs(t, err, dice.ErrInvalidValue)
}

func TestThrow_ReturnsValuesInPositionOrder(t *testing.T) {
	cup := []*dice.Die{dice.MustNew(1), dice.MustNew(1), dice.MustNew(1)}
	cup[1].Select()

	values := dice.Throw(cup, dice.NewSequenceSource(6, 5))
	assert.Equal(t, []int{6, 1, 5}, values)
	assert.Equal(t, values, dice.Values(cup))
}

func TestLoggedRoller_Throw(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSequenceSource(2, 3, 4), zaptest.NewLogger(t))
	cup := []*dice.Die{dice.MustNew(1), dice.MustNew(1), dice.MustNew(1)}
	assert.Equal(t, []int{2, 3, 4}, r.Throw(cup))
}

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestSequenceSource_Cycles(t *testing.T) {
	src := dice.NewSequenceSource(3, 5)
	assert.Equal(t, 2, src.Intn(6))
	assert.Equal(t, 4, src.Intn(6))
	assert.Equal(t, 2, src.Intn(6))
}

func TestSequenceSource_PanicsOnBadFace(t *testing.T) {
	assert.Panics(t, func() { dice.NewSequenceSource() })
	assert.Panics(t, func() { dice.NewSequenceSource(0) })
}

// TestRoll_Property verifies a thrown die always shows a legal face and that
// held or disabled dice never change value.
func TestRoll_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := rapid.IntRange(1, dice.Faces).Draw(rt, "start")
		face := rapid.IntRange(1, dice.Faces).Draw(rt, "face")
		hold := rapid.Bool().Draw(rt, "hold")

		d := dice.MustNew(start)
		if hold {
			d.Select()
		}
		d.Roll(dice.NewSequenceSource(face))

		assert.GreaterOrEqual(rt, d.Value(), 1)
		assert.LessOrEqual(rt, d.Value(), dice.Faces)
		if hold {
			assert.Equal(rt, start, d.Value())
			assert.False(rt, d.Enabled())
		} else {
			assert.Equal(rt, face, d.Value())
		}
	})
}
