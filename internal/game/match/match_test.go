package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

func newMatch(t *testing.T, faces ...int) *match.Match {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m, err := match.New(match.DefaultRules(), dice.NewLoggedRoller(dice.NewSequenceSource(faces...), logger), logger)
	require.NoError(t, err)
	return m
}

func values(states []dice.State) []int {
	out := make([]int, len(states))
	for i, s := range states {
		out[i] = s.Value
	}
	return out
}

func TestNew_OpeningThrow(t *testing.T) {
	m := newMatch(t, 6, 4, 3, 3, 4, 1)
	assert.Equal(t, 1, m.Round())
	assert.Equal(t, 2, m.ThrowsLeft())
	assert.False(t, m.Complete())
	assert.Equal(t, []int{6, 4, 3, 3, 4, 1}, values(m.Dice()))
	assert.Len(t, m.Choices(), 10)
}

func TestNew_RejectsBadRules(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(1), logger)

	_, err := match.New(match.Rules{Rounds: 11, ThrowsPerRound: 3}, roller, logger)
	assert.Error(t, err)
	_, err = match.New(match.Rules{Rounds: 10, ThrowsPerRound: 0}, roller, logger)
	assert.Error(t, err)
}

func TestThrow_HoldLocksDie(t *testing.T) {
	m := newMatch(t, 6, 4, 3, 3, 4, 1, 2, 2, 2, 2, 2)
	require.NoError(t, m.Hold(0))

	got, err := m.Throw()
	require.NoError(t, err)
	assert.Equal(t, []int{6, 2, 2, 2, 2, 2}, got)
	assert.False(t, m.Dice()[0].Enabled)
	assert.Equal(t, 1, m.ThrowsLeft())

	assert.ErrorIs(t, m.Hold(0), match.ErrDieLocked)
}

func TestThrow_ExhaustsThrows(t *testing.T) {
	m := newMatch(t, 1, 2, 3, 4, 5, 6)
	_, err := m.Throw()
	require.NoError(t, err)
	_, err = m.Throw()
	require.NoError(t, err)

	_, err = m.Throw()
	assert.ErrorIs(t, err, match.ErrNoThrowsLeft)
	for _, d := range m.Dice() {
		assert.False(t, d.Enabled, "all dice lock after the last throw")
	}
	assert.ErrorIs(t, m.Hold(2), match.ErrDieLocked)
}

func TestHold_IndexOutOfRange(t *testing.T) {
	m := newMatch(t, 1)
	assert.ErrorIs(t, m.Hold(-1), match.ErrDieIndex)
	assert.ErrorIs(t, m.Hold(6), match.ErrDieIndex)
}

func TestScore_AdvancesRound(t *testing.T) {
	m := newMatch(t, 1, 1, 1, 2, 4, 4, 6, 6, 6, 6, 6, 6)
	five, err := scoring.Numeric(5)
	require.NoError(t, err)

	out, err := m.Score(five)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Round)
	assert.Equal(t, 10, out.Points)
	assert.Equal(t, []int{1, 1, 1, 2, 4, 4}, out.Values)
	assert.Equal(t, []int{0, 1, 4, 5}, out.Used)
	assert.False(t, out.Complete)

	assert.Equal(t, 2, m.Round())
	assert.Equal(t, 2, m.ThrowsLeft())
	assert.Equal(t, []int{6, 6, 6, 6, 6, 6}, values(m.Dice()))
	for _, d := range m.Dice() {
		assert.False(t, d.Consumed, "a new round starts with fresh dice")
	}
	assert.NotContains(t, m.Choices(), five)
	assert.Equal(t, 10, m.Total())
}

func TestScore_RejectedCategoryLeavesMatchUnchanged(t *testing.T) {
	m := newMatch(t, 2, 2, 2, 2, 2, 2)
	_, err := m.Score(scoring.Low)
	require.NoError(t, err)

	before := m.Snapshot()
	_, err = m.Score(scoring.Low)
	assert.ErrorIs(t, err, scoring.ErrInvalidCategory)
	assert.Equal(t, before, m.Snapshot())
}

func TestScore_FullGame(t *testing.T) {
	m := newMatch(t, 6, 4, 3, 3, 4, 1)
	total := 0
	for i, c := range scoring.AllCategories() {
		require.False(t, m.Complete())
		out, err := m.Score(c)
		require.NoError(t, err)
		total += out.Points
		assert.Equal(t, i == 9, out.Complete)
	}

	assert.True(t, m.Complete())
	assert.Equal(t, 126, total)
	assert.Equal(t, 126, m.Total())
	assert.Len(t, m.Results(), 10)
	assert.Empty(t, m.Choices())

	_, err := m.Throw()
	assert.ErrorIs(t, err, match.ErrMatchComplete)
	_, err = m.Score(scoring.Low)
	assert.ErrorIs(t, err, match.ErrMatchComplete)
	assert.ErrorIs(t, m.Hold(0), match.ErrMatchComplete)

	m.NewGame()
	assert.False(t, m.Complete())
	assert.Equal(t, 1, m.Round())
	assert.Zero(t, m.Total())
	assert.Len(t, m.Choices(), 10)
}

func TestScore_ShortMatch(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(3), logger)
	m, err := match.New(match.Rules{Rounds: 2, ThrowsPerRound: 1}, roller, logger)
	require.NoError(t, err)
	assert.Zero(t, m.ThrowsLeft())

	_, err = m.Throw()
	assert.ErrorIs(t, err, match.ErrNoThrowsLeft)

	_, err = m.Score(scoring.Low)
	require.NoError(t, err)
	out, err := m.Score(scoring.Low)
	assert.ErrorIs(t, err, scoring.ErrInvalidCategory)
	assert.False(t, out.Complete)

	six, err := scoring.Numeric(6)
	require.NoError(t, err)
	out, err = m.Score(six)
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, 18+18, m.Total())
	assert.Len(t, m.Choices(), 8)
}

func TestSnapshotRestore(t *testing.T) {
	logger := zaptest.NewLogger(t)
	m := newMatch(t, 5, 2, 3, 1, 2, 3)
	require.NoError(t, m.Hold(0))
	_, err := m.Score(scoring.Low)
	require.NoError(t, err)
	require.NoError(t, m.Hold(3))

	snap := m.Snapshot()
	restored, err := match.Restore(snap, dice.NewLoggedRoller(dice.NewSequenceSource(1), logger), logger)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, m.Total(), restored.Total())
}

func TestRestore_RejectsInconsistentSnapshot(t *testing.T) {
	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(1), logger)
	good := newMatch(t, 4).Snapshot()

	tests := []struct {
		name   string
		mutate func(*match.Snapshot)
	}{
		{"round zero", func(s *match.Snapshot) { s.Round = 0 }},
		{"round past end", func(s *match.Snapshot) { s.Round = 11 }},
		{"too many throws", func(s *match.Snapshot) { s.ThrowsLeft = 3 }},
		{"five dice", func(s *match.Snapshot) { s.Dice = s.Dice[:5] }},
		{"bad die", func(s *match.Snapshot) { s.Dice[2].Value = 0 }},
		{"played count mismatch", func(s *match.Snapshot) { s.Round = 4 }},
		{"bad board", func(s *match.Snapshot) { s.Board.Available = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := good
			snap.Dice = append([]dice.State(nil), good.Dice...)
			tt.mutate(&snap)
			_, err := match.Restore(snap, roller, logger)
			assert.Error(t, err)
		})
	}
}

// TestMatch_Property plays random legal sequences and checks that the round
// counter, open categories and total stay consistent.
func TestMatch_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		logger := zaptest.NewLogger(t)
		faces := rapid.SliceOfN(rapid.IntRange(1, 6), 6, 60).Draw(rt, "faces")
		m, err := match.New(match.DefaultRules(), dice.NewLoggedRoller(dice.NewSequenceSource(faces...), logger), logger)
		require.NoError(rt, err)

		for !m.Complete() {
			if rapid.Bool().Draw(rt, "hold") {
				_ = m.Hold(rapid.IntRange(0, 5).Draw(rt, "index"))
			}
			if m.ThrowsLeft() > 0 && rapid.Bool().Draw(rt, "throw") {
				_, err := m.Throw()
				require.NoError(rt, err)
			}
			choices := m.Choices()
			c := rapid.SampledFrom(choices).Draw(rt, "category")
			round := m.Round()
			_, err := m.Score(c)
			require.NoError(rt, err)
			assert.Equal(rt, round, len(m.Results()))
			assert.Equal(rt, len(choices)-1, len(m.Choices()))
		}

		sum := 0
		for _, s := range m.Results() {
			sum += s.Points
		}
		assert.Equal(rt, sum, m.Total())
		assert.Equal(rt, 10, m.Round())
	})
}
