package postgres

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

func sampleSnapshot(t *testing.T) match.Snapshot {
	t.Helper()
	seven, err := scoring.Numeric(7)
	require.NoError(t, err)
	available := scoring.AllCategories()
	open := make([]scoring.Category, 0, len(available)-1)
	for _, c := range available {
		if c != seven {
			open = append(open, c)
		}
	}
	return match.Snapshot{
		Rules:      match.DefaultRules(),
		Round:      2,
		ThrowsLeft: 2,
		Dice: []dice.State{
			{Value: 6, Enabled: true}, {Value: 4, Enabled: true, Selected: true}, {Value: 3, Enabled: true},
			{Value: 3, Enabled: true}, {Value: 4, Enabled: true}, {Value: 1, Enabled: true},
		},
		Board: scoring.Snapshot{
			Scores:    []scoring.Score{{Category: seven, Points: 21}},
			Available: open,
		},
	}
}

func TestSaveStatements(t *testing.T) {
	id := uuid.New().String()
	stmts, err := saveStatements(id, sampleSnapshot(t))
	require.NoError(t, err)
	require.Len(t, stmts, 5)

	upsert := stmts[0]
	assert.True(t, strings.HasPrefix(upsert.sql, "INSERT INTO matches (id,rounds,throws_per_round,round,throws_left,complete,available) VALUES ($1,$2,$3,$4,$5,$6,$7)"))
	assert.Contains(t, upsert.sql, "ON CONFLICT (id) DO UPDATE")
	require.Len(t, upsert.args, 7)
	assert.Equal(t, id, upsert.args[0])
	assert.Equal(t, []int32{3, 4, 5, 6, 8, 9, 10, 11, 12}, upsert.args[6])

	assert.Equal(t, "DELETE FROM match_dice WHERE match_id = $1", stmts[1].sql)
	assert.True(t, strings.HasPrefix(stmts[2].sql, "INSERT INTO match_dice (match_id,position,value,consumed,enabled,selected) VALUES ($1,$2,$3,$4,$5,$6),"))
	assert.Len(t, stmts[2].args, 6*6)
	assert.Equal(t, []interface{}{id, 1, 4, false, true, true}, stmts[2].args[6:12])

	assert.Equal(t, "DELETE FROM match_scores WHERE match_id = $1", stmts[3].sql)
	assert.Equal(t, "INSERT INTO match_scores (match_id,category,points) VALUES ($1,$2,$3)", stmts[4].sql)
	assert.Equal(t, []interface{}{id, 7, 21}, stmts[4].args)
}

func TestSaveStatements_NoScoresYet(t *testing.T) {
	snap := sampleSnapshot(t)
	snap.Round = 1
	snap.Board = scoring.Snapshot{Scores: []scoring.Score{}, Available: scoring.AllCategories()}

	stmts, err := saveStatements(uuid.New().String(), snap)
	require.NoError(t, err)
	require.Len(t, stmts, 4, "no score insert when nothing has been played")
	assert.Equal(t, "DELETE FROM match_scores WHERE match_id = $1", stmts[3].sql)
}

func TestCategoriesFromTargets(t *testing.T) {
	got, err := categoriesFromTargets([]int32{3, 12})
	require.NoError(t, err)
	assert.Equal(t, scoring.Low, got[0])
	assert.Equal(t, 12, got[1].Target())

	_, err = categoriesFromTargets([]int32{2})
	assert.ErrorIs(t, err, scoring.ErrInvalidCategory)
}
