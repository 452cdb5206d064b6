package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/thirty/internal/frontend/telnet"
	"github.com/cory-johannsen/thirty/internal/game/command"
	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

func TestRenderDie(t *testing.T) {
	tests := []struct {
		name  string
		state dice.State
		want  string
	}{
		{"free", dice.State{Value: 4, Enabled: true}, " 4 "},
		{"held", dice.State{Value: 5, Enabled: true, Selected: true}, "[5]"},
		{"locked", dice.State{Value: 6}, "(6)"},
		{"consumed", dice.State{Value: 2, Consumed: true}, "(2)*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telnet.StripANSI(RenderDie(tt.state)))
		})
	}
}

func TestRenderTable(t *testing.T) {
	logger := zaptest.NewLogger(t)
	m, err := match.New(match.DefaultRules(), dice.NewLoggedRoller(dice.NewSequenceSource(1, 2, 3, 4, 5, 6), logger), logger)
	require.NoError(t, err)
	require.NoError(t, m.Hold(2))

	lines := strings.Split(telnet.StripANSI(RenderTable(m)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Round 1/10  throws left: 2", lines[0])
	assert.Equal(t, " 1    2    3    4    5    6   ", lines[1])
	assert.Equal(t, " 1    2   [3]   4    5    6   ", lines[2])
}

func TestRenderChoices(t *testing.T) {
	assert.Equal(t, "No categories left.", telnet.StripANSI(RenderChoices(nil)))
	seven, err := scoring.Numeric(7)
	require.NoError(t, err)
	assert.Equal(t, "Open: Low 7", telnet.StripANSI(RenderChoices([]scoring.Category{scoring.Low, seven})))
}

func TestRenderScoreSheet(t *testing.T) {
	nine, err := scoring.Numeric(9)
	require.NoError(t, err)
	out := telnet.StripANSI(RenderScoreSheet([]scoring.Score{
		{Category: scoring.Low, Points: 7},
		{Category: nine, Points: 18},
	}, 25))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "  Low     7", lines[1])
	assert.Equal(t, "  4       -", lines[2])
	assert.Equal(t, "  9       18", lines[7])
	assert.Equal(t, "Total     25", lines[11])
}

func TestRenderOutcome(t *testing.T) {
	ten, err := scoring.Numeric(10)
	require.NoError(t, err)
	out := telnet.StripANSI(RenderOutcome(match.Outcome{Round: 3, Category: ten, Points: 20, Used: []int{0, 2, 3, 5}}))
	assert.Equal(t, "Round 3: 20 points in 10 (dice 1, 3, 4, 6)", out)

	out = telnet.StripANSI(RenderOutcome(match.Outcome{Round: 1, Category: scoring.Low, Points: 0}))
	assert.Equal(t, "Round 1: 0 points in Low", out)
}

func TestRenderHelp_ListsEveryCommand(t *testing.T) {
	out := telnet.StripANSI(RenderHelp(command.DefaultRegistry()))
	for _, cmd := range command.BuiltinCommands() {
		assert.Contains(t, out, cmd.Help)
	}
	assert.Less(t, strings.Index(out, "Play:"), strings.Index(out, "System:"))
}

// Property: a rendered die always shows its value.
func TestPropertyRenderDieShowsValue(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := dice.State{
			Value:    rapid.IntRange(1, 6).Draw(t, "value"),
			Consumed: rapid.Bool().Draw(t, "consumed"),
			Enabled:  rapid.Bool().Draw(t, "enabled"),
			Selected: rapid.Bool().Draw(t, "selected"),
		}
		out := telnet.StripANSI(RenderDie(s))
		assert.Contains(t, out, string(rune('0'+s.Value)))
		assert.Equal(t, s.Consumed, strings.HasSuffix(out, "*"))
	})
}
