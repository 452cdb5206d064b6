package session

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
)

func testMatch(t *testing.T) *match.Match {
	t.Helper()
	logger := zaptest.NewLogger(t)
	m, err := match.New(match.DefaultRules(), dice.NewLoggedRoller(dice.NewSequenceSource(1, 2, 3), logger), logger)
	require.NoError(t, err)
	return m
}

func TestCreate_AssignsUUID(t *testing.T) {
	mgr := NewManager()
	e := mgr.Create("127.0.0.1:1234", testMatch(t))

	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.True(t, mgr.IsActive(e.ID))
	assert.Equal(t, 1, mgr.Count())
	assert.Equal(t, "127.0.0.1:1234", e.RemoteAddr)
}

func TestAttach_RejectsDuplicate(t *testing.T) {
	mgr := NewManager()
	id := uuid.New().String()

	_, err := mgr.Attach(id, "a", testMatch(t))
	require.NoError(t, err)
	_, err = mgr.Attach(id, "b", testMatch(t))
	assert.ErrorIs(t, err, ErrMatchActive)

	require.NoError(t, mgr.Detach(id))
	_, err = mgr.Attach(id, "b", testMatch(t))
	assert.NoError(t, err)
}

func TestAttach_RejectsMalformedID(t *testing.T) {
	mgr := NewManager()
	_, err := mgr.Attach("../../etc/passwd", "a", testMatch(t))
	assert.Error(t, err)
	assert.Zero(t, mgr.Count())
}

func TestDetach_Unknown(t *testing.T) {
	assert.Error(t, NewManager().Detach("nope"))
}

func TestAttach_NormalizesID(t *testing.T) {
	mgr := NewManager()
	e := mgr.Create("a", testMatch(t))

	for _, alias := range []string{
		strings.ToUpper(e.ID),
		"{" + e.ID + "}",
		"urn:uuid:" + e.ID,
	} {
		_, err := mgr.Attach(alias, "b", testMatch(t))
		assert.ErrorIs(t, err, ErrMatchActive, "alias %q", alias)
		assert.True(t, mgr.IsActive(alias), "alias %q", alias)
	}
	assert.Equal(t, 1, mgr.Count())

	require.NoError(t, mgr.Detach(strings.ToUpper(e.ID)))
	entry, err := mgr.Attach("{"+strings.ToUpper(e.ID)+"}", "c", testMatch(t))
	require.NoError(t, err)
	assert.Equal(t, e.ID, entry.ID)
	assert.True(t, mgr.IsActive(e.ID))
}

func TestManager_ConcurrentCreateDetach(t *testing.T) {
	mgr := NewManager()
	m := testMatch(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := mgr.Create("c", m)
			assert.NoError(t, mgr.Detach(e.ID))
		}()
	}
	wg.Wait()
	assert.Zero(t, mgr.Count())
}

// Property: Count always equals the number of ids created and not yet detached.
func TestPropertyCountTracksAttachments(t *testing.T) {
	m := testMatch(t)
	rapid.Check(t, func(rt *rapid.T) {
		mgr := NewManager()
		var ids []string
		ops := rapid.IntRange(1, 30).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			if len(ids) > 0 && rapid.Bool().Draw(rt, "detach") {
				k := rapid.IntRange(0, len(ids)-1).Draw(rt, "which")
				require.NoError(rt, mgr.Detach(ids[k]))
				ids = append(ids[:k], ids[k+1:]...)
			} else {
				ids = append(ids, mgr.Create("c", m).ID)
			}
			assert.Equal(rt, len(ids), mgr.Count())
		}
	})
}
