package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestEngine_StartCombat(t *testing.T) {
	e := combat.NewEngine(zaptest.NewLogger(t))

	c, err := e.StartCombat("sess-1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 9, 6, combat.AllegianceAdversary),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Active)

	got, ok := e.GetCombat("sess-1")
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestEngine_StartCombat_AlreadyActive(t *testing.T) {
	e := combat.NewEngine(zaptest.NewLogger(t))
	roster := []*combat.Combatant{newTestCombatant("a", 18, 10, combat.AllegiancePlayer)}

	_, err := e.StartCombat("sess-1", roster)
	require.NoError(t, err)

	_, err = e.StartCombat("sess-1", roster)
	assert.ErrorIs(t, err, combat.ErrCombatActive)
}

func TestEngine_StartCombat_EmptyRoster(t *testing.T) {
	e := combat.NewEngine(zaptest.NewLogger(t))
	_, err := e.StartCombat("sess-1", nil)
	assert.ErrorIs(t, err, combat.ErrNoCombatants)
}

func TestEngine_EndCombat(t *testing.T) {
	e := combat.NewEngine(zaptest.NewLogger(t))
	c, err := e.StartCombat("sess-1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)

	require.NoError(t, e.EndCombat("sess-1"))
	assert.False(t, c.Active, "removal deactivates the combat")

	_, ok := e.GetCombat("sess-1")
	assert.False(t, ok)

	assert.ErrorIs(t, e.EndCombat("sess-1"), combat.ErrCombatNotFound)
}

func TestEngine_SessionsAreIndependent(t *testing.T) {
	e := combat.NewEngine(zaptest.NewLogger(t))

	c1, err := e.StartCombat("sess-1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)
	c2, err := e.StartCombat("sess-2", []*combat.Combatant{
		newTestCombatant("b", 9, 6, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	assert.NotSame(t, c1, c2)
	assert.NotEqual(t, c1.ID, c2.ID)

	require.NoError(t, e.EndCombat("sess-1"))
	_, ok := e.GetCombat("sess-2")
	assert.True(t, ok, "ending one session leaves others untouched")
}
