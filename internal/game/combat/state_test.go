package combat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func newTestCombatant(id string, init, hp int, side combat.Allegiance) *combat.Combatant {
	return &combat.Combatant{
		ID:         id,
		Name:       id,
		Initiative: init,
		CurrentHP:  hp,
		MaxHP:      hp,
		AC:         12,
		Allegiance: side,
	}
}

func TestNewCombat_OrdersByInitiativeDescending(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("low", 5, 10, combat.AllegiancePlayer),
		newTestCombatant("high", 18, 10, combat.AllegianceAdversary),
		newTestCombatant("mid", 12, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)

	assert.Equal(t, "high", c.Combatants[0].ID)
	assert.Equal(t, "mid", c.Combatants[1].ID)
	assert.Equal(t, "low", c.Combatants[2].ID)
	assert.Equal(t, 1, c.Round)
	assert.True(t, c.Active)
}

// TestNewCombat_StableForTies verifies equal initiative preserves the
// roster's insertion order.
func TestNewCombat_StableForTies(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("first", 10, 10, combat.AllegiancePlayer),
		newTestCombatant("second", 10, 10, combat.AllegianceAdversary),
		newTestCombatant("third", 10, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)
	assert.Equal(t, "first", c.Combatants[0].ID)
	assert.Equal(t, "second", c.Combatants[1].ID)
	assert.Equal(t, "third", c.Combatants[2].ID)
}

// TestNewCombat_Property_SortedAndStable verifies ordering for arbitrary
// rosters: initiative never increases, and ties keep input order.
func TestNewCombat_Property_SortedAndStable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		inits := rapid.SliceOfN(rapid.IntRange(1, 25), 1, 12).Draw(rt, "inits")
		roster := make([]*combat.Combatant, len(inits))
		for i, init := range inits {
			roster[i] = newTestCombatant(fmt.Sprintf("c%d", i), init, 10, combat.AllegiancePlayer)
		}

		inputPos := make(map[string]int, len(roster))
		for i, cbt := range roster {
			inputPos[cbt.ID] = i
		}

		c, err := combat.NewCombat("c1", roster)
		require.NoError(rt, err)

		for pos := 1; pos < len(c.Combatants); pos++ {
			prev, cur := c.Combatants[pos-1], c.Combatants[pos]
			assert.GreaterOrEqual(rt, prev.Initiative, cur.Initiative)
			if prev.Initiative == cur.Initiative {
				// Stable: input order preserved within a tie.
				assert.Less(rt, inputPos[prev.ID], inputPos[cur.ID])
			}
		}
	})
}

func TestNewCombat_EmptyRoster(t *testing.T) {
	_, err := combat.NewCombat("c1", nil)
	assert.ErrorIs(t, err, combat.ErrNoCombatants)
}

func TestNewCombat_SeedsLog(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 9, 6, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	log := c.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "combat begins", log[0])
	assert.Equal(t, "initiative order: a (18), b (9)", log[1])
}

func TestNextTurn_CyclesAndIncrementsRound(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
		newTestCombatant("d", 9, 10, combat.AllegianceAdversary),
	})
	require.NoError(t, err)
	assert.Equal(t, "a", c.CurrentCombatant().ID)

	adv, err := c.NextTurn()
	require.NoError(t, err)
	assert.False(t, adv.NewRound)
	assert.Equal(t, "b", adv.Current.ID)

	adv, err = c.NextTurn()
	require.NoError(t, err)
	assert.Equal(t, "d", adv.Current.ID)

	adv, err = c.NextTurn()
	require.NoError(t, err)
	assert.True(t, adv.NewRound, "wrapping the order starts a new round")
	assert.Equal(t, "a", adv.Current.ID)
	assert.Equal(t, 2, c.Round)
}

func TestNextTurn_SkipsDefeated(t *testing.T) {
	b := newTestCombatant("b", 12, 10, combat.AllegianceAdversary)
	b.CurrentHP = 0
	b.Defeated = true
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		b,
		newTestCombatant("d", 9, 10, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	adv, err := c.NextTurn()
	require.NoError(t, err)
	assert.Equal(t, "d", adv.Current.ID, "defeated combatant is skipped")
}

// TestNextTurn_SkipsDefeatedAcrossRoundBoundary verifies a defeated slot 0 is
// skipped after the wrap while the round still increments exactly once.
func TestNextTurn_SkipsDefeatedAcrossRoundBoundary(t *testing.T) {
	a := newTestCombatant("a", 18, 10, combat.AllegiancePlayer)
	a.CurrentHP = 0
	a.Defeated = true
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		a,
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
		newTestCombatant("d", 9, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)

	// a is slot 0 but defeated; advance b → d → wrap.
	adv, err := c.NextTurn()
	require.NoError(t, err)
	assert.Equal(t, "b", adv.Current.ID)
	adv, err = c.NextTurn()
	require.NoError(t, err)
	assert.Equal(t, "d", adv.Current.ID)

	adv, err = c.NextTurn()
	require.NoError(t, err)
	assert.True(t, adv.NewRound)
	assert.Equal(t, "b", adv.Current.ID, "wrap skips the defeated slot 0")
	assert.Equal(t, 2, c.Round)
}

func TestNextTurn_AllDefeated(t *testing.T) {
	roster := []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
	}
	for _, cbt := range roster {
		cbt.CurrentHP = 0
		cbt.Defeated = true
	}
	c, err := combat.NewCombat("c1", roster)
	require.NoError(t, err)

	adv, err := c.NextTurn()
	require.NoError(t, err)
	assert.Nil(t, adv.Current, "no live combatant to hand the turn to")

	check := c.CheckCombatEnd()
	assert.True(t, check.Ended)
}

// TestNextTurn_Property_RoundIncrementsOncePerCycle verifies that over k full
// cycles of a fully live roster the round advances exactly k times.
func TestNextTurn_Property_RoundIncrementsOncePerCycle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		cycles := rapid.IntRange(1, 5).Draw(rt, "cycles")

		roster := make([]*combat.Combatant, n)
		for i := range roster {
			roster[i] = newTestCombatant(fmt.Sprintf("c%d", i), 20-i, 10, combat.AllegiancePlayer)
		}
		c, err := combat.NewCombat("c1", roster)
		require.NoError(rt, err)

		newRounds := 0
		for i := 0; i < n*cycles; i++ {
			adv, err := c.NextTurn()
			require.NoError(rt, err)
			require.NotNil(rt, adv.Current)
			assert.False(rt, adv.Current.Defeated, "NextTurn must never yield a defeated combatant")
			if adv.NewRound {
				newRounds++
			}
		}
		assert.Equal(rt, cycles, newRounds)
		assert.Equal(rt, 1+cycles, c.Round)
	})
}

func TestNextTurn_AfterEndIsIllegal(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)
	c.EndCombat()

	_, err = c.NextTurn()
	assert.ErrorIs(t, err, combat.ErrCombatEnded)
}

func TestActiveCombatants(t *testing.T) {
	b := newTestCombatant("b", 12, 10, combat.AllegianceAdversary)
	b.CurrentHP = 0
	b.Defeated = true
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		b,
	})
	require.NoError(t, err)

	alive := c.ActiveCombatants()
	require.Len(t, alive, 1)
	assert.Equal(t, "a", alive[0].ID)
}

func TestGetCombatant_Unknown(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
	})
	require.NoError(t, err)

	_, err = c.GetCombatant("nobody")
	assert.ErrorIs(t, err, combat.ErrUnknownCombatant)
}

func TestCheckCombatEnd_PlayerVictory(t *testing.T) {
	b := newTestCombatant("b", 12, 10, combat.AllegianceAdversary)
	b.CurrentHP = 0
	b.Defeated = true
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		b,
	})
	require.NoError(t, err)

	check := c.CheckCombatEnd()
	assert.True(t, check.Ended)
	assert.Equal(t, combat.AllegiancePlayer, check.Winners)
	assert.False(t, c.Active, "an ended verdict deactivates the combat")

	// The verdict is stable on repeated calls.
	again := c.CheckCombatEnd()
	assert.Equal(t, check, again)
}

func TestCheckCombatEnd_AdversaryVictory(t *testing.T) {
	a := newTestCombatant("a", 18, 10, combat.AllegiancePlayer)
	a.CurrentHP = 0
	a.Defeated = true
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		a,
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	check := c.CheckCombatEnd()
	assert.True(t, check.Ended)
	assert.Equal(t, combat.AllegianceAdversary, check.Winners)
}

// TestCheckCombatEnd_MutualWipe verifies both sides empty in one check is a
// draw, not a silent win for either side.
func TestCheckCombatEnd_MutualWipe(t *testing.T) {
	roster := []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
	}
	for _, cbt := range roster {
		cbt.CurrentHP = 0
		cbt.Defeated = true
	}
	c, err := combat.NewCombat("c1", roster)
	require.NoError(t, err)

	check := c.CheckCombatEnd()
	assert.True(t, check.Ended)
	assert.Equal(t, combat.AllegianceNone, check.Winners)
	assert.Equal(t, "mutual defeat", check.Reason)
}

func TestCheckCombatEnd_StillFighting(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 12, 10, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	check := c.CheckCombatEnd()
	assert.False(t, check.Ended)
	assert.True(t, c.Active)
}

func TestSnapshot_IsReadOnlyCopy(t *testing.T) {
	c, err := combat.NewCombat("c1", []*combat.Combatant{
		newTestCombatant("a", 18, 10, combat.AllegiancePlayer),
		newTestCombatant("b", 9, 6, combat.AllegianceAdversary),
	})
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Round)
	assert.True(t, snap.Active)
	require.Len(t, snap.Combatants, 2)
	assert.Equal(t, "a", snap.Combatants[0].ID)

	// Mutating the snapshot must not touch the combat.
	snap.Combatants[0].CurrentHP = -99
	snap.Log = append(snap.Log, "tampered")
	assert.Equal(t, 10, c.Combatants[0].CurrentHP)
	assert.NotContains(t, c.Log(), "tampered")
}

func TestAllegiance_String(t *testing.T) {
	assert.Equal(t, "player", combat.AllegiancePlayer.String())
	assert.Equal(t, "adversary", combat.AllegianceAdversary.String())
	assert.Equal(t, "none", combat.AllegianceNone.String())
}

func TestCombatant_HPRatio(t *testing.T) {
	c := newTestCombatant("a", 10, 10, combat.AllegiancePlayer)
	c.CurrentHP = 3
	assert.InDelta(t, 0.3, c.HPRatio(), 1e-9)
}
