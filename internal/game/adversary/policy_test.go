package adversary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/adversary"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

func combatant(id string, hp, maxHP int, side combat.Allegiance) *combat.Combatant {
	return &combat.Combatant{
		ID: id, Name: id, CurrentHP: hp, MaxHP: maxHP,
		AC: 12, Allegiance: side, Defeated: hp <= 0,
	}
}

// TestDecideAction_SelectsWeakestTarget verifies the argmin over HP ratio:
// two live players at 50% and 30% HP → the 30% one is attacked.
func TestDecideAction_SelectsWeakestTarget(t *testing.T) {
	self := combatant("ghoul", 10, 10, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("half", 5, 10, combat.AllegiancePlayer),
		combatant("battered", 3, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(99)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionAttack, d.Action)
	assert.Equal(t, "battered", d.TargetID)
	assert.NotEmpty(t, d.Reasoning)
}

// TestDecideAction_StableTieBreak verifies the first minimum in roster order
// wins a ratio tie.
func TestDecideAction_StableTieBreak(t *testing.T) {
	self := combatant("ghoul", 10, 10, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("left", 4, 10, combat.AllegiancePlayer),
		combatant("right", 8, 20, combat.AllegiancePlayer), // also 40%
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(99)).DecideAction(self, all)
	assert.Equal(t, "left", d.TargetID)
}

func TestDecideAction_IgnoresDefeatedAndAdversaries(t *testing.T) {
	self := combatant("ghoul", 10, 10, combat.AllegianceAdversary)
	downed := combatant("downed", 0, 10, combat.AllegiancePlayer)
	all := []*combat.Combatant{
		downed,
		combatant("ally", 2, 10, combat.AllegianceAdversary),
		combatant("standing", 9, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(99)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionAttack, d.Action)
	assert.Equal(t, "standing", d.TargetID, "defeated players and fellow adversaries are never targets")
}

func TestDecideAction_PassWithNoTargets(t *testing.T) {
	self := combatant("ghoul", 10, 10, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("downed", 0, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(0)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionPass, d.Action)
	assert.Empty(t, d.TargetID)
	assert.Equal(t, "no valid targets", d.Reasoning)
}

// TestDecideAction_DefendsWhenBadlyHurt verifies the defensive override: at
// 20% HP with the percentile draw forced under 30, the adversary defends.
func TestDecideAction_DefendsWhenBadlyHurt(t *testing.T) {
	self := combatant("ghoul", 2, 10, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("hero", 10, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(29)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionDefend, d.Action)
	assert.Equal(t, "low HP, defensive stance", d.Reasoning)
}

func TestDecideAction_AttacksWhenDefendDrawFails(t *testing.T) {
	self := combatant("ghoul", 2, 10, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("hero", 10, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(30)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionAttack, d.Action, "a draw of 30 or more keeps attacking")
}

func TestDecideAction_NoDefendAboveThreshold(t *testing.T) {
	// 25% exactly is not below the threshold; the draw must not even matter.
	self := combatant("ghoul", 5, 20, combat.AllegianceAdversary)
	all := []*combat.Combatant{
		combatant("hero", 10, 10, combat.AllegiancePlayer),
		self,
	}

	d := adversary.NewPolicy(dice.NewQueueSource(0)).DecideAction(self, all)
	assert.Equal(t, adversary.ActionAttack, d.Action)
}

// TestDecideAction_Property_AlwaysTargetsLivePlayer verifies any Attack
// decision names a live player-side combatant.
func TestDecideAction_Property_AlwaysTargetsLivePlayer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "players")
		all := make([]*combat.Combatant, 0, n+1)
		for i := 0; i < n; i++ {
			hp := rapid.IntRange(0, 10).Draw(rt, "hp")
			c := combatant(string(rune('a'+i)), hp, 10, combat.AllegiancePlayer)
			all = append(all, c)
		}
		self := combatant("self", rapid.IntRange(1, 10).Draw(rt, "selfhp"), 10, combat.AllegianceAdversary)
		all = append(all, self)

		p := adversary.NewPolicy(dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		d := p.DecideAction(self, all)

		if d.Action == adversary.ActionAttack {
			target := findByID(all, d.TargetID)
			if assert.NotNil(rt, target) {
				assert.Equal(rt, combat.AllegiancePlayer, target.Allegiance)
				assert.False(rt, target.Defeated)
			}
		}
	})
}

func findByID(all []*combat.Combatant, id string) *combat.Combatant {
	for _, c := range all {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "attack", adversary.ActionAttack.String())
	assert.Equal(t, "defend", adversary.ActionDefend.String())
	assert.Equal(t, "pass", adversary.ActionPass.String())
}
