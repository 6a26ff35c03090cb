package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func sampleSnapshot() combat.StateSnapshot {
	return combat.StateSnapshot{
		ID:    "enc1",
		Round: 3,
		Combatants: []combat.CombatantView{
			{ID: "p1", Name: "Aldric", Initiative: 18, CurrentHP: 9, MaxHP: 12, AC: 15, Allegiance: combat.AllegiancePlayer},
			{ID: "g1", Name: "Goblin", Initiative: 5, CurrentHP: 0, MaxHP: 4, AC: 12, Allegiance: combat.AllegianceAdversary, Defeated: true},
		},
	}
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus(sampleSnapshot(), "p1")

	assert.Contains(t, out, "Round 3")
	assert.Contains(t, out, "Aldric")
	assert.Contains(t, out, "9/12")
	assert.Contains(t, out, "(defeated)")
	assert.Contains(t, out, "> ", "current combatant should be marked")
}

func TestHealthBar_Bounds(t *testing.T) {
	full := healthBar(10, 10)
	assert.Contains(t, full, strings.Repeat("=", hpBarWidth))

	empty := healthBar(0, 10)
	assert.NotContains(t, empty, "=")

	// Zero max must not panic or divide by zero.
	assert.NotPanics(t, func() { healthBar(0, 0) })
}

func TestRenderVerdict(t *testing.T) {
	cases := map[combat.Allegiance]string{
		combat.AllegiancePlayer:    "VICTORY",
		combat.AllegianceAdversary: "DEFEAT",
		combat.AllegianceNone:      "STALEMATE",
	}
	for winners, want := range cases {
		out := RenderVerdict(combat.EndCheck{Ended: true, Winners: winners, Reason: "done"})
		assert.Contains(t, out, want)
		assert.Contains(t, out, "done")
	}

	assert.Empty(t, RenderVerdict(combat.EndCheck{Ended: false}))
}

func TestRenderLog_NumbersLines(t *testing.T) {
	out := RenderLog([]string{"combat begins", "Aldric hits"})
	assert.Contains(t, out, "  1  combat begins")
	assert.Contains(t, out, "  2  Aldric hits")
}

func TestRenderAttack_IncludesAllEntries(t *testing.T) {
	out := RenderAttack(combat.AttackOutcome{
		Success:        true,
		Damage:         7,
		TargetDefeated: true,
		LogEntries: []string{
			"Aldric attacks Goblin: 19 vs AC 12, hit for 7 damage",
			"Goblin is defeated (disabled)",
		},
	})
	assert.Contains(t, out, "hit for 7 damage")
	assert.Contains(t, out, "Goblin is defeated")
}
