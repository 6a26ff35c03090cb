package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/cli"
	"github.com/cory-johannsen/skirmish/internal/game/adversary"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/narrative"
)

// newDuel builds a two-combatant encounter: the player always acts first.
func newDuel(t *testing.T, goblinHP int) (*combat.Combat, *combat.Combatant, adversary.Instance) {
	t.Helper()
	player := &combat.Combatant{
		ID: "p1", Name: "Aldric", Initiative: 20,
		CurrentHP: 12, MaxHP: 12, AC: 15,
		Allegiance: combat.AllegiancePlayer,
	}
	goblin := &combat.Combatant{
		ID: "g1", Name: "Goblin", Initiative: 5,
		CurrentHP: goblinHP, MaxHP: goblinHP, AC: 12,
		Allegiance: combat.AllegianceAdversary,
	}
	cbt, err := combat.NewCombat("enc1", []*combat.Combatant{player, goblin})
	require.NoError(t, err)
	return cbt, player, adversary.Instance{Combatant: goblin, Type: adversary.TypeWeakFast}
}

func newRunner(t *testing.T, cbt *combat.Combat, inst adversary.Instance, input string, src dice.Source, narrator narrative.Narrator) (*cli.Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	r, err := cli.NewRunner(cli.RunnerConfig{
		Combat:      cbt,
		PlayerID:    "p1",
		Loadout:     cli.PlayerLoadout{AttackBonus: 4, Damage: dice.MustParse("1d8+3")},
		Adversaries: []adversary.Instance{inst},
		Source:      src,
		Narrator:    narrator,
		Input:       strings.NewReader(input),
		Output:      &out,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return r, &out
}

func TestRunner_PlayerWins(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	// Draw 14 → d20 face 15, +4 = 19 vs AC 12: hit, no crit threat.
	// Draw 0 → d8 face 1, +3 = 4 damage: goblin drops to 0.
	src := dice.NewQueueSource(14, 0)
	r, out := newRunner(t, cbt, inst, "attack goblin\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, check.Ended)
	assert.Equal(t, combat.AllegiancePlayer, check.Winners)
	assert.Contains(t, out.String(), "VICTORY")
	assert.Contains(t, out.String(), "Goblin is defeated")
	assert.False(t, cbt.Active)
}

func TestRunner_DefendThenConcede(t *testing.T) {
	cbt, player, inst := newDuel(t, 4)

	// Player defends (+2 AC → 17). Goblin's d20 draw 5 → face 6, +2 = 8: miss.
	// Player then quits, conceding the fight.
	src := dice.NewQueueSource(5)
	r, out := newRunner(t, cbt, inst, "defend\nquit\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, check.Ended)
	assert.Equal(t, combat.AllegianceAdversary, check.Winners)
	assert.Contains(t, out.String(), "defensive stance")
	assert.Contains(t, out.String(), "concedes")
	assert.Contains(t, out.String(), "DEFEAT")
	assert.True(t, player.Defeated)
}

func TestRunner_UnknownCommandDoesNotConsumeTurn(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	src := dice.NewQueueSource(14, 0)
	r, out := newRunner(t, cbt, inst, "dance\nattack goblin\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), `unknown command "dance"`)
	assert.Equal(t, combat.AllegiancePlayer, check.Winners)
}

func TestRunner_AttackWithoutTargetReprompts(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	src := dice.NewQueueSource(14, 0)
	r, out := newRunner(t, cbt, inst, "attack\nattack gob\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "attack requires a target")
	assert.Equal(t, combat.AllegiancePlayer, check.Winners, "prefix match should find the goblin")
}

func TestRunner_StatusAndHelpAreFreeActions(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	src := dice.NewQueueSource(14, 0)
	r, out := newRunner(t, cbt, inst, "status\nhelp\nattack goblin\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Round 1")
	assert.Contains(t, out.String(), "COMBAT")
	assert.Equal(t, combat.AllegiancePlayer, check.Winners)
}

func TestRunner_EOFConcedes(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	r, out := newRunner(t, cbt, inst, "", dice.NewQueueSource(0), nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.AllegianceAdversary, check.Winners)
	assert.Contains(t, out.String(), "concedes")
}

type recordingNarrator struct {
	events []narrative.Event
}

func (r *recordingNarrator) Narrate(_ context.Context, e narrative.Event) (string, error) {
	r.events = append(r.events, e)
	return "The blade sings.", nil
}

func TestRunner_NarratesAttacks(t *testing.T) {
	cbt, _, inst := newDuel(t, 4)

	narrator := &recordingNarrator{}
	src := dice.NewQueueSource(14, 0)
	r, out := newRunner(t, cbt, inst, "attack goblin\n", src, narrator)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, narrator.events, 1)
	event := narrator.events[0]
	assert.Equal(t, "Aldric", event.Actor)
	assert.Equal(t, "Goblin", event.Target)
	assert.True(t, event.Hit)
	assert.Equal(t, 4, event.Damage)
	assert.True(t, event.Defeated)
	assert.Contains(t, out.String(), "The blade sings.")
}

func TestRunner_AdversaryAttacksBack(t *testing.T) {
	cbt, player, inst := newDuel(t, 10)

	// Player round 1: draw 10 → d20 face 11, +4 = 15 vs 12 hit; draw 0 → 4 dmg (goblin 10→6).
	// Goblin: draw 17 → face 18, +2 = 20 vs 15 hit; 1d6 draw 2 → face 3 dmg (player 12→9).
	// Player round 2: draw 14 → 15+4 hit; draw 5 → d8 face 6, +3 = 9 dmg (goblin 6→0).
	src := dice.NewQueueSource(10, 0, 17, 2, 14, 5)
	r, out := newRunner(t, cbt, inst, "attack goblin\nattack goblin\n", src, nil)

	check, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, combat.AllegiancePlayer, check.Winners)
	assert.Equal(t, 9, player.CurrentHP, "goblin should have dealt 3 damage")
	assert.Contains(t, out.String(), "round 2")
}
