// Package rules implements the pure d20 resolution arithmetic for Skirmish:
// attack, save, and skill checks, damage and healing application, and the
// supporting modifier math. Every function is a pure function of its inputs
// plus an injected dice.Source, so forcing a source forces the outcome.
package rules

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Roll is a single d20 draw with its modifiers.
//
// Invariant: Die is in [1, 20]; Total == Die + sum(Modifiers).
type Roll struct {
	Die       int
	Modifiers []int
	Total     int
}

// CriticalHit reports whether the base die came up a natural 20.
func (r Roll) CriticalHit() bool { return r.Die == 20 }

// CriticalMiss reports whether the base die came up a natural 1.
func (r Roll) CriticalMiss() bool { return r.Die == 1 }

// CheckResult is the outcome of an attack, saving throw, or skill check.
// Ties go to the roller: Success == (Roll.Total >= Target).
type CheckResult struct {
	Success bool
	Roll    Roll
	Target  int
	Notes   []string
}

// RollD20 draws one d20 and applies the given modifiers.
//
// Precondition: src must be non-nil.
// Postcondition: Result.Die in [1,20]; Result.Total == Die + sum(modifiers).
func RollD20(src dice.Source, modifiers ...int) Roll {
	die := src.Intn(20) + 1
	total := die
	mods := make([]int, len(modifiers))
	for i, m := range modifiers {
		mods[i] = m
		total += m
	}
	return Roll{Die: die, Modifiers: mods, Total: total}
}

// RollDice sums count uniform draws in [1, sides] plus modifier.
//
// Precondition: count >= 1; sides >= 2; src must be non-nil.
func RollDice(src dice.Source, count, sides, modifier int) int {
	total := modifier
	for i := 0; i < count; i++ {
		total += src.Intn(sides) + 1
	}
	return total
}

// AbilityModifier returns the standard ability modifier: floor((score-10)/2).
// Floor division is exact for scores below 10, so 9 → -1 and 8 → -1.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// resolveCheck is the shared meets-or-beats resolution for attack, save, and
// skill checks. label distinguishes the check kind in the notes.
func resolveCheck(src dice.Source, label string, bonus, target int, extra []int) CheckResult {
	mods := append([]int{bonus}, extra...)
	roll := RollD20(src, mods...)
	result := CheckResult{
		Success: roll.Total >= target,
		Roll:    roll,
		Target:  target,
	}
	verdict := "fails"
	if result.Success {
		verdict = "succeeds"
	}
	result.Notes = append(result.Notes,
		fmt.Sprintf("%s: d20=%d total=%d vs %d, %s", label, roll.Die, roll.Total, target, verdict))
	if roll.CriticalHit() {
		result.Notes = append(result.Notes, "natural 20")
	}
	if roll.CriticalMiss() {
		result.Notes = append(result.Notes, "natural 1")
	}
	return result
}

// ResolveAttack rolls d20 + attackBonus + extra against targetAC.
// A total that ties the AC hits.
//
// Precondition: src must be non-nil.
func ResolveAttack(src dice.Source, attackBonus, targetAC int, extra ...int) CheckResult {
	return resolveCheck(src, "attack", attackBonus, targetAC, extra)
}

// ResolveSavingThrow rolls d20 + saveBonus + extra against dc. Ties succeed.
//
// Precondition: src must be non-nil.
func ResolveSavingThrow(src dice.Source, saveBonus, dc int, extra ...int) CheckResult {
	return resolveCheck(src, "save", saveBonus, dc, extra)
}

// ResolveSkillCheck rolls d20 + skillBonus + extra against dc. Ties succeed.
//
// Precondition: src must be non-nil.
func ResolveSkillCheck(src dice.Source, skillBonus, dc int, extra ...int) CheckResult {
	return resolveCheck(src, "skill", skillBonus, dc, extra)
}

// ResolveInitiative rolls d20 + initiativeModifier. Assigned once per
// combatant at combat start and never recomputed mid-combat.
//
// Precondition: src must be non-nil.
func ResolveInitiative(src dice.Source, initiativeModifier int) int {
	return RollD20(src, initiativeModifier).Total
}

// ResolveDamage rolls count d sides + bonus. When critical, the dice (not the
// flat bonus) are rolled a second time and added.
//
// Precondition: count >= 1; sides >= 2; src must be non-nil.
// Postcondition: Returns >= 0.
func ResolveDamage(src dice.Source, count, sides, bonus int, critical bool) int {
	total := RollDice(src, count, sides, bonus)
	if critical {
		total += RollDice(src, count, sides, 0)
	}
	if total < 0 {
		return 0
	}
	return total
}

// ConfirmCritical makes a second attack roll to confirm a threatened
// critical: the threat is confirmed only if the confirmation roll would also
// hit the target AC.
//
// Precondition: src must be non-nil.
func ConfirmCritical(src dice.Source, attackBonus, targetAC int, extra ...int) bool {
	return ResolveAttack(src, attackBonus, targetAC, extra...).Success
}
