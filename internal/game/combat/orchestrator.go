package combat

import (
	"fmt"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

// AttackOutcome is the structured result of one ProcessAttack call, exposed
// for the driving layer to log, persist, or narrate.
type AttackOutcome struct {
	Success bool
	// Damage dealt; 0 on a miss.
	Damage int
	// Critical is true when a natural-20 threat was confirmed and the damage
	// dice were doubled.
	Critical bool
	// TargetDefeated is true when this attack dropped the target to 0 HP.
	TargetDefeated bool
	// LogEntries are the log lines this attack appended, in order.
	LogEntries []string
}

// HealOutcome is the structured result of one ProcessHeal call.
type HealOutcome struct {
	Healed     int
	Overheal   int
	LogEntries []string
}

// ProcessAttack resolves one attack from actor to target and applies the
// result. This is the sole mutation path for combat hit points: the attack
// roll is resolved against the target's AC (ties hit), a confirmed natural-20
// threat doubles the damage dice, and on a hit the damage is subtracted from
// the target's CurrentHP, floored at 0. A combatant at 0 HP is Defeated.
//
// Each exchange appends structured log entries; the returned outcome carries
// the same entries for the caller.
//
// Precondition: attackBonus and damage describe the actor's attack; src must
// be non-nil.
// Postcondition: Returns ErrCombatEnded when inactive, ErrUnknownCombatant
// for an unknown actor or target ID, ErrTargetDefeated when the target is
// already down. On success the target's CurrentHP and Defeated are current.
func (c *Combat) ProcessAttack(actorID, targetID string, attackBonus int, damage dice.Expression, src dice.Source) (AttackOutcome, error) {
	if !c.Active {
		return AttackOutcome{}, ErrCombatEnded
	}
	actor, err := c.GetCombatant(actorID)
	if err != nil {
		return AttackOutcome{}, err
	}
	target, err := c.GetCombatant(targetID)
	if err != nil {
		return AttackOutcome{}, err
	}
	if target.Defeated {
		return AttackOutcome{}, fmt.Errorf("%w: %q", ErrTargetDefeated, target.Name)
	}

	check := rules.ResolveAttack(src, attackBonus, target.AC)

	var out AttackOutcome
	if !check.Success {
		out.LogEntries = append(out.LogEntries,
			fmt.Sprintf("%s attacks %s: %d vs AC %d, miss", actor.Name, target.Name, check.Roll.Total, target.AC))
		c.appendLog(out.LogEntries...)
		return out, nil
	}

	critical := check.Roll.CriticalHit() && rules.ConfirmCritical(src, attackBonus, target.AC)
	dmg := rules.ResolveDamage(src, damage.Count, damage.Sides, damage.Modifier, critical)

	// The scheduler adopts the floor-at-zero view of the damage model:
	// Defeated iff CurrentHP reaches 0. The richer dying/dead classification
	// from rules.ApplyDamage appears in the log only.
	result := rules.ApplyDamage(target.CurrentHP, target.MaxHP, dmg)
	target.CurrentHP = result.NewHP
	if target.CurrentHP < 0 {
		target.CurrentHP = 0
	}
	if target.CurrentHP == 0 {
		target.Defeated = true
	}

	out.Success = true
	out.Damage = dmg
	out.Critical = critical
	out.TargetDefeated = target.Defeated

	hitLabel := "hit"
	if critical {
		hitLabel = "critical hit"
	}
	out.LogEntries = append(out.LogEntries,
		fmt.Sprintf("%s attacks %s: %d vs AC %d, %s for %d damage", actor.Name, target.Name, check.Roll.Total, target.AC, hitLabel, dmg))
	if target.Defeated {
		out.LogEntries = append(out.LogEntries,
			fmt.Sprintf("%s is defeated (%s)", target.Name, result.Status))
	} else {
		out.LogEntries = append(out.LogEntries,
			fmt.Sprintf("%s is at %d/%d HP (%s)", target.Name, target.CurrentHP, target.MaxHP, result.Status))
	}
	c.appendLog(out.LogEntries...)
	return out, nil
}

// ProcessEffectDamage applies flat damage to target without an attack roll.
// This is the mutation path for scripted effects: the amount is subtracted
// from CurrentHP, floored at 0, and a combatant at 0 HP is Defeated, the same
// as ProcessAttack.
//
// Precondition: amount >= 0.
func (c *Combat) ProcessEffectDamage(targetID string, amount int) (AttackOutcome, error) {
	if !c.Active {
		return AttackOutcome{}, ErrCombatEnded
	}
	target, err := c.GetCombatant(targetID)
	if err != nil {
		return AttackOutcome{}, err
	}
	if target.Defeated {
		return AttackOutcome{}, fmt.Errorf("%w: %q", ErrTargetDefeated, target.Name)
	}

	result := rules.ApplyDamage(target.CurrentHP, target.MaxHP, amount)
	target.CurrentHP = result.NewHP
	if target.CurrentHP < 0 {
		target.CurrentHP = 0
	}
	if target.CurrentHP == 0 {
		target.Defeated = true
	}

	out := AttackOutcome{Success: true, Damage: amount, TargetDefeated: target.Defeated}
	out.LogEntries = append(out.LogEntries,
		fmt.Sprintf("%s takes %d damage, now at %d/%d HP", target.Name, amount, target.CurrentHP, target.MaxHP))
	if target.Defeated {
		out.LogEntries = append(out.LogEntries,
			fmt.Sprintf("%s is defeated (%s)", target.Name, result.Status))
	}
	c.appendLog(out.LogEntries...)
	return out, nil
}

// ProcessHeal applies flat healing from actor to target through the same
// mutation and logging path as ProcessAttack. Healing is capped at the
// target's MaxHP; the overflow is reported as Overheal. Defeated combatants
// cannot be healed; there are no revival mechanics.
//
// Precondition: amount >= 0.
func (c *Combat) ProcessHeal(actorID, targetID string, amount int) (HealOutcome, error) {
	if !c.Active {
		return HealOutcome{}, ErrCombatEnded
	}
	actor, err := c.GetCombatant(actorID)
	if err != nil {
		return HealOutcome{}, err
	}
	target, err := c.GetCombatant(targetID)
	if err != nil {
		return HealOutcome{}, err
	}
	if target.Defeated {
		return HealOutcome{}, fmt.Errorf("%w: %q", ErrTargetDefeated, target.Name)
	}

	result := rules.ApplyHealing(target.CurrentHP, target.MaxHP, amount)
	healed := result.NewHP - target.CurrentHP
	target.CurrentHP = result.NewHP

	out := HealOutcome{Healed: healed, Overheal: result.Overheal}
	out.LogEntries = append(out.LogEntries,
		fmt.Sprintf("%s heals %s for %d, now at %d/%d HP", actor.Name, target.Name, healed, target.CurrentHP, target.MaxHP))
	c.appendLog(out.LogEntries...)
	return out, nil
}
