package rules

// HealthStatus classifies a combatant's condition from its hit points.
type HealthStatus int

const (
	StatusHealthy HealthStatus = iota
	StatusWounded
	StatusDisabled
	StatusDying
	StatusDead
)

// String returns the lower-case status label.
func (s HealthStatus) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusWounded:
		return "wounded"
	case StatusDisabled:
		return "disabled"
	case StatusDying:
		return "dying"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// DeathFloor is the hit-point value at which a dying combatant is dead.
const DeathFloor = -10

// DamageOutcome describes the result of applying damage to a hit-point pool.
type DamageOutcome struct {
	NewHP int
	// Status classifies NewHP against maxHP.
	Status HealthStatus
	// StatusChanges records dead/dying/disabled transitions only; wounded and
	// healthy are steady states, not events.
	StatusChanges []string
}

// HealOutcome describes the result of applying healing to a hit-point pool.
type HealOutcome struct {
	NewHP    int
	Overheal int
}

// ClassifyHP maps a hit-point value against maxHP to a HealthStatus.
// Priority order: dead (<= -10), dying (< 0), disabled (== 0),
// wounded (< maxHP/2), healthy.
//
// Precondition: maxHP > 0.
func ClassifyHP(hp, maxHP int) HealthStatus {
	switch {
	case hp <= DeathFloor:
		return StatusDead
	case hp < 0:
		return StatusDying
	case hp == 0:
		return StatusDisabled
	case hp < maxHP/2:
		return StatusWounded
	default:
		return StatusHealthy
	}
}

// ApplyDamage subtracts damage from currentHP, flooring at DeathFloor, and
// classifies the result. This is the full tabletop damage model; the combat
// scheduler adopts a floor-at-zero view of it (see combat.ProcessAttack).
//
// Precondition: maxHP > 0; damage >= 0.
// Postcondition: NewHP >= DeathFloor; NewHP <= currentHP.
func ApplyDamage(currentHP, maxHP, damage int) DamageOutcome {
	newHP := currentHP - damage
	if newHP < DeathFloor {
		newHP = DeathFloor
	}

	out := DamageOutcome{
		NewHP:  newHP,
		Status: ClassifyHP(newHP, maxHP),
	}

	before := ClassifyHP(currentHP, maxHP)
	if out.Status != before {
		switch out.Status {
		case StatusDead, StatusDying, StatusDisabled:
			out.StatusChanges = append(out.StatusChanges, out.Status.String())
		}
	}
	return out
}

// ApplyHealing adds healing to currentHP, capped at maxHP, and reports any
// wasted overheal.
//
// Precondition: maxHP > 0; healing >= 0.
// Postcondition: NewHP <= maxHP; Overheal == max(0, currentHP+healing-maxHP).
func ApplyHealing(currentHP, maxHP, healing int) HealOutcome {
	raw := currentHP + healing
	out := HealOutcome{NewHP: raw}
	if raw > maxHP {
		out.NewHP = maxHP
		out.Overheal = raw - maxHP
	}
	return out
}
