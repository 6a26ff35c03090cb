// Package combat implements the Skirmish turn scheduler, combat state
// machine, and attack orchestrator. A Combat is exclusively owned by the
// caller that started it; all hit-point mutation funnels through
// ProcessAttack and ProcessHeal.
package combat

// Allegiance is the side a combatant fights for, used to determine
// victory and defeat.
type Allegiance int

const (
	// AllegianceNone is the zero value; it is also the Winners value when
	// both sides are wiped out in the same check.
	AllegianceNone Allegiance = iota
	AllegiancePlayer
	AllegianceAdversary
)

// String returns a human-readable allegiance label.
func (a Allegiance) String() string {
	switch a {
	case AllegiancePlayer:
		return "player"
	case AllegianceAdversary:
		return "adversary"
	default:
		return "none"
	}
}

// Combatant represents one participant in a combat encounter. Combatants are
// constructed by the character and adversary factories and handed to the
// scheduler; the core never parses sheets or templates itself.
//
// Invariant: MaxHP > 0; 0 <= CurrentHP <= MaxHP; Defeated == (CurrentHP == 0).
// Initiative is assigned once at combat start and never recomputed.
type Combatant struct {
	// ID uniquely identifies the combatant within the encounter.
	ID   string
	Name string
	// Initiative determines turn order, highest first.
	Initiative int
	CurrentHP  int
	MaxHP      int
	// AC is the armor class an attack total must meet or exceed to hit.
	AC         int
	Allegiance Allegiance
	Defeated   bool
	// CharacterID references the backing character sheet, 0 when none.
	CharacterID int64
}

// IsPlayer reports whether this combatant fights on the player side.
func (c *Combatant) IsPlayer() bool { return c.Allegiance == AllegiancePlayer }

// HPRatio returns CurrentHP/MaxHP as a float in [0, 1].
//
// Precondition: MaxHP > 0.
func (c *Combatant) HPRatio() float64 {
	return float64(c.CurrentHP) / float64(c.MaxHP)
}
