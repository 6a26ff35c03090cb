// Package adversary provides adversary archetypes, their combat capability
// table, and the heuristic action policy for non-player combatants.
package adversary

import "github.com/cory-johannsen/skirmish/internal/game/dice"

// Type is the closed set of adversary archetypes. The tag is assigned at
// creation and looked up exhaustively; capability dispatch never inspects
// combatant names.
type Type int

const (
	// TypeUnknown is the zero value; Stats maps it to the documented default
	// capability (+3, 1d6+1).
	TypeUnknown Type = iota
	TypeWeakFast
	TypeStrongWarrior
	TypeUndeadLight
	TypeUndeadTough
	TypeBrute
)

// String returns the canonical tag used in templates and logs.
func (t Type) String() string {
	switch t {
	case TypeWeakFast:
		return "weak-fast"
	case TypeStrongWarrior:
		return "strong-warrior"
	case TypeUndeadLight:
		return "undead-light"
	case TypeUndeadTough:
		return "undead-tough"
	case TypeBrute:
		return "brute"
	default:
		return "unknown"
	}
}

// ParseType maps a template tag string to a Type. Unrecognized tags map to
// TypeUnknown, which carries the default capability profile.
func ParseType(s string) Type {
	switch s {
	case "weak-fast":
		return TypeWeakFast
	case "strong-warrior":
		return TypeStrongWarrior
	case "undead-light":
		return TypeUndeadLight
	case "undead-tough":
		return TypeUndeadTough
	case "brute":
		return TypeBrute
	default:
		return TypeUnknown
	}
}

// Profile is one row of the capability table: the flat attack bonus and the
// damage dice an adversary of that type swings with.
type Profile struct {
	AttackBonus int
	Damage      dice.Expression
}

// Stats returns the capability profile for a type. The switch is exhaustive
// over the closed set; TypeUnknown (and any future unmapped tag) falls back
// to the default +3, 1d6+1.
func Stats(t Type) Profile {
	switch t {
	case TypeWeakFast:
		return Profile{AttackBonus: 2, Damage: dice.MustParse("1d6")}
	case TypeStrongWarrior:
		return Profile{AttackBonus: 4, Damage: dice.MustParse("1d8+2")}
	case TypeUndeadLight:
		return Profile{AttackBonus: 1, Damage: dice.MustParse("1d6")}
	case TypeUndeadTough:
		return Profile{AttackBonus: 1, Damage: dice.MustParse("1d6+1")}
	case TypeBrute:
		return Profile{AttackBonus: 6, Damage: dice.MustParse("2d8+4")}
	default:
		return Profile{AttackBonus: 3, Damage: dice.MustParse("1d6+1")}
	}
}
