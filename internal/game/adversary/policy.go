package adversary

import (
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Action is what an adversary elects to do on its turn.
type Action int

const (
	ActionAttack Action = iota
	ActionDefend
	ActionPass
)

// String returns a human-readable action label.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	default:
		return "pass"
	}
}

// Decision is the policy's choice for one adversary turn.
type Decision struct {
	Action Action
	// TargetID is set only for ActionAttack.
	TargetID string
	// Reasoning is a short explanation for logs and narration.
	Reasoning string
}

// defendHPThreshold and defendChance control the defensive-stance override:
// below 25% HP an adversary has a 30% chance to defend instead of attacking.
const (
	defendHPThreshold = 0.25
	defendChance      = 30 // percent
)

// Policy selects targets and actions for adversary combatants. The random
// source is injected so decisions are reproducible.
type Policy struct {
	src dice.Source
}

// NewPolicy creates a Policy drawing randomness from src.
//
// Precondition: src must be non-nil.
func NewPolicy(src dice.Source) *Policy {
	return &Policy{src: src}
}

// DecideAction picks the adversary's move for this turn:
//
//  1. No live player-side target → Pass.
//  2. Otherwise the target is the live player-side combatant with the lowest
//     CurrentHP/MaxHP ratio; the first minimum in roster order wins ties.
//  3. When self is below 25% HP, a 30% draw overrides the attack with a
//     defensive stance.
//
// Having no valid target is an expected outcome, never an error.
//
// Precondition: self and all must be non-nil; self.MaxHP > 0.
func (p *Policy) DecideAction(self *combat.Combatant, all []*combat.Combatant) Decision {
	var target *combat.Combatant
	for _, cbt := range all {
		if cbt.Allegiance != combat.AllegiancePlayer || cbt.Defeated {
			continue
		}
		if target == nil || cbt.HPRatio() < target.HPRatio() {
			target = cbt
		}
	}
	if target == nil {
		return Decision{Action: ActionPass, Reasoning: "no valid targets"}
	}

	if self.HPRatio() < defendHPThreshold && p.src.Intn(100) < defendChance {
		return Decision{Action: ActionDefend, Reasoning: "low HP, defensive stance"}
	}

	return Decision{
		Action:    ActionAttack,
		TargetID:  target.ID,
		Reasoning: "attacking the weakest target",
	}
}
