package combat

import "errors"

// ErrUnknownCombatant is returned when an operation names a combatant ID not
// present in the combat. Fatal to that call; retrying without correcting the
// ID yields the same result.
var ErrUnknownCombatant = errors.New("combat: unknown combatant")

// ErrCombatEnded is returned by mutating operations after the combat has
// become inactive. It signals a caller bug, not a recoverable condition.
var ErrCombatEnded = errors.New("combat: combat has ended")

// ErrTargetDefeated is returned when an attack or heal names a target that is
// already defeated.
var ErrTargetDefeated = errors.New("combat: target already defeated")

// ErrNoCombatants is returned when a combat is started with an empty roster.
var ErrNoCombatants = errors.New("combat: at least one combatant required")

// ErrCombatActive is returned by the Engine when a session already has a live
// encounter.
var ErrCombatActive = errors.New("combat: combat already active for session")

// ErrCombatNotFound is returned by the Engine when a session has no active
// encounter.
var ErrCombatNotFound = errors.New("combat: no active combat for session")
