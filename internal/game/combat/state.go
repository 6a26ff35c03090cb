package combat

import (
	"fmt"
	"sort"
	"strings"
)

// Combat holds the live state of a single encounter.
//
// Lifecycle: NotStarted → Active → Ended (terminal). NewCombat produces an
// Active combat; CheckCombatEnd or EndCombat transitions it to Ended. Once
// Ended, mutating calls return ErrCombatEnded; this is a contract, not a
// convention. A Combat is not safe for concurrent use; callers sharing one
// across goroutines must serialize all calls (the Engine provides that
// boundary per session).
type Combat struct {
	// ID uniquely identifies the encounter.
	ID string
	// Combatants is initiative-descending; equal initiative preserves the
	// roster's insertion order. The order is fixed after construction.
	Combatants []*Combatant
	// Round starts at 1 and increments once per full cycle through the order.
	Round int
	// Active is false once the combat has ended.
	Active bool

	turnIndex int
	log       []string
}

// TurnAdvance is the result of one NextTurn call.
type TurnAdvance struct {
	// NewRound is true when the turn order wrapped and Round was incremented.
	NewRound bool
	// Current is the combatant whose turn it now is; nil when every slot in
	// the order is defeated (the terminal outcome surfaces via CheckCombatEnd).
	Current *Combatant
}

// EndCheck is the result of a CheckCombatEnd call.
type EndCheck struct {
	Ended bool
	// Winners is the side with live combatants remaining, or AllegianceNone
	// on a mutual wipe.
	Winners Allegiance
	Reason  string
}

// NewCombat starts a combat with the given roster.
//
// The roster is copied and stable-sorted by Initiative descending, so equal
// initiative values keep their relative input order. Round is 1, the first
// slot in the order acts first, and the log is seeded with the initiative
// summary.
//
// Precondition: every combatant has MaxHP > 0 and a unique ID.
// Postcondition: Returns an Active combat, or ErrNoCombatants.
func NewCombat(id string, combatants []*Combatant) (*Combat, error) {
	if len(combatants) == 0 {
		return nil, ErrNoCombatants
	}

	ordered := make([]*Combatant, len(combatants))
	copy(ordered, combatants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Initiative > ordered[j].Initiative
	})

	c := &Combat{
		ID:         id,
		Combatants: ordered,
		Round:      1,
		Active:     true,
	}

	c.appendLog("combat begins")
	names := make([]string, len(ordered))
	for i, cbt := range ordered {
		names[i] = fmt.Sprintf("%s (%d)", cbt.Name, cbt.Initiative)
	}
	c.appendLog("initiative order: " + strings.Join(names, ", "))
	return c, nil
}

// NextTurn advances the turn order to the next live combatant.
//
// Advancing past the last slot wraps to the first, increments Round exactly
// once, and sets NewRound. Defeated combatants are skipped; the scan is
// bounded to one full pass over the order, so when every combatant is
// defeated NextTurn returns Current == nil rather than looping; the caller
// surfaces that terminal state through CheckCombatEnd.
//
// Postcondition: Current is never a defeated combatant; Round has increased
// by at most 1.
func (c *Combat) NextTurn() (TurnAdvance, error) {
	if !c.Active {
		return TurnAdvance{}, ErrCombatEnded
	}

	n := len(c.Combatants)
	var adv TurnAdvance
	for attempts := 0; attempts < n; attempts++ {
		c.turnIndex = (c.turnIndex + 1) % n
		if c.turnIndex == 0 && !adv.NewRound {
			c.Round++
			adv.NewRound = true
			c.appendLog(fmt.Sprintf("round %d begins", c.Round))
		}
		if cur := c.Combatants[c.turnIndex]; !cur.Defeated {
			adv.Current = cur
			return adv, nil
		}
	}
	return adv, nil
}

// CurrentCombatant returns the combatant occupying the current turn slot.
// Read-only; the slot holder may be defeated if the order just wrapped.
func (c *Combat) CurrentCombatant() *Combatant {
	return c.Combatants[c.turnIndex]
}

// ActiveCombatants returns all combatants with Defeated == false, in
// initiative order. Read-only and safe to call repeatedly.
func (c *Combat) ActiveCombatants() []*Combatant {
	var alive []*Combatant
	for _, cbt := range c.Combatants {
		if !cbt.Defeated {
			alive = append(alive, cbt)
		}
	}
	return alive
}

// GetCombatant returns the combatant with the given ID.
//
// Postcondition: Returns ErrUnknownCombatant when no combatant has that ID.
func (c *Combat) GetCombatant(id string) (*Combatant, error) {
	for _, cbt := range c.Combatants {
		if cbt.ID == id {
			return cbt, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCombatant, id)
}

// CheckCombatEnd reports whether one side has been fully defeated.
//
// No live player-side combatant → the adversary side wins; no live
// adversary-side combatant → the player side wins. Both sides empty in the
// same check is a mutual wipe: Ended with AllegianceNone, never a silent
// preference for either side. Any Ended outcome deactivates the combat.
// Calling again after the end returns the same verdict.
func (c *Combat) CheckCombatEnd() EndCheck {
	playersAlive := 0
	adversariesAlive := 0
	for _, cbt := range c.Combatants {
		if cbt.Defeated {
			continue
		}
		switch cbt.Allegiance {
		case AllegiancePlayer:
			playersAlive++
		case AllegianceAdversary:
			adversariesAlive++
		}
	}

	var check EndCheck
	switch {
	case playersAlive == 0 && adversariesAlive == 0:
		check = EndCheck{Ended: true, Winners: AllegianceNone, Reason: "mutual defeat"}
	case playersAlive == 0:
		check = EndCheck{Ended: true, Winners: AllegianceAdversary, Reason: "all player combatants defeated"}
	case adversariesAlive == 0:
		check = EndCheck{Ended: true, Winners: AllegiancePlayer, Reason: "all adversary combatants defeated"}
	default:
		return EndCheck{}
	}

	if c.Active {
		c.Active = false
		c.appendLog("combat ends: " + check.Reason)
	}
	return check
}

// EndCombat forces the combat inactive unconditionally (manual abort).
//
// Postcondition: Active == false.
func (c *Combat) EndCombat() {
	if c.Active {
		c.Active = false
		c.appendLog("combat ended by caller")
	}
}

// Log returns a copy of the append-only combat log.
func (c *Combat) Log() []string {
	out := make([]string, len(c.log))
	copy(out, c.log)
	return out
}

func (c *Combat) appendLog(entries ...string) {
	c.log = append(c.log, entries...)
}

// CombatantView is a read-only row in a StateSnapshot.
type CombatantView struct {
	ID         string
	Name       string
	Initiative int
	CurrentHP  int
	MaxHP      int
	AC         int
	Allegiance Allegiance
	Defeated   bool
}

// StateSnapshot is a read-only copy of the combat state for rendering by any
// front end. Mutating a snapshot has no effect on the combat.
type StateSnapshot struct {
	ID         string
	Round      int
	TurnIndex  int
	Active     bool
	Combatants []CombatantView
	Log        []string
}

// Snapshot captures the current state for rendering.
func (c *Combat) Snapshot() StateSnapshot {
	views := make([]CombatantView, len(c.Combatants))
	for i, cbt := range c.Combatants {
		views[i] = CombatantView{
			ID:         cbt.ID,
			Name:       cbt.Name,
			Initiative: cbt.Initiative,
			CurrentHP:  cbt.CurrentHP,
			MaxHP:      cbt.MaxHP,
			AC:         cbt.AC,
			Allegiance: cbt.Allegiance,
			Defeated:   cbt.Defeated,
		}
	}
	return StateSnapshot{
		ID:         c.ID,
		Round:      c.Round,
		TurnIndex:  c.turnIndex,
		Active:     c.Active,
		Combatants: views,
		Log:        c.Log(),
	}
}
