package narrative

import (
	"context"
	"fmt"
)

// StaticNarrator renders events with fixed templates. It never fails, which
// makes it the terminal fallback in a narrator chain.
type StaticNarrator struct{}

// NewStaticNarrator creates a template-based narrator.
func NewStaticNarrator() *StaticNarrator {
	return &StaticNarrator{}
}

// Narrate renders the event with a deterministic template.
//
// Postcondition: Returns a non-empty string and a nil error.
func (s *StaticNarrator) Narrate(_ context.Context, event Event) (string, error) {
	switch {
	case !event.Hit:
		return fmt.Sprintf("%s lunges at %s but the blow goes wide.", event.Actor, event.Target), nil
	case event.Defeated && event.Critical:
		return fmt.Sprintf("%s lands a devastating strike for %d damage, and %s crumples to the ground.",
			event.Actor, event.Damage, event.Target), nil
	case event.Defeated:
		return fmt.Sprintf("%s strikes %s for %d damage, finishing the fight.",
			event.Actor, event.Target, event.Damage), nil
	case event.Critical:
		return fmt.Sprintf("%s finds an opening and crits %s for %d damage.",
			event.Actor, event.Target, event.Damage), nil
	default:
		return fmt.Sprintf("%s hits %s for %d damage.", event.Actor, event.Target, event.Damage), nil
	}
}
