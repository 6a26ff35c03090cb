// Package narrative turns resolved combat events into prose. The default
// narrator is deterministic text; an Anthropic-backed narrator can be layered
// on top when configured.
package narrative

import "context"

// Event describes a single resolved combat action for narration.
type Event struct {
	Round    int
	Actor    string
	Target   string
	Hit      bool
	Critical bool
	Damage   int
	Defeated bool
}

// Narrator renders a combat event as a short piece of prose.
type Narrator interface {
	// Narrate returns one or two sentences describing the event.
	//
	// Precondition: event.Actor and event.Target must be non-empty.
	Narrate(ctx context.Context, event Event) (string, error)
}
