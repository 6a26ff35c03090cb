package narrative_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/skirmish/internal/narrative"
)

func TestStaticNarrator(t *testing.T) {
	n := narrative.NewStaticNarrator()
	ctx := context.Background()

	cases := map[string]struct {
		event narrative.Event
		want  string
	}{
		"miss": {
			narrative.Event{Actor: "Goblin", Target: "Aldric", Hit: false},
			"Goblin lunges at Aldric but the blow goes wide.",
		},
		"hit": {
			narrative.Event{Actor: "Aldric", Target: "Goblin", Hit: true, Damage: 7},
			"Aldric hits Goblin for 7 damage.",
		},
		"critical": {
			narrative.Event{Actor: "Aldric", Target: "Goblin", Hit: true, Critical: true, Damage: 14},
			"Aldric finds an opening and crits Goblin for 14 damage.",
		},
		"defeat": {
			narrative.Event{Actor: "Aldric", Target: "Goblin", Hit: true, Damage: 9, Defeated: true},
			"Aldric strikes Goblin for 9 damage, finishing the fight.",
		},
		"critical defeat": {
			narrative.Event{Actor: "Aldric", Target: "Goblin", Hit: true, Critical: true, Damage: 18, Defeated: true},
			"Aldric lands a devastating strike for 18 damage, and Goblin crumples to the ground.",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			prose, err := n.Narrate(ctx, tc.event)
			require.NoError(t, err)
			assert.Equal(t, tc.want, prose)
		})
	}
}

type stubNarrator struct {
	prose string
	err   error
	calls int
}

func (s *stubNarrator) Narrate(context.Context, narrative.Event) (string, error) {
	s.calls++
	return s.prose, s.err
}

func TestFallbackNarratorPrimarySucceeds(t *testing.T) {
	primary := &stubNarrator{prose: "primary prose"}
	fallback := &stubNarrator{prose: "fallback prose"}
	n := narrative.NewFallbackNarrator(primary, fallback, zaptest.NewLogger(t))

	prose, err := n.Narrate(context.Background(), narrative.Event{Actor: "a", Target: "b"})
	require.NoError(t, err)
	assert.Equal(t, "primary prose", prose)
	assert.Zero(t, fallback.calls)
}

func TestFallbackNarratorPrimaryFails(t *testing.T) {
	primary := &stubNarrator{err: errors.New("api unavailable")}
	fallback := &stubNarrator{prose: "fallback prose"}
	n := narrative.NewFallbackNarrator(primary, fallback, zaptest.NewLogger(t))

	prose, err := n.Narrate(context.Background(), narrative.Event{Actor: "a", Target: "b"})
	require.NoError(t, err)
	assert.Equal(t, "fallback prose", prose)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}
