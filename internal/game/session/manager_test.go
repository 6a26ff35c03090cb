package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/session"
)

func TestAttachAndGet(t *testing.T) {
	m := session.NewManager()

	sess, err := m.Attach(1, "alice", 10, "Aldric")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.SID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "Aldric", sess.CharacterName)
	assert.NotNil(t, sess.Feed)

	assert.Same(t, sess, m.Get(sess.SID))
	assert.Same(t, sess, m.ByProfile(1))
	assert.Equal(t, 1, m.Count())
}

func TestAttachDuplicateProfile(t *testing.T) {
	m := session.NewManager()
	_, err := m.Attach(1, "alice", 10, "Aldric")
	require.NoError(t, err)

	_, err = m.Attach(1, "alice", 11, "Brina")
	assert.Error(t, err)
}

func TestDetach(t *testing.T) {
	m := session.NewManager()
	sess, err := m.Attach(1, "alice", 10, "Aldric")
	require.NoError(t, err)

	require.NoError(t, m.Detach(sess.SID))
	assert.Nil(t, m.Get(sess.SID))
	assert.Nil(t, m.ByProfile(1))
	assert.True(t, sess.Feed.IsClosed())

	// Profile can attach again after detach.
	_, err = m.Attach(1, "alice", 10, "Aldric")
	assert.NoError(t, err)
}

func TestDetachUnknown(t *testing.T) {
	m := session.NewManager()
	assert.Error(t, m.Detach("nope"))
}

func TestEncounterLifecycle(t *testing.T) {
	m := session.NewManager()
	sess, err := m.Attach(1, "alice", 10, "Aldric")
	require.NoError(t, err)

	require.NoError(t, m.BeginEncounter(sess.SID, "enc1"))
	assert.Equal(t, "enc1", m.Get(sess.SID).EncounterID)

	// One encounter at a time.
	assert.Error(t, m.BeginEncounter(sess.SID, "enc2"))

	require.NoError(t, m.EndEncounter(sess.SID))
	assert.Empty(t, m.Get(sess.SID).EncounterID)
	require.NoError(t, m.BeginEncounter(sess.SID, "enc2"))
}

func TestBeginEncounterUnknownSession(t *testing.T) {
	m := session.NewManager()
	assert.Error(t, m.BeginEncounter("nope", "enc1"))
}

func TestEventFeed(t *testing.T) {
	feed := session.NewEventFeed("sid1", 2)

	require.NoError(t, feed.Push("round 1 begins"))
	require.NoError(t, feed.Push("Aldric hits Goblin"))
	assert.Error(t, feed.Push("overflow"), "full buffer should reject pushes")

	assert.Equal(t, "round 1 begins", <-feed.Events())

	require.NoError(t, feed.Close())
	assert.True(t, feed.IsClosed())
	assert.Error(t, feed.Push("after close"))

	// Drain remaining then observe closed channel.
	assert.Equal(t, "Aldric hits Goblin", <-feed.Events())
	_, open := <-feed.Events()
	assert.False(t, open)
}
