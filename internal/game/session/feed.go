// Package session tracks active encounter sessions: which profile is playing
// which character in which encounter, plus the event feed the front end drains.
package session

import (
	"fmt"
	"sync"
)

// EventFeed routes encounter text events (combat log lines, narration,
// announcements) to a channel the front end reads from.
type EventFeed struct {
	sid    string
	events chan string
	mu     sync.Mutex
	closed bool
}

// NewEventFeed creates an EventFeed for the given session ID.
//
// Precondition: sid must be non-empty.
// Postcondition: Returns an EventFeed with an open events channel.
func NewEventFeed(sid string, bufferSize int) *EventFeed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &EventFeed{
		sid:    sid,
		events: make(chan string, bufferSize),
	}
}

// SID returns the owning session's identifier.
func (f *EventFeed) SID() string {
	return f.sid
}

// Push enqueues an event line.
//
// Postcondition: The line is enqueued, or an error if the feed is closed or full.
func (f *EventFeed) Push(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return fmt.Errorf("session: feed %s is closed", f.sid)
	}
	select {
	case f.events <- line:
		return nil
	default:
		return fmt.Errorf("session: feed %s buffer full", f.sid)
	}
}

// Events returns the read-only events channel. The front end reads from this
// channel to render encounter output.
func (f *EventFeed) Events() <-chan string {
	return f.events
}

// Close marks the feed as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (f *EventFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// IsClosed reports whether the feed has been closed.
func (f *EventFeed) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
