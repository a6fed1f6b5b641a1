package client

import (
	"context"
	"errors"
	"sync"
)

var ErrDeleteInFlight = errors.New("delete already in progress for this event")

// MyEventsView holds the organizer's event list and mediates deletes the
// way the list screen does: one in-flight delete per event id, and the
// row only disappears after the server confirms.
type MyEventsView struct {
	client *Client

	mu       sync.Mutex
	events   []Event
	deleting map[string]bool
}

func NewMyEventsView(c *Client) *MyEventsView {
	return &MyEventsView{
		client:   c,
		deleting: make(map[string]bool),
	}
}

func (v *MyEventsView) Load(ctx context.Context) error {
	events, err := v.client.MyEvents(ctx)

	if err != nil {
		return err
	}

	v.mu.Lock()
	v.events = events
	v.mu.Unlock()

	return nil
}

func (v *MyEventsView) Events() []Event {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Event, len(v.events))
	copy(out, v.events)

	return out
}

func (v *MyEventsView) Deleting(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.deleting[id]
}

// Delete removes the event on the server, then drops it from the local
// list. A second delete for the same id while one is running is
// rejected; deletes for other ids may proceed. On failure the list is
// left untouched.
func (v *MyEventsView) Delete(ctx context.Context, id string) error {
	v.mu.Lock()

	if v.deleting[id] {
		v.mu.Unlock()
		return ErrDeleteInFlight
	}

	v.deleting[id] = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		delete(v.deleting, id)
		v.mu.Unlock()
	}()

	if err := v.client.DeleteEvent(ctx, id); err != nil {
		return err
	}

	v.mu.Lock()

	kept := v.events[:0]

	for _, e := range v.events {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	v.events = kept
	v.mu.Unlock()

	return nil
}

// CanEdit is the list screen's local ownership pre-check. The server
// re-enforces ownership on every mutation.
func (v *MyEventsView) CanEdit(e Event, userID string) bool {
	return userID != "" && e.OrganizerID == userID
}
