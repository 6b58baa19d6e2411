package feed

import (
	"context"
	"fmt"
	"sync"

	"lensbook-backend/internal/models"
)

// HistoryLoader is the one-shot bulk read the feed performs on open. An
// empty counterpartID loads everything the viewer sent or received.
type HistoryLoader interface {
	History(ctx context.Context, viewerID, counterpartID string) ([]*models.ChatMessage, error)
}

// State is the feed lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateDisposed
)

// Feed is a merged, chronologically ordered view (newest first) of the
// messages between a viewer and an optional counterpart, combining one bulk
// history load with live insert deliveries.
//
// History and live inserts arrive concurrently and in either order; every
// admitted row is placed by creation time, not by arrival order, and rows
// are deduplicated by ID so a message covered by both sources appears once.
type Feed struct {
	viewerID      string
	counterpartID string
	history       HistoryLoader

	mu       sync.Mutex
	state    State
	messages []*models.ChatMessage // newest first
	seen     map[string]struct{}
	notify   func(*models.ChatMessage)
}

// New creates a feed for viewerID. counterpartID narrows the history load to
// one conversation; pass "" for all of the viewer's messages.
func New(viewerID, counterpartID string, history HistoryLoader) *Feed {
	return &Feed{
		viewerID:      viewerID,
		counterpartID: counterpartID,
		history:       history,
		state:         StateUninitialized,
		seen:          make(map[string]struct{}),
	}
}

// OnMessage sets the callback invoked for each live message admitted after
// the feed is ready. Must be set before Open.
func (f *Feed) OnMessage(fn func(*models.ChatMessage)) {
	f.mu.Lock()
	f.notify = fn
	f.mu.Unlock()
}

// Open loads history and merges it with any live rows already delivered. A
// failed load leaves the feed Ready with whatever it holds (possibly
// nothing); the error is returned for logging only.
func (f *Feed) Open(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateDisposed {
		f.mu.Unlock()
		return fmt.Errorf("feed is disposed")
	}
	f.state = StateLoading
	f.mu.Unlock()

	rows, err := f.history.History(ctx, f.viewerID, f.counterpartID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateDisposed {
		return nil
	}
	for _, msg := range rows {
		f.admit(msg)
	}
	f.state = StateReady

	if err != nil {
		return fmt.Errorf("history load failed: %w", err)
	}
	return nil
}

// Deliver offers one live insert to the feed. Rows where the viewer is
// neither sender nor receiver are ignored, as are duplicates and anything
// arriving after Close.
func (f *Feed) Deliver(msg *models.ChatMessage) {
	f.mu.Lock()
	if f.state == StateDisposed {
		f.mu.Unlock()
		return
	}
	if !msg.Involves(f.viewerID) {
		f.mu.Unlock()
		return
	}
	admitted := f.admit(msg)
	notify := f.notify
	ready := f.state == StateReady
	f.mu.Unlock()

	if admitted && ready && notify != nil {
		notify(msg)
	}
}

// admit inserts msg in timestamp order unless it is already held. Caller
// holds the lock.
func (f *Feed) admit(msg *models.ChatMessage) bool {
	if _, ok := f.seen[msg.ID]; ok {
		return false
	}
	f.seen[msg.ID] = struct{}{}

	// Find the first held message older than msg; the list is newest first.
	i := 0
	for i < len(f.messages) && f.messages[i].CreatedAt.After(msg.CreatedAt) {
		i++
	}
	f.messages = append(f.messages, nil)
	copy(f.messages[i+1:], f.messages[i:])
	f.messages[i] = msg
	return true
}

// Snapshot returns a copy of the merged view, newest first.
func (f *Feed) Snapshot() []*models.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.ChatMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

// State returns the current lifecycle state.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Close disposes the feed. Deliveries after Close are dropped; the caller is
// responsible for cancelling the stream subscription that was feeding it.
func (f *Feed) Close() {
	f.mu.Lock()
	f.state = StateDisposed
	f.notify = nil
	f.mu.Unlock()
}
