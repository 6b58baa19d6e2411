package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lensbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func msg(id, sender, receiver string, offset time.Duration) *models.ChatMessage {
	return &models.ChatMessage{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       "m-" + id,
		CreatedAt:  base.Add(offset),
	}
}

type fakeHistory struct {
	rows []*models.ChatMessage
	err  error

	gotViewer      string
	gotCounterpart string
}

func (f *fakeHistory) History(_ context.Context, viewerID, counterpartID string) ([]*models.ChatMessage, error) {
	f.gotViewer = viewerID
	f.gotCounterpart = counterpartID
	return f.rows, f.err
}

func ids(msgs []*models.ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestOpenLoadsHistoryNewestFirst(t *testing.T) {
	history := &fakeHistory{rows: []*models.ChatMessage{
		msg("3", "a", "b", 3*time.Minute),
		msg("2", "b", "a", 2*time.Minute),
		msg("1", "a", "b", time.Minute),
	}}

	f := New("a", "b", history)
	require.NoError(t, f.Open(context.Background()))

	assert.Equal(t, "a", history.gotViewer)
	assert.Equal(t, "b", history.gotCounterpart)
	assert.Equal(t, []string{"3", "2", "1"}, ids(f.Snapshot()))
	assert.Equal(t, StateReady, f.State())
}

func TestOpenWithEmptyHistory(t *testing.T) {
	f := New("a", "", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	assert.Empty(t, f.Snapshot())
	assert.Equal(t, StateReady, f.State())
}

func TestOpenFailureLeavesFeedReady(t *testing.T) {
	f := New("a", "b", &fakeHistory{err: errors.New("timeout")})

	err := f.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateReady, f.State())
	assert.Empty(t, f.Snapshot())
}

func TestDeliverAdmitsParticipantMessagesOnce(t *testing.T) {
	f := New("a", "b", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	var notified []string
	f.OnMessage(func(m *models.ChatMessage) { notified = append(notified, m.ID) })

	live := msg("5", "b", "a", 5*time.Minute)
	f.Deliver(live)
	f.Deliver(live) // duplicate delivery

	assert.Equal(t, []string{"5"}, ids(f.Snapshot()))
	assert.Equal(t, []string{"5"}, notified)
}

func TestDeliverIgnoresForeignMessages(t *testing.T) {
	f := New("a", "b", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	f.Deliver(msg("x", "c", "d", time.Minute))

	assert.Empty(t, f.Snapshot())
}

func TestStreamBeforeHistoryStaysSorted(t *testing.T) {
	// History resolves after a live insert has already arrived; the final
	// view must still be ordered by creation time, and the row covered by
	// both sources must appear once.
	overlap := msg("2", "b", "a", 2*time.Minute)
	history := &fakeHistory{rows: []*models.ChatMessage{
		msg("3", "a", "b", 3*time.Minute),
		overlap,
		msg("1", "a", "b", time.Minute),
	}}

	f := New("a", "b", history)
	f.Deliver(msg("4", "b", "a", 4*time.Minute))
	f.Deliver(overlap)

	require.NoError(t, f.Open(context.Background()))

	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(f.Snapshot()))
}

func TestLateHistoryDoesNotDuplicateStreamedRow(t *testing.T) {
	row := msg("7", "a", "b", 7*time.Minute)
	f := New("a", "b", &fakeHistory{rows: []*models.ChatMessage{row}})

	f.Deliver(row)
	require.NoError(t, f.Open(context.Background()))

	assert.Equal(t, []string{"7"}, ids(f.Snapshot()))
}

func TestSendAppearsWithinOneDelivery(t *testing.T) {
	f := New("viewer", "counterpart", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	var got *models.ChatMessage
	f.OnMessage(func(m *models.ChatMessage) { got = m })

	sent := &models.ChatMessage{
		ID:         "hello-1",
		SenderID:   "viewer",
		ReceiverID: "counterpart",
		Text:       "hello",
		CreatedAt:  base,
	}
	f.Deliver(sent)

	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, []string{"hello-1"}, ids(f.Snapshot()))
}

func TestCloseDropsLaterDeliveries(t *testing.T) {
	f := New("a", "b", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	notified := false
	f.OnMessage(func(*models.ChatMessage) { notified = true })

	f.Close()
	f.Deliver(msg("9", "b", "a", time.Minute))

	assert.Equal(t, StateDisposed, f.State())
	assert.Empty(t, f.Snapshot())
	assert.False(t, notified)
}

func TestOpenAfterCloseFails(t *testing.T) {
	f := New("a", "b", &fakeHistory{})
	f.Close()

	err := f.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisposed, f.State())
}

func TestManyInterleavedDeliveriesStaySorted(t *testing.T) {
	f := New("a", "b", &fakeHistory{})
	require.NoError(t, f.Open(context.Background()))

	// Deliver out of creation order.
	for _, i := range []int{5, 1, 9, 3, 7, 2, 8, 4, 6} {
		f.Deliver(msg(fmt.Sprintf("%d", i), "a", "b", time.Duration(i)*time.Second))
	}

	snapshot := f.Snapshot()
	require.Len(t, snapshot, 9)
	for i := 1; i < len(snapshot); i++ {
		assert.False(t, snapshot[i].CreatedAt.After(snapshot[i-1].CreatedAt),
			"snapshot must be non-increasing by creation time")
	}
}
