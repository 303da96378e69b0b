package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventCaseCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCaseCreated, CaseID: "1"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventCaseUpdated, CaseID: "2"}))

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].CaseID)
}

func TestDispatcher_HandlerErrorsDoNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	calls := 0
	d.Subscribe(EventCaseArchived, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventCaseArchived, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventCaseArchived})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestSubscribeAll(t *testing.T) {
	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, typ := range []EventType{EventCaseCreated, EventCaseUpdated, EventCaseArchived} {
		require.NoError(t, d.Publish(context.Background(), Event{Type: typ}))
	}
	assert.Equal(t, map[EventType]int{EventCaseCreated: 1, EventCaseUpdated: 1, EventCaseArchived: 1}, seen)
}
