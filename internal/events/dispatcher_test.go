package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTaskCreated, ResourceID: "task-1"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "task-1", received[0].ResourceID)
}

func TestDispatcher_IgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTaskCreated, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventPagePublished}))
	assert.False(t, called)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var order []string
	d.Subscribe(EventUserDeleted, func(_ context.Context, _ Event) error {
		order = append(order, "first")
		return errors.New("handler failed")
	})
	d.Subscribe(EventUserDeleted, func(_ context.Context, _ Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserDeleted}))
	assert.Equal(t, []string{"first", "second"}, order)
}
