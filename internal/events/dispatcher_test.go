package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventStatusChanged, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.RecordID)
		return nil
	})
	d.Subscribe(EventRecordCreated, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventStatusChanged, RecordID: "INC-2026-001"})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"first", "second:INC-2026-001"}, calls)
}

func TestPublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventRecordUpdated}))
}
