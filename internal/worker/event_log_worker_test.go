package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-center/internal/events"
	"github.com/spec-kit/incident-center/internal/observability"
	"github.com/spec-kit/incident-center/internal/service"
)

func TestStartEventLogWorkerSubscribes(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	StartEventLogWorker(service.NewEventLogService(dispatcher, nil, metrics))
	StartEventLogWorker(nil)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventStatusChanged,
		Variant:  "ticket",
		RecordID: "TKT-2026-001",
	}))
	assert.Equal(t, int64(1), metrics.Snapshot().Events["ticket|record_status_changed"])
}
