package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/incident-center/internal/events"
	"github.com/spec-kit/incident-center/internal/observability"
)

// EventLogService records committed mutations in the structured log and the event counters.
type EventLogService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewEventLogService creates the service.
func NewEventLogService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *EventLogService {
	return &EventLogService{
		dispatcher: dispatcher,
		logger:     observability.OrNop(logger),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to every record event.
func (n *EventLogService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *EventLogService) handle(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Variant), string(event.Type))
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("variant", string(event.Variant)),
		zap.String("record_id", event.RecordID),
		zap.String("actor", event.Actor),
		zap.Any("payload", event.Payload))
	return nil
}
