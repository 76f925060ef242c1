package worker

import (
	"github.com/spec-kit/incident-center/internal/service"
)

// StartEventLogWorker registers the event log subscribers.
func StartEventLogWorker(eventLog *service.EventLogService) {
	if eventLog == nil {
		return
	}
	eventLog.RegisterHandlers()
}
