package events

import (
	"time"

	"github.com/spec-kit/incident-center/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecordCreated      EventType = "record_created"
	EventRecordUpdated      EventType = "record_updated"
	EventStatusChanged      EventType = "record_status_changed"
	EventSeverityChanged    EventType = "record_severity_changed"
	EventRecordReassigned   EventType = "record_reassigned"
	EventActivityAppended   EventType = "record_activity_appended"
	EventAttachmentAppended EventType = "record_attachment_appended"
)

// AllEventTypes lists every event type, for subscribers that want everything.
var AllEventTypes = []EventType{
	EventRecordCreated,
	EventRecordUpdated,
	EventStatusChanged,
	EventSeverityChanged,
	EventRecordReassigned,
	EventActivityAppended,
	EventAttachmentAppended,
}

// Event represents a committed mutation.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Variant   domain.Variant `json:"variant"`
	RecordID  string         `json:"record_id"`
	Actor     string         `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   interface{}    `json:"payload"`
}

// RecordCreatedPayload payload.
type RecordCreatedPayload struct {
	Title    string          `json:"title"`
	Status   domain.Status   `json:"status"`
	Severity domain.Severity `json:"severity"`
}

// RecordUpdatedPayload payload.
type RecordUpdatedPayload struct {
	Commands []string `json:"commands"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// SeverityChangedPayload payload.
type SeverityChangedPayload struct {
	OldSeverity domain.Severity `json:"old_severity"`
	NewSeverity domain.Severity `json:"new_severity"`
}

// ReassignedPayload payload.
type ReassignedPayload struct {
	OldAssignee  *string `json:"old_assignee,omitempty"`
	NewAssignee  string  `json:"new_assignee"`
	AssignedName *string `json:"assigned_name,omitempty"`
}

// ActivityAppendedPayload payload.
type ActivityAppendedPayload struct {
	ActivityID  string              `json:"activity_id"`
	Kind        domain.ActivityKind `json:"kind"`
	TextPreview string              `json:"text_preview"`
}

// AttachmentAppendedPayload payload.
type AttachmentAppendedPayload struct {
	AttachmentID string           `json:"attachment_id"`
	Filename     string           `json:"filename"`
	MediaKind    domain.MediaKind `json:"media_kind"`
}
