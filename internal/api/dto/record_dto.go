package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/incident-center/internal/domain"
)

// TelemetryPayload carries optional impact measurements.
type TelemetryPayload struct {
	AffectedUsers  *int                `json:"affected_users,omitempty"`
	ErrorRate      *float64            `json:"error_rate,omitempty"`
	ResponseTimeMs *int                `json:"response_time_ms,omitempty"`
	Environment    *domain.Environment `json:"environment,omitempty"`
}

func (t TelemetryPayload) toDomain() domain.Telemetry {
	return domain.Telemetry{
		AffectedUsers:  t.AffectedUsers,
		ErrorRate:      t.ErrorRate,
		ResponseTimeMs: t.ResponseTimeMs,
		Environment:    t.Environment,
	}
}

func (t TelemetryPayload) empty() bool {
	return t.AffectedUsers == nil && t.ErrorRate == nil && t.ResponseTimeMs == nil && t.Environment == nil
}

// CreateRecordRequest payload.
type CreateRecordRequest struct {
	SubjectSystemID   string          `json:"subject_system_id"`
	SubjectSystemName string          `json:"subject_system_name"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Severity          domain.Severity `json:"severity"`
	Category          string          `json:"category"`
	Service           string          `json:"service"`
	AssignedTo        *string         `json:"assigned_to"`
	TelemetryPayload
}

// ToInput converts the request to a create input.
func (r CreateRecordRequest) ToInput() domain.CreateInput {
	return domain.CreateInput{
		SubjectSystemID:   r.SubjectSystemID,
		SubjectSystemName: r.SubjectSystemName,
		Title:             r.Title,
		Description:       r.Description,
		Severity:          r.Severity,
		Category:          r.Category,
		Service:           r.Service,
		AssignedTo:        r.AssignedTo,
		Telemetry:         r.TelemetryPayload.toDomain(),
	}
}

// UpdateRecordRequest is a silent edit. Absent fields are left alone.
type UpdateRecordRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Category    *string           `json:"category"`
	Service     *string           `json:"service"`
	Telemetry   *TelemetryPayload `json:"telemetry"`
}

// Commands translates the request. current supplies the category when only the service
// changes.
func (r UpdateRecordRequest) Commands(current domain.Record) []domain.Command {
	var cmds []domain.Command
	if r.Title != nil || r.Description != nil {
		cmds = append(cmds, domain.SetDetails{Title: r.Title, Description: r.Description})
	}
	if r.Category != nil || r.Service != nil {
		category := current.Category
		if r.Category != nil {
			category = strings.TrimSpace(*r.Category)
		}
		cmds = append(cmds, domain.SetClassification{Category: category, Service: r.Service})
	}
	if r.Telemetry != nil && !r.Telemetry.empty() {
		cmds = append(cmds, domain.SetTelemetry{Telemetry: r.Telemetry.toDomain()})
	}
	return cmds
}

// StatusRequest payload.
type StatusRequest struct {
	Status domain.Status `json:"status"`
}

// SeverityRequest payload. Tickets may send priority instead.
type SeverityRequest struct {
	Severity domain.Severity `json:"severity"`
	Priority domain.Severity `json:"priority"`
}

// Value returns whichever of severity or priority was sent.
func (r SeverityRequest) Value() domain.Severity {
	if r.Severity != "" {
		return r.Severity
	}
	return r.Priority
}

// AssigneeRequest payload.
type AssigneeRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// ActivityRequest payload.
type ActivityRequest struct {
	Text string              `json:"text"`
	Kind domain.ActivityKind `json:"kind"`
}

// AttachmentRequest describes bytes already stored elsewhere.
type AttachmentRequest struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mime_type"`
	Locator    string `json:"locator"`
	UploadedBy string `json:"uploaded_by"`
}

// ToDescriptor converts the request.
func (r AttachmentRequest) ToDescriptor() domain.AttachmentDescriptor {
	return domain.AttachmentDescriptor{
		Filename:   r.Filename,
		MimeType:   r.MimeType,
		Locator:    r.Locator,
		UploadedBy: r.UploadedBy,
	}
}

// ActivityResponse is one ledger entry.
type ActivityResponse struct {
	ID        string              `json:"id"`
	Actor     string              `json:"actor"`
	Timestamp time.Time           `json:"timestamp"`
	Text      string              `json:"text"`
	Kind      domain.ActivityKind `json:"kind"`
}

// AttachmentResponse is one attachment entry.
type AttachmentResponse struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	MimeType   string           `json:"mime_type,omitempty"`
	MediaKind  domain.MediaKind `json:"media_kind"`
	Locator    string           `json:"locator"`
	UploadedBy string           `json:"uploaded_by"`
	Timestamp  time.Time        `json:"timestamp"`
}

// RecordResponse is the full record view.
type RecordResponse struct {
	ID                string               `json:"id"`
	Variant           domain.Variant       `json:"variant"`
	SubjectSystemID   string               `json:"subject_system_id"`
	SubjectSystemName string               `json:"subject_system_name"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Status            domain.Status        `json:"status"`
	Severity          domain.Severity      `json:"severity"`
	Category          string               `json:"category"`
	Service           string               `json:"service,omitempty"`
	AssignedTo        *string              `json:"assigned_to"`
	AssignedName      *string              `json:"assigned_name"`
	DetectedAt        time.Time            `json:"detected_at"`
	LastUpdate        time.Time            `json:"last_update"`
	Activities        []ActivityResponse   `json:"activities"`
	Attachments       []AttachmentResponse `json:"attachments"`
	TelemetryPayload
}

// NewActivityResponse converts a ledger entry.
func NewActivityResponse(a domain.Activity) ActivityResponse {
	return ActivityResponse{ID: a.ID, Actor: a.Actor, Timestamp: a.Timestamp, Text: a.Text, Kind: a.Kind}
}

// NewAttachmentResponse converts an attachment entry.
func NewAttachmentResponse(a domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		Filename:   a.Filename,
		MimeType:   a.MimeType,
		MediaKind:  a.MediaKind,
		Locator:    a.Locator,
		UploadedBy: a.UploadedBy,
		Timestamp:  a.Timestamp,
	}
}

// NewRecordResponse converts a record snapshot.
func NewRecordResponse(r domain.Record) RecordResponse {
	resp := RecordResponse{
		ID:                r.ID,
		Variant:           r.Variant,
		SubjectSystemID:   r.SubjectSystemID,
		SubjectSystemName: r.SubjectSystemName,
		Title:             r.Title,
		Description:       r.Description,
		Status:            r.Status,
		Severity:          r.Severity,
		Category:          r.Category,
		Service:           r.Service,
		AssignedTo:        r.AssignedTo,
		AssignedName:      r.AssignedName,
		DetectedAt:        r.DetectedAt,
		LastUpdate:        r.LastUpdate,
		Activities:        make([]ActivityResponse, 0, len(r.Activities)),
		Attachments:       make([]AttachmentResponse, 0, len(r.Attachments)),
		TelemetryPayload: TelemetryPayload{
			AffectedUsers:  r.AffectedUsers,
			ErrorRate:      r.ErrorRate,
			ResponseTimeMs: r.ResponseTimeMs,
			Environment:    r.Environment,
		},
	}
	for _, a := range r.Activities {
		resp.Activities = append(resp.Activities, NewActivityResponse(a))
	}
	for _, a := range r.Attachments {
		resp.Attachments = append(resp.Attachments, NewAttachmentResponse(a))
	}
	return resp
}
