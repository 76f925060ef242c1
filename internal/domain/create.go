package domain

import (
	"strings"
	"time"

	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// CreateInput is the payload for a new record.
type CreateInput struct {
	SubjectSystemID   string
	SubjectSystemName string
	Title             string
	Description       string
	Severity          Severity
	Category          string
	Service           string
	AssignedTo        *string
	Telemetry
}

// Validate checks every field and reports all failures at once.
func (in CreateInput) Validate(spec VariantSpec) error {
	fe := errorutil.FieldErrors{}
	if strings.TrimSpace(in.SubjectSystemID) == "" {
		fe.Add("subject_system_id", "required")
	}
	if strings.TrimSpace(in.Category) == "" {
		fe.Add("category", "required")
	}
	if strings.TrimSpace(in.Title) == "" {
		fe.Add("title", "required")
	}
	if strings.TrimSpace(in.Description) == "" {
		fe.Add("description", "required")
	}
	switch {
	case in.Severity == "":
		fe.Add("severity", "required")
	case !spec.ValidSeverity(in.Severity):
		fe.Add("severity", "unknown value "+string(in.Severity))
	}
	if !spec.ServiceAllowed(strings.TrimSpace(in.Category), strings.TrimSpace(in.Service)) {
		fe.Add("service", "not offered by category "+in.Category)
	}
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) == "" {
		fe.Add("assigned_to", "must not be blank when present")
	}
	validateTelemetry(in.Telemetry, fe)
	return fe.Err()
}

func validateTelemetry(t Telemetry, fe errorutil.FieldErrors) {
	if t.AffectedUsers != nil && *t.AffectedUsers < 0 {
		fe.Add("affected_users", "must be >= 0")
	}
	if t.ErrorRate != nil && (*t.ErrorRate < 0 || *t.ErrorRate > 100) {
		fe.Add("error_rate", "must be within 0..100")
	}
	if t.ResponseTimeMs != nil && *t.ResponseTimeMs < 0 {
		fe.Add("response_time_ms", "must be >= 0")
	}
	if t.Environment != nil && !t.Environment.Valid() {
		fe.Add("environment", "must be Production, Staging or Development")
	}
}

// NewRecord builds a record from validated input. assignedName is the roster snapshot
// of the assignee's display name, nil when unassigned or unresolved.
func NewRecord(spec VariantSpec, id string, in CreateInput, assignedName *string, now time.Time) Record {
	systemID := strings.TrimSpace(in.SubjectSystemID)
	systemName := strings.TrimSpace(in.SubjectSystemName)
	if systemName == "" {
		if known, ok := spec.SystemName(systemID); ok {
			systemName = known
		} else {
			systemName = systemID
		}
	}
	var assignedTo *string
	if in.AssignedTo != nil {
		v := strings.TrimSpace(*in.AssignedTo)
		assignedTo = &v
	} else {
		assignedName = nil
	}
	rec := Record{
		ID:                id,
		Variant:           spec.Variant,
		SubjectSystemID:   systemID,
		SubjectSystemName: systemName,
		Title:             strings.TrimSpace(in.Title),
		Description:       strings.TrimSpace(in.Description),
		Status:            spec.InitialStatus,
		Severity:          in.Severity,
		Category:          strings.TrimSpace(in.Category),
		Service:           strings.TrimSpace(in.Service),
		AssignedTo:        assignedTo,
		AssignedName:      cloneString(assignedName),
		DetectedAt:        now,
		LastUpdate:        now,
		Activities:        []Activity{},
		Attachments:       []Attachment{},
		Telemetry:         in.Telemetry.clone(),
	}
	return rec
}
