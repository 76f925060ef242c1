package domain

import (
	"strings"
	"time"

	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// Command is one typed mutation of a record.
type Command interface {
	CommandName() string
	apply(spec VariantSpec, r *Record) error
}

// SetStatus moves the record to any status of its variant. No transition graph is enforced.
type SetStatus struct {
	Status Status
}

// SetSeverity changes severity (priority for tickets).
type SetSeverity struct {
	Severity Severity
}

// Reassign points the record at a roster member. Name is the roster snapshot and may be
// nil when the member id does not resolve.
type Reassign struct {
	OwnerID string
	Name    *string
}

// RefreshAssigneeName rewrites the denormalized assignee name without touching the owner.
type RefreshAssigneeName struct {
	Name string
}

// SetTelemetry overwrites the non-nil measurements.
type SetTelemetry struct {
	Telemetry
}

// SetClassification changes category and optionally service. With Service nil, a service
// that the new category does not offer is cleared.
type SetClassification struct {
	Category string
	Service  *string
}

// SetDetails edits title and/or description.
type SetDetails struct {
	Title       *string
	Description *string
}

func (SetStatus) CommandName() string           { return "set_status" }
func (SetSeverity) CommandName() string         { return "set_severity" }
func (Reassign) CommandName() string            { return "reassign" }
func (RefreshAssigneeName) CommandName() string { return "refresh_assignee_name" }
func (SetTelemetry) CommandName() string        { return "set_telemetry" }
func (SetClassification) CommandName() string   { return "set_classification" }
func (SetDetails) CommandName() string          { return "set_details" }

// Apply runs cmds against r in order. Either all commands succeed and LastUpdate is
// refreshed to now, or r is left untouched and the first error is returned.
func Apply(r *Record, now time.Time, cmds ...Command) error {
	spec, ok := SpecFor(r.Variant)
	if !ok {
		return errorutil.NewValidationError("unknown record variant", map[string]any{"variant": string(r.Variant)})
	}
	if len(cmds) == 0 {
		return errorutil.NewValidationError("no changes requested", nil)
	}
	next := r.Clone()
	for _, cmd := range cmds {
		if cmd == nil {
			return errorutil.NewValidationError("nil command", nil)
		}
		if err := cmd.apply(spec, &next); err != nil {
			return err
		}
	}
	next.touch(now)
	*r = next
	return nil
}

func (c SetStatus) apply(spec VariantSpec, r *Record) error {
	if !spec.ValidStatus(c.Status) {
		return errorutil.NewValidationError("invalid status", map[string]any{"status": "unknown value " + string(c.Status)})
	}
	r.Status = c.Status
	return nil
}

func (c SetSeverity) apply(spec VariantSpec, r *Record) error {
	if !spec.ValidSeverity(c.Severity) {
		return errorutil.NewValidationError("invalid severity", map[string]any{"severity": "unknown value " + string(c.Severity)})
	}
	r.Severity = c.Severity
	return nil
}

func (c Reassign) apply(_ VariantSpec, r *Record) error {
	owner := strings.TrimSpace(c.OwnerID)
	if owner == "" {
		return errorutil.NewValidationError("invalid assignee", map[string]any{"assigned_to": "required"})
	}
	r.AssignedTo = &owner
	r.AssignedName = cloneString(c.Name)
	return nil
}

func (c RefreshAssigneeName) apply(_ VariantSpec, r *Record) error {
	if r.AssignedTo == nil {
		return errorutil.NewValidationError("record is unassigned", map[string]any{"assigned_to": "required"})
	}
	name := c.Name
	r.AssignedName = &name
	return nil
}

func (c SetTelemetry) apply(_ VariantSpec, r *Record) error {
	fe := errorutil.FieldErrors{}
	validateTelemetry(c.Telemetry, fe)
	if err := fe.Err(); err != nil {
		return err
	}
	t := c.Telemetry.clone()
	if t.AffectedUsers != nil {
		r.AffectedUsers = t.AffectedUsers
	}
	if t.ErrorRate != nil {
		r.ErrorRate = t.ErrorRate
	}
	if t.ResponseTimeMs != nil {
		r.ResponseTimeMs = t.ResponseTimeMs
	}
	if t.Environment != nil {
		r.Environment = t.Environment
	}
	return nil
}

func (c SetClassification) apply(spec VariantSpec, r *Record) error {
	category := strings.TrimSpace(c.Category)
	if category == "" {
		return errorutil.NewValidationError("invalid classification", map[string]any{"category": "required"})
	}
	service := r.Service
	if c.Service != nil {
		service = strings.TrimSpace(*c.Service)
		if !spec.ServiceAllowed(category, service) {
			return errorutil.NewValidationError("invalid classification", map[string]any{"service": "not offered by category " + category})
		}
	} else if !spec.ServiceAllowed(category, service) {
		service = ""
	}
	r.Category = category
	r.Service = service
	return nil
}

func (c SetDetails) apply(_ VariantSpec, r *Record) error {
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title == "" {
			return errorutil.NewEmptyInput("title")
		}
		r.Title = title
	}
	if c.Description != nil {
		description := strings.TrimSpace(*c.Description)
		if description == "" {
			return errorutil.NewEmptyInput("description")
		}
		r.Description = description
	}
	return nil
}
