package domain

import "time"

// Variant selects which flavour of record a store holds.
type Variant string

const (
	VariantIncident Variant = "incident"
	VariantTicket   Variant = "ticket"
)

// Status enumerates lifecycle states. Valid values depend on the variant.
type Status string

const (
	StatusActive        Status = "active"
	StatusInvestigating Status = "investigating"
	StatusMonitoring    Status = "monitoring"
	StatusResolved      Status = "resolved"

	StatusUrgent  Status = "urgent"
	StatusEnCours Status = "en_cours"
	StatusAssigne Status = "assigne"
	StatusResolu  Status = "resolu"
)

// Severity enumerates urgency. Tickets call it priority.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"

	PriorityCritique Severity = "critique"
	PriorityHaute    Severity = "haute"
	PriorityNormale  Severity = "normale"
	PriorityBasse    Severity = "basse"
)

// Environment names the deployment an incident was observed in.
type Environment string

const (
	EnvironmentProduction  Environment = "Production"
	EnvironmentStaging     Environment = "Staging"
	EnvironmentDevelopment Environment = "Development"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	switch e {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentDevelopment:
		return true
	}
	return false
}

// Telemetry holds optional impact measurements. Nil means "not reported".
type Telemetry struct {
	AffectedUsers  *int
	ErrorRate      *float64
	ResponseTimeMs *int
	Environment    *Environment
}

// Record is the aggregate for incidents and tickets.
type Record struct {
	ID                string
	Variant           Variant
	SubjectSystemID   string
	SubjectSystemName string
	Title             string
	Description       string
	Status            Status
	Severity          Severity
	Category          string
	Service           string
	AssignedTo        *string
	AssignedName      *string
	DetectedAt        time.Time
	LastUpdate        time.Time
	Activities        []Activity
	Attachments       []Attachment
	Telemetry
}

// Clone returns a deep copy so callers never share slices or pointers with the store.
func (r Record) Clone() Record {
	out := r
	out.AssignedTo = cloneString(r.AssignedTo)
	out.AssignedName = cloneString(r.AssignedName)
	out.Activities = append([]Activity(nil), r.Activities...)
	out.Attachments = append([]Attachment(nil), r.Attachments...)
	if out.Activities == nil {
		out.Activities = []Activity{}
	}
	if out.Attachments == nil {
		out.Attachments = []Attachment{}
	}
	out.Telemetry = r.Telemetry.clone()
	return out
}

func (t Telemetry) clone() Telemetry {
	out := Telemetry{}
	if t.AffectedUsers != nil {
		v := *t.AffectedUsers
		out.AffectedUsers = &v
	}
	if t.ErrorRate != nil {
		v := *t.ErrorRate
		out.ErrorRate = &v
	}
	if t.ResponseTimeMs != nil {
		v := *t.ResponseTimeMs
		out.ResponseTimeMs = &v
	}
	if t.Environment != nil {
		v := *t.Environment
		out.Environment = &v
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// touch moves LastUpdate forward to now, never backwards and never before DetectedAt.
func (r *Record) touch(now time.Time) {
	if now.Before(r.LastUpdate) {
		now = r.LastUpdate
	}
	if now.Before(r.DetectedAt) {
		now = r.DetectedAt
	}
	r.LastUpdate = now
}
