// Package seed loads initial records and roster members from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

//go:embed demo.yaml
var demoYAML []byte

// Data is a decoded seed file.
type Data struct {
	Roster    []domain.RosterMember
	Incidents []domain.Record
	Tickets   []domain.Record
}

// Records returns the seed records of variant v.
func (d *Data) Records(v domain.Variant) []domain.Record {
	if d == nil {
		return nil
	}
	if v == domain.VariantTicket {
		return d.Tickets
	}
	return d.Incidents
}

type file struct {
	Roster    []memberDoc `yaml:"roster"`
	Incidents []recordDoc `yaml:"incidents"`
	Tickets   []recordDoc `yaml:"tickets"`
}

type memberDoc struct {
	ID                 string `yaml:"id"`
	Name               string `yaml:"name"`
	Role               string `yaml:"role"`
	Availability       string `yaml:"availability"`
	ActiveRecordCount  int    `yaml:"active_record_count"`
	AvgResponseMinutes int    `yaml:"avg_response_minutes"`
}

type recordDoc struct {
	ID                string          `yaml:"id"`
	SubjectSystemID   string          `yaml:"subject_system_id"`
	SubjectSystemName string          `yaml:"subject_system_name"`
	Title             string          `yaml:"title"`
	Description       string          `yaml:"description"`
	Status            string          `yaml:"status"`
	Severity          string          `yaml:"severity"`
	Category          string          `yaml:"category"`
	Service           string          `yaml:"service"`
	AssignedTo        *string         `yaml:"assigned_to"`
	AssignedName      *string         `yaml:"assigned_name"`
	DetectedAt        time.Time       `yaml:"detected_at"`
	LastUpdate        time.Time       `yaml:"last_update"`
	AffectedUsers     *int            `yaml:"affected_users"`
	ErrorRate         *float64        `yaml:"error_rate"`
	ResponseTimeMs    *int            `yaml:"response_time_ms"`
	Environment       *string         `yaml:"environment"`
	Activities        []activityDoc   `yaml:"activities"`
	Attachments       []attachmentDoc `yaml:"attachments"`
}

type activityDoc struct {
	ID        string    `yaml:"id"`
	Actor     string    `yaml:"actor"`
	Timestamp time.Time `yaml:"timestamp"`
	Text      string    `yaml:"text"`
	Kind      string    `yaml:"kind"`
}

type attachmentDoc struct {
	ID         string    `yaml:"id"`
	Filename   string    `yaml:"filename"`
	MimeType   string    `yaml:"mime_type"`
	Locator    string    `yaml:"locator"`
	UploadedBy string    `yaml:"uploaded_by"`
	Timestamp  time.Time `yaml:"timestamp"`
}

// Demo returns the built-in demonstration data set.
func Demo() (*Data, error) {
	return Parse(demoYAML)
}

// LoadFile reads and decodes a seed file from disk.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates a YAML seed document.
func Parse(raw []byte) (*Data, error) {
	var doc file
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{
		Roster:    make([]domain.RosterMember, 0, len(doc.Roster)),
		Incidents: make([]domain.Record, 0, len(doc.Incidents)),
		Tickets:   make([]domain.Record, 0, len(doc.Tickets)),
	}
	for i, m := range doc.Roster {
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Name) == "" {
			return nil, errorutil.NewValidationError("roster member needs id and name", map[string]any{"index": i})
		}
		data.Roster = append(data.Roster, domain.RosterMember{
			ID:                 m.ID,
			Name:               m.Name,
			Role:               m.Role,
			Availability:       domain.Availability(m.Availability),
			ActiveRecordCount:  m.ActiveRecordCount,
			AvgResponseMinutes: m.AvgResponseMinutes,
		})
	}
	for _, d := range doc.Incidents {
		rec, err := d.toRecord(domain.MustSpec(domain.VariantIncident))
		if err != nil {
			return nil, err
		}
		data.Incidents = append(data.Incidents, rec)
	}
	for _, d := range doc.Tickets {
		rec, err := d.toRecord(domain.MustSpec(domain.VariantTicket))
		if err != nil {
			return nil, err
		}
		data.Tickets = append(data.Tickets, rec)
	}
	return data, nil
}

func (d recordDoc) toRecord(spec domain.VariantSpec) (domain.Record, error) {
	fe := errorutil.FieldErrors{}
	if strings.TrimSpace(d.ID) == "" {
		fe.Add("id", "required")
	}
	if strings.TrimSpace(d.Title) == "" {
		fe.Add("title", "required")
	}
	if strings.TrimSpace(d.Description) == "" {
		fe.Add("description", "required")
	}
	if !spec.ValidStatus(domain.Status(d.Status)) {
		fe.Add("status", "unknown value "+d.Status)
	}
	if !spec.ValidSeverity(domain.Severity(d.Severity)) {
		fe.Add("severity", "unknown value "+d.Severity)
	}
	if d.Service != "" && !spec.ServiceAllowed(d.Category, d.Service) {
		fe.Add("service", "not offered by category "+d.Category)
	}
	if d.DetectedAt.IsZero() {
		fe.Add("detected_at", "required")
	}
	var env *domain.Environment
	if d.Environment != nil {
		e := domain.Environment(*d.Environment)
		if !e.Valid() {
			fe.Add("environment", "unknown value "+*d.Environment)
		}
		env = &e
	}
	for _, a := range d.Activities {
		if !domain.ActivityKind(a.Kind).Valid() {
			fe.Add("activities", "unknown kind "+a.Kind)
		}
	}
	if err := fe.Err(); err != nil {
		return domain.Record{}, fmt.Errorf("%s record %q: %w", spec.Variant, d.ID, err)
	}

	assignedName := d.AssignedName
	if d.AssignedTo == nil {
		assignedName = nil
	}
	rec := domain.Record{
		ID:                d.ID,
		Variant:           spec.Variant,
		SubjectSystemID:   d.SubjectSystemID,
		SubjectSystemName: d.SubjectSystemName,
		Title:             d.Title,
		Description:       d.Description,
		Status:            domain.Status(d.Status),
		Severity:          domain.Severity(d.Severity),
		Category:          d.Category,
		Service:           d.Service,
		AssignedTo:        d.AssignedTo,
		AssignedName:      assignedName,
		DetectedAt:        d.DetectedAt,
		LastUpdate:        d.LastUpdate,
		Activities:        make([]domain.Activity, 0, len(d.Activities)),
		Attachments:       make([]domain.Attachment, 0, len(d.Attachments)),
		Telemetry: domain.Telemetry{
			AffectedUsers:  d.AffectedUsers,
			ErrorRate:      d.ErrorRate,
			ResponseTimeMs: d.ResponseTimeMs,
			Environment:    env,
		},
	}
	if rec.SubjectSystemName == "" {
		if name, ok := spec.SystemName(rec.SubjectSystemID); ok {
			rec.SubjectSystemName = name
		} else {
			rec.SubjectSystemName = rec.SubjectSystemID
		}
	}
	for _, a := range d.Activities {
		rec.Activities = append(rec.Activities, domain.Activity{
			ID:        a.ID,
			Actor:     a.Actor,
			Timestamp: a.Timestamp,
			Text:      a.Text,
			Kind:      domain.ActivityKind(a.Kind),
		})
	}
	for _, a := range d.Attachments {
		rec.Attachments = append(rec.Attachments, domain.Attachment{
			ID:         a.ID,
			Filename:   a.Filename,
			MimeType:   a.MimeType,
			MediaKind:  domain.ClassifyMedia(a.MimeType, a.Filename),
			Locator:    a.Locator,
			UploadedBy: a.UploadedBy,
			Timestamp:  a.Timestamp,
		})
	}
	return rec, nil
}
