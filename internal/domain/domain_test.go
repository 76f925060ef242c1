package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func validInput() domain.CreateInput {
	return domain.CreateInput{
		SubjectSystemID: "SYS-AUTH",
		Title:           "High latency in user authentication",
		Description:     "Logins take 30s",
		Severity:        domain.SeverityMedium,
		Category:        "Performance",
		Service:         "Latency",
	}
}

func newIncident(t *testing.T) domain.Record {
	t.Helper()
	spec := domain.MustSpec(domain.VariantIncident)
	in := validInput()
	require.NoError(t, in.Validate(spec))
	return domain.NewRecord(spec, "INC-2026-001", in, nil, t0)
}

func TestValidateReportsEveryField(t *testing.T) {
	spec := domain.MustSpec(domain.VariantIncident)
	in := domain.CreateInput{
		Title:       "   ",
		Description: "\t",
		Service:     "Latency",
		Telemetry: domain.Telemetry{
			AffectedUsers: ptr(-1),
			ErrorRate:     ptr(101.0),
			Environment:   ptr(domain.Environment("QA")),
		},
	}
	err := in.Validate(spec)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))
	assert.Equal(t, []string{
		"affected_users", "category", "description", "environment",
		"error_rate", "service", "severity", "subject_system_id", "title",
	}, errorutil.FieldNames(err))
}

func TestValidateRejectsForeignSeverity(t *testing.T) {
	in := validInput()
	in.Severity = domain.PriorityHaute
	err := in.Validate(domain.MustSpec(domain.VariantIncident))
	assert.Equal(t, []string{"severity"}, errorutil.FieldNames(err))
}

func TestNewRecordDefaults(t *testing.T) {
	rec := newIncident(t)
	assert.Equal(t, domain.StatusInvestigating, rec.Status)
	assert.Equal(t, "Authentication Service", rec.SubjectSystemName)
	assert.Equal(t, t0, rec.DetectedAt)
	assert.Equal(t, t0, rec.LastUpdate)
	assert.Empty(t, rec.Activities)
	assert.Empty(t, rec.Attachments)
	assert.Nil(t, rec.AssignedTo)
	assert.Nil(t, rec.AssignedName)
}

func TestNewRecordTicketStartsAssigne(t *testing.T) {
	spec := domain.MustSpec(domain.VariantTicket)
	in := domain.CreateInput{
		SubjectSystemID:   "CLI-042",
		SubjectSystemName: "Boulangerie Martin",
		Title:             "Imprimante en panne",
		Description:       "Bourrage papier",
		Severity:          domain.PriorityNormale,
		Category:          "Matériel",
		Service:           "Imprimante",
		AssignedTo:        ptr("2"),
	}
	require.NoError(t, in.Validate(spec))
	rec := domain.NewRecord(spec, "TKT-2026-001", in, ptr("Jordan Rivera"), t0)
	assert.Equal(t, domain.StatusAssigne, rec.Status)
	assert.Equal(t, "Jordan Rivera", *rec.AssignedName)
	assert.Equal(t, "2", *rec.AssignedTo)
}

func TestApplyIsAllOrNothing(t *testing.T) {
	rec := newIncident(t)
	before := rec.Clone()
	later := t0.Add(time.Minute)

	err := domain.Apply(&rec, later,
		domain.SetStatus{Status: domain.StatusResolved},
		domain.SetSeverity{Severity: "catastrophic"},
	)
	require.Error(t, err)
	assert.Equal(t, before, rec)

	require.NoError(t, domain.Apply(&rec, later,
		domain.SetStatus{Status: domain.StatusResolved},
		domain.SetSeverity{Severity: domain.SeverityCritical},
	))
	assert.Equal(t, domain.StatusResolved, rec.Status)
	assert.Equal(t, domain.SeverityCritical, rec.Severity)
	assert.Equal(t, later, rec.LastUpdate)
}

func TestApplyAllowsReopening(t *testing.T) {
	rec := newIncident(t)
	require.NoError(t, domain.Apply(&rec, t0, domain.SetStatus{Status: domain.StatusResolved}))
	require.NoError(t, domain.Apply(&rec, t0, domain.SetStatus{Status: domain.StatusActive}))
	assert.Equal(t, domain.StatusActive, rec.Status)
}

func TestApplyNeverMovesLastUpdateBackwards(t *testing.T) {
	rec := newIncident(t)
	require.NoError(t, domain.Apply(&rec, t0.Add(-time.Hour), domain.SetStatus{Status: domain.StatusActive}))
	assert.Equal(t, t0, rec.LastUpdate)
}

func TestSetClassificationClearsMismatchedService(t *testing.T) {
	rec := newIncident(t)
	require.NoError(t, domain.Apply(&rec, t0, domain.SetClassification{Category: "Security"}))
	assert.Equal(t, "Security", rec.Category)
	assert.Empty(t, rec.Service)

	err := domain.Apply(&rec, t0, domain.SetClassification{Category: "Security", Service: ptr("Latency")})
	assert.Equal(t, []string{"service"}, errorutil.FieldNames(err))

	require.NoError(t, domain.Apply(&rec, t0, domain.SetClassification{Category: "Security", Service: ptr("Audit")}))
	assert.Equal(t, "Audit", rec.Service)
}

func TestSetDetailsRejectsBlank(t *testing.T) {
	rec := newIncident(t)
	err := domain.Apply(&rec, t0, domain.SetDetails{Title: ptr("  ")})
	assert.True(t, errorutil.IsCode(err, errorutil.CodeEmptyInput))
}

func TestReassignWithUnresolvedName(t *testing.T) {
	rec := newIncident(t)
	require.NoError(t, domain.Apply(&rec, t0, domain.Reassign{OwnerID: "1", Name: ptr("Alex Chen")}))
	require.NoError(t, domain.Apply(&rec, t0, domain.Reassign{OwnerID: "99"}))
	assert.Equal(t, "99", *rec.AssignedTo)
	assert.Nil(t, rec.AssignedName)
}

func TestCommandNames(t *testing.T) {
	cmds := map[string]domain.Command{
		"set_status":            domain.SetStatus{Status: domain.StatusActive},
		"set_severity":          domain.SetSeverity{Severity: domain.SeverityHigh},
		"reassign":              domain.Reassign{OwnerID: "3", Name: ptr("Sam Taylor")},
		"refresh_assignee_name": domain.RefreshAssigneeName{Name: "Sam Taylor"},
		"set_telemetry":         domain.SetTelemetry{},
		"set_classification":    domain.SetClassification{},
		"set_details":           domain.SetDetails{},
	}
	for want, cmd := range cmds {
		assert.Equal(t, want, cmd.CommandName())
	}

	rec := newIncident(t)
	reassign := domain.Reassign{OwnerID: "3", Name: ptr("Sam Taylor")}
	require.NoError(t, domain.Apply(&rec, t0, reassign))
	assert.Equal(t, "Sam Taylor", *rec.AssignedName)
	*reassign.Name = "changed"
	assert.Equal(t, "Sam Taylor", *rec.AssignedName)
}

func TestRefreshAssigneeNameRequiresAssignment(t *testing.T) {
	rec := newIncident(t)
	assert.Error(t, domain.Apply(&rec, t0, domain.RefreshAssigneeName{Name: "Alex"}))
	require.NoError(t, domain.Apply(&rec, t0, domain.Reassign{OwnerID: "1", Name: ptr("Alex Chen")}))
	require.NoError(t, domain.Apply(&rec, t0, domain.RefreshAssigneeName{Name: "Alexandra Chen"}))
	assert.Equal(t, "Alexandra Chen", *rec.AssignedName)
}

func TestCloneDoesNotShareState(t *testing.T) {
	rec := newIncident(t)
	rec.AppendActivity("act-1", "Alex", "first", domain.ActivityComment, t0)
	rec.AffectedUsers = ptr(10)

	cp := rec.Clone()
	cp.Activities[0].Text = "changed"
	*cp.AffectedUsers = 20

	assert.Equal(t, "first", rec.Activities[0].Text)
	assert.Equal(t, 10, *rec.AffectedUsers)
}

func TestAppendActivityKeepsTimestampsMonotonic(t *testing.T) {
	rec := newIncident(t)
	first := rec.AppendActivity("act-1", "Alex", "one", domain.ActivityComment, t0.Add(time.Minute))
	second := rec.AppendActivity("act-2", "Alex", "two", domain.ActivityComment, t0)
	assert.False(t, second.Timestamp.Before(first.Timestamp))
	assert.Equal(t, t0.Add(time.Minute), rec.LastUpdate)
}

func TestClassifyMedia(t *testing.T) {
	cases := []struct {
		mime, name string
		want       domain.MediaKind
	}{
		{"image/png", "shot.png", domain.MediaScreenshot},
		{"IMAGE/JPEG; q=1", "x", domain.MediaScreenshot},
		{"text/plain", "app.log", domain.MediaLog},
		{"text/csv", "latency.csv", domain.MediaMetrics},
		{"application/pdf", "postmortem.pdf", domain.MediaDocument},
		{"", "", domain.MediaDocument},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.ClassifyMedia(tc.mime, tc.name), tc.mime)
	}
}
