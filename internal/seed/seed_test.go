package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

func TestDemoData(t *testing.T) {
	data, err := Demo()
	require.NoError(t, err)

	require.Len(t, data.Roster, 4)
	assert.Equal(t, "Alex Chen", data.Roster[0].Name)
	assert.Equal(t, domain.AvailabilityBusy, data.Roster[2].Availability)

	require.Len(t, data.Incidents, 3)
	first := data.Incidents[0]
	assert.Equal(t, "INC-2024-001", first.ID)
	assert.Equal(t, domain.VariantIncident, first.Variant)
	assert.Equal(t, domain.StatusActive, first.Status)
	require.NotNil(t, first.AffectedUsers)
	assert.Equal(t, 12500, *first.AffectedUsers)
	require.Len(t, first.Activities, 1)
	assert.Equal(t, domain.ActivityEscalation, first.Activities[0].Kind)
	assert.NotNil(t, data.Incidents[2].Activities)

	require.Len(t, data.Tickets, 2)
	assert.Equal(t, domain.VariantTicket, data.Tickets[0].Variant)
	assert.Nil(t, data.Tickets[1].AssignedTo)
	assert.Equal(t, data.Tickets, data.Records(domain.VariantTicket))
}

func TestParseRejectsUnknownEnumerations(t *testing.T) {
	_, err := Parse([]byte(`
incidents:
  - id: INC-2024-009
    title: t
    description: d
    status: urgent
    severity: critical
    detected_at: 2024-01-15T11:00:00Z
`))
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))
	assert.Equal(t, []string{"status"}, errorutil.FieldNames(err))
}

func TestParseFillsSystemName(t *testing.T) {
	data, err := Parse([]byte(`
incidents:
  - id: INC-2024-010
    subject_system_id: SYS-DB
    title: Replica lag
    description: Replicas are minutes behind
    status: active
    severity: low
    detected_at: 2024-01-15T11:00:00Z
    assigned_name: Ghost
`))
	require.NoError(t, err)
	rec := data.Incidents[0]
	assert.Equal(t, "Database Cluster", rec.SubjectSystemName)
	assert.Nil(t, rec.AssignedName)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roster:\n  - id: x\n    name: Casey\n"), 0o600))

	data, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, data.Roster, 1)
	assert.Empty(t, data.Incidents)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("roster: [\n"), 0o600))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "decode seed")
}
