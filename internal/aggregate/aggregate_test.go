package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-center/internal/aggregate"
	"github.com/spec-kit/incident-center/internal/domain"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func incident(id string, status domain.Status, affected *int) domain.Record {
	return domain.Record{
		ID:        id,
		Variant:   domain.VariantIncident,
		Status:    status,
		Severity:  domain.SeverityHigh,
		Telemetry: domain.Telemetry{AffectedUsers: affected},
	}
}

func TestTotalAffectedUsersExcludesResolved(t *testing.T) {
	records := []domain.Record{
		incident("a", domain.StatusActive, intp(100)),
		incident("b", domain.StatusResolved, intp(900)),
	}
	assert.Equal(t, 100, aggregate.TotalAffectedUsers(records))
	assert.Equal(t, 0, aggregate.TotalAffectedUsers(records[1:]))
	assert.Equal(t, 0, aggregate.TotalAffectedUsers(nil))
}

func TestTotalAffectedUsersTicketResolu(t *testing.T) {
	records := []domain.Record{
		{Variant: domain.VariantTicket, Status: domain.StatusResolu, Telemetry: domain.Telemetry{AffectedUsers: intp(5)}},
		{Variant: domain.VariantTicket, Status: domain.StatusUrgent, Telemetry: domain.Telemetry{AffectedUsers: intp(7)}},
	}
	assert.Equal(t, 7, aggregate.TotalAffectedUsers(records))
}

func TestAverageResponseTime(t *testing.T) {
	assert.Zero(t, aggregate.AverageResponseTime(nil))
	assert.Zero(t, aggregate.AverageResponseTime([]domain.Record{incident("a", domain.StatusActive, nil)}))

	records := []domain.Record{
		{Telemetry: domain.Telemetry{ResponseTimeMs: intp(1000)}},
		{Telemetry: domain.Telemetry{ResponseTimeMs: intp(3000)}},
		{},
	}
	assert.Equal(t, 2000.0, aggregate.AverageResponseTime(records))
}

func TestCountByStatus(t *testing.T) {
	records := []domain.Record{
		incident("a", domain.StatusActive, nil),
		incident("b", domain.StatusActive, nil),
		incident("c", domain.StatusMonitoring, nil),
	}
	counts := aggregate.CountByStatus(records)
	assert.Equal(t, 2, counts[domain.StatusActive])
	assert.Equal(t, 1, counts[domain.StatusMonitoring])
	assert.Zero(t, counts[domain.StatusResolved])
}

func TestFilter(t *testing.T) {
	records := []domain.Record{
		{ID: "1", Title: "High latency in user authentication", Status: domain.StatusActive, SubjectSystemName: "Authentication Service"},
		{ID: "2", Title: "Transaction processing failures", Status: domain.StatusInvestigating, SubjectSystemName: "Payment Gateway"},
		{ID: "3", Title: "Email delivery delays", Status: domain.StatusMonitoring, Description: "AUTH relay refused"},
	}

	got := aggregate.Apply(records, aggregate.Filter{SearchText: "auth", StatusFilter: aggregate.StatusAll})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, aggregate.Apply(records, aggregate.Filter{SearchText: "zzz-no-match", StatusFilter: aggregate.StatusAll}))

	got = aggregate.Apply(records, aggregate.Filter{SearchText: "auth", StatusFilter: string(domain.StatusMonitoring)})
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got = aggregate.Apply(records, aggregate.Filter{SearchText: "PAYMENT"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Len(t, aggregate.Apply(records, aggregate.Filter{}), 3)
}

func TestWorkloadPercentIsUncapped(t *testing.T) {
	assert.Equal(t, 0, aggregate.WorkloadPercent(domain.RosterMember{}))
	assert.Equal(t, 75, aggregate.WorkloadPercent(domain.RosterMember{ActiveRecordCount: 3}))
	assert.Equal(t, 125, aggregate.WorkloadPercent(domain.RosterMember{ActiveRecordCount: 5}))
}

func TestHealthScore(t *testing.T) {
	cases := []struct {
		rate  *float64
		ms    *int
		score int
	}{
		{floatp(15.3), intp(32000), 25},
		{floatp(8.7), intp(15000), 50},
		{floatp(2.1), intp(8500), 75},
		{nil, nil, 95},
		{floatp(1), intp(16000), 50},
	}
	for _, tc := range cases {
		h := aggregate.HealthScore(domain.Record{Telemetry: domain.Telemetry{ErrorRate: tc.rate, ResponseTimeMs: tc.ms}})
		assert.Equal(t, tc.score, h.Score)
	}
}

func TestSummarize(t *testing.T) {
	spec := domain.MustSpec(domain.VariantIncident)
	records := []domain.Record{
		incident("a", domain.StatusActive, intp(12500)),
		incident("b", domain.StatusResolved, intp(800)),
	}
	records[0].ResponseTimeMs = intp(32000)
	roster := []domain.RosterMember{{ID: "1", Name: "Alex Chen", ActiveRecordCount: 3}}

	sum := aggregate.Summarize(spec, records, roster)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Open)
	assert.Equal(t, 1, sum.CountsByStatus[domain.StatusActive])
	assert.Contains(t, sum.CountsByStatus, domain.StatusMonitoring)
	assert.Equal(t, 2, sum.CountsBySeverity[domain.SeverityHigh])
	assert.Contains(t, sum.CountsBySeverity, domain.SeverityLow)
	assert.Equal(t, 12500, sum.TotalAffectedUsers)
	assert.Equal(t, 32000.0, sum.AverageResponseTimeMs)
	require.Len(t, sum.Team, 1)
	assert.Equal(t, 75, sum.Team[0].WorkloadPercent)
}
