package aggregate

import "github.com/spec-kit/incident-center/internal/domain"

// MemberWorkload is one roster row of the command-center view.
type MemberWorkload struct {
	Member          domain.RosterMember
	WorkloadPercent int
}

// Summary bundles the command-center metrics.
type Summary struct {
	Total                 int
	Open                  int
	CountsByStatus        map[domain.Status]int
	CountsBySeverity      map[domain.Severity]int
	TotalAffectedUsers    int
	AverageResponseTimeMs float64
	Team                  []MemberWorkload
}

// Summarize computes every dashboard metric. Each status of the variant is present in
// CountsByStatus, zero when unused.
func Summarize(spec domain.VariantSpec, records []domain.Record, roster []domain.RosterMember) Summary {
	byStatus := make(map[domain.Status]int, len(spec.Statuses))
	for _, status := range spec.Statuses {
		byStatus[status] = 0
	}
	for status, n := range CountByStatus(records) {
		byStatus[status] = n
	}
	bySeverity := make(map[domain.Severity]int, len(spec.Severities))
	for _, severity := range spec.Severities {
		bySeverity[severity] = 0
	}
	for severity, n := range CountBySeverity(records) {
		bySeverity[severity] = n
	}

	team := make([]MemberWorkload, 0, len(roster))
	for _, member := range roster {
		team = append(team, MemberWorkload{Member: member, WorkloadPercent: WorkloadPercent(member)})
	}

	return Summary{
		Total:                 len(records),
		Open:                  len(records) - byStatus[spec.ResolvedStatus],
		CountsByStatus:        byStatus,
		CountsBySeverity:      bySeverity,
		TotalAffectedUsers:    TotalAffectedUsers(records),
		AverageResponseTimeMs: AverageResponseTime(records),
		Team:                  team,
	}
}
