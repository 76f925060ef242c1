// Package aggregate derives dashboard metrics from a record snapshot. Every function is
// pure: nothing is cached and the input is never modified.
package aggregate

import (
	"strings"

	"github.com/spec-kit/incident-center/internal/domain"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Filter narrows a record list for display.
type Filter struct {
	SearchText   string
	StatusFilter string
}

// CountByStatus tallies records per status.
func CountByStatus(records []domain.Record) map[domain.Status]int {
	counts := make(map[domain.Status]int)
	for i := range records {
		counts[records[i].Status]++
	}
	return counts
}

// CountBySeverity tallies records per severity.
func CountBySeverity(records []domain.Record) map[domain.Severity]int {
	counts := make(map[domain.Severity]int)
	for i := range records {
		counts[records[i].Severity]++
	}
	return counts
}

// TotalAffectedUsers sums affected users over records that are not resolved.
func TotalAffectedUsers(records []domain.Record) int {
	total := 0
	for i := range records {
		rec := &records[i]
		if isResolved(rec) || rec.AffectedUsers == nil {
			continue
		}
		total += *rec.AffectedUsers
	}
	return total
}

// AverageResponseTime is the mean of ResponseTimeMs over records that report it, or 0
// when none do.
func AverageResponseTime(records []domain.Record) float64 {
	sum, n := 0, 0
	for i := range records {
		if records[i].ResponseTimeMs == nil {
			continue
		}
		sum += *records[i].ResponseTimeMs
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// Apply returns the records matching f, in input order.
func Apply(records []domain.Record, f Filter) []domain.Record {
	needle := strings.ToLower(strings.TrimSpace(f.SearchText))
	status := strings.TrimSpace(f.StatusFilter)
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		rec := &records[i]
		if status != "" && status != StatusAll && string(rec.Status) != status {
			continue
		}
		if needle != "" && !matches(rec, needle) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func matches(rec *domain.Record, needle string) bool {
	return strings.Contains(strings.ToLower(rec.Title), needle) ||
		strings.Contains(strings.ToLower(rec.SubjectSystemName), needle) ||
		strings.Contains(strings.ToLower(rec.Description), needle)
}

// WorkloadPercent is 25 points per active record. It is not capped, so a fifth
// assignment reports 125.
func WorkloadPercent(member domain.RosterMember) int {
	return member.ActiveRecordCount * 25
}

func isResolved(rec *domain.Record) bool {
	spec, ok := domain.SpecFor(rec.Variant)
	if !ok {
		return rec.Status == domain.StatusResolved || rec.Status == domain.StatusResolu
	}
	return rec.Status == spec.ResolvedStatus
}
