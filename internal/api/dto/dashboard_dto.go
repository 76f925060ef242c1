package dto

import (
	"github.com/spec-kit/incident-center/internal/aggregate"
	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/service"
)

// RosterMemberResponse is one team member with their workload.
type RosterMemberResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Role               string              `json:"role"`
	Availability       domain.Availability `json:"availability"`
	ActiveRecordCount  int                 `json:"active_record_count"`
	AvgResponseMinutes int                 `json:"avg_response_minutes"`
	WorkloadPercent    int                 `json:"workload_percent"`
}

// NewRosterMemberResponse converts a roster member.
func NewRosterMemberResponse(m domain.RosterMember) RosterMemberResponse {
	return RosterMemberResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Role:               m.Role,
		Availability:       m.Availability,
		ActiveRecordCount:  m.ActiveRecordCount,
		AvgResponseMinutes: m.AvgResponseMinutes,
		WorkloadPercent:    aggregate.WorkloadPercent(m),
	}
}

// SummaryResponse holds the command-center metrics.
type SummaryResponse struct {
	Total                 int                     `json:"total"`
	Open                  int                     `json:"open"`
	CountsByStatus        map[domain.Status]int   `json:"counts_by_status"`
	CountsBySeverity      map[domain.Severity]int `json:"counts_by_severity"`
	TotalAffectedUsers    int                     `json:"total_affected_users"`
	AverageResponseTimeMs float64                 `json:"average_response_time_ms"`
	Team                  []RosterMemberResponse  `json:"team"`
}

// DashboardRecord is a condensed record row with its health grade.
type DashboardRecord struct {
	ID                string                `json:"id"`
	SubjectSystemName string                `json:"subject_system_name"`
	Title             string                `json:"title"`
	Status            domain.Status         `json:"status"`
	Severity          domain.Severity       `json:"severity"`
	AssignedName      *string               `json:"assigned_name"`
	AffectedUsers     *int                  `json:"affected_users,omitempty"`
	HealthScore       int                   `json:"health_score"`
	HealthLevel       aggregate.HealthLevel `json:"health_level"`
}

// DashboardResponse is the dashboard view.
type DashboardResponse struct {
	Summary SummaryResponse   `json:"summary"`
	Records []DashboardRecord `json:"records"`
}

// NewDashboardResponse converts a dashboard.
func NewDashboardResponse(d service.Dashboard) DashboardResponse {
	s := d.Summary
	resp := DashboardResponse{
		Summary: SummaryResponse{
			Total:                 s.Total,
			Open:                  s.Open,
			CountsByStatus:        s.CountsByStatus,
			CountsBySeverity:      s.CountsBySeverity,
			TotalAffectedUsers:    s.TotalAffectedUsers,
			AverageResponseTimeMs: s.AverageResponseTimeMs,
			Team:                  make([]RosterMemberResponse, 0, len(s.Team)),
		},
		Records: make([]DashboardRecord, 0, len(d.Records)),
	}
	for _, row := range s.Team {
		resp.Summary.Team = append(resp.Summary.Team, NewRosterMemberResponse(row.Member))
	}
	for _, row := range d.Records {
		resp.Records = append(resp.Records, DashboardRecord{
			ID:                row.Record.ID,
			SubjectSystemName: row.Record.SubjectSystemName,
			Title:             row.Record.Title,
			Status:            row.Record.Status,
			Severity:          row.Record.Severity,
			AssignedName:      row.Record.AssignedName,
			AffectedUsers:     row.Record.AffectedUsers,
			HealthScore:       row.Health.Score,
			HealthLevel:       row.Health.Level,
		})
	}
	return resp
}
