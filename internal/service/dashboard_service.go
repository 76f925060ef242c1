package service

import (
	"context"

	"github.com/spec-kit/incident-center/internal/aggregate"
	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/repository"
	"github.com/spec-kit/incident-center/internal/store"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// RecordHealth pairs a record with its health grade.
type RecordHealth struct {
	Record domain.Record
	Health aggregate.Health
}

// Dashboard is the command-center view of one variant.
type Dashboard struct {
	Summary aggregate.Summary
	Records []RecordHealth
}

// DashboardService computes aggregates over a store snapshot.
type DashboardService struct {
	store  *store.Store
	roster repository.RosterRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(st *store.Store, roster repository.RosterRepository) *DashboardService {
	return &DashboardService{store: st, roster: roster}
}

// Dashboard summarises every record and grades the ones matching f.
func (d *DashboardService) Dashboard(ctx context.Context, f aggregate.Filter) (Dashboard, error) {
	team, err := d.Team(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	records := d.store.List()
	out := Dashboard{Summary: aggregate.Summarize(d.store.Spec(), records, team)}
	filtered := aggregate.Apply(records, f)
	out.Records = make([]RecordHealth, 0, len(filtered))
	for _, rec := range filtered {
		out.Records = append(out.Records, RecordHealth{Record: rec, Health: aggregate.HealthScore(rec)})
	}
	return out, nil
}

// Team lists the roster, empty when none is configured.
func (d *DashboardService) Team(ctx context.Context) ([]domain.RosterMember, error) {
	if d.roster == nil {
		return []domain.RosterMember{}, nil
	}
	members, err := d.roster.List(ctx)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return members, nil
}
