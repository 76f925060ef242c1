package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-center/internal/domain"
)

// RosterRepository reads the external team roster.
type RosterRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RosterMember, error)
	List(ctx context.Context) ([]domain.RosterMember, error)
}

type postgresRoster struct {
	pool *pgxpool.Pool
}

// NewPostgresRoster reads roster_members through pool.
func NewPostgresRoster(pool *pgxpool.Pool) RosterRepository {
	return &postgresRoster{pool: pool}
}

func (r *postgresRoster) GetByID(ctx context.Context, id string) (*domain.RosterMember, error) {
	const query = `
        SELECT id, name, role, availability, active_record_count, avg_response_minutes
        FROM roster_members WHERE id=$1`

	var member domain.RosterMember
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.Role,
		&member.Availability,
		&member.ActiveRecordCount,
		&member.AvgResponseMinutes,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *postgresRoster) List(ctx context.Context) ([]domain.RosterMember, error) {
	const query = `
        SELECT id, name, role, availability, active_record_count, avg_response_minutes
        FROM roster_members ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RosterMember
	for rows.Next() {
		var member domain.RosterMember
		if err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Role,
			&member.Availability,
			&member.ActiveRecordCount,
			&member.AvgResponseMinutes,
		); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

// MemoryRoster is an in-process roster, used when no database is configured.
type MemoryRoster struct {
	mu      sync.RWMutex
	order   []string
	members map[string]domain.RosterMember
}

// NewMemoryRoster seeds a roster with members in the given order.
func NewMemoryRoster(members []domain.RosterMember) *MemoryRoster {
	r := &MemoryRoster{members: make(map[string]domain.RosterMember, len(members))}
	for _, m := range members {
		r.Put(m)
	}
	return r
}

// Put inserts or replaces a member.
func (r *MemoryRoster) Put(member domain.RosterMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.members[member.ID]; !exists {
		r.order = append(r.order, member.ID)
	}
	r.members[member.ID] = member
}

func (r *MemoryRoster) GetByID(_ context.Context, id string) (*domain.RosterMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &member, nil
}

func (r *MemoryRoster) List(_ context.Context) ([]domain.RosterMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.RosterMember, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.members[id])
	}
	return out, nil
}
