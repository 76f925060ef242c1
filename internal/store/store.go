// Package store is the authoritative in-memory collection of records for one variant.
//
// Writers to the same record id are serialised by a per-record mutex; every mutation runs
// on a private copy that is committed only when the whole operation succeeds. Readers get
// deep copies.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/idgen"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

// Store owns the records of a single variant.
type Store struct {
	spec  domain.VariantSpec
	clock func() time.Time
	ids   *idgen.Generator

	mu      sync.RWMutex
	order   []string
	records map[string]*entry
}

type entry struct {
	mu  sync.Mutex
	rec domain.Record
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates an empty store for variant.
func New(variant domain.Variant, opts ...Option) (*Store, error) {
	spec, ok := domain.SpecFor(variant)
	if !ok {
		return nil, errorutil.NewValidationError("unknown variant", map[string]any{"variant": string(variant)})
	}
	s := &Store{
		spec:    spec,
		clock:   time.Now,
		ids:     idgen.New(),
		records: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Variant returns the variant held by the store.
func (s *Store) Variant() domain.Variant {
	return s.spec.Variant
}

// Spec returns the variant enumerations.
func (s *Store) Spec() domain.VariantSpec {
	return s.spec
}

// Init replaces the store contents with seed, keeping seed order. Seeded "act-N" and
// "att-N" ids push the sub-entity counter forward.
func (s *Store) Init(seed []domain.Record) error {
	records := make(map[string]*entry, len(seed))
	order := make([]string, 0, len(seed))
	for i := range seed {
		rec := seed[i].Clone()
		if rec.Variant == "" {
			rec.Variant = s.spec.Variant
		}
		switch {
		case strings.TrimSpace(rec.ID) == "":
			return errorutil.NewValidationError("seed record without id", map[string]any{"index": i})
		case rec.Variant != s.spec.Variant:
			return errorutil.NewValidationError("seed record of another variant", map[string]any{"id": rec.ID, "variant": string(rec.Variant)})
		}
		if _, dup := records[rec.ID]; dup {
			return errorutil.NewValidationError("duplicate seed id", map[string]any{"id": rec.ID})
		}
		if rec.LastUpdate.Before(rec.DetectedAt) {
			rec.LastUpdate = rec.DetectedAt
		}
		records[rec.ID] = &entry{rec: rec}
		order = append(order, rec.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.order = order
	for _, e := range records {
		for _, a := range e.rec.Activities {
			s.ids.Observe(a.ID)
		}
		for _, a := range e.rec.Attachments {
			s.ids.Observe(a.ID)
		}
	}
	return nil
}

// Reset empties the store and restarts sub-entity ids.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*entry)
	s.order = nil
	s.ids.Reset()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Create validates in and inserts a new record. assignedName is the roster snapshot for
// in.AssignedTo, resolved by the caller.
func (s *Store) Create(in domain.CreateInput, assignedName *string) (domain.Record, error) {
	if err := in.Validate(s.spec); err != nil {
		return domain.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	count := len(s.order)
	id := s.ids.NextRecordID(s.spec.IDPrefix, now, count)
	for {
		if _, taken := s.records[id]; !taken {
			break
		}
		count++
		id = s.ids.NextRecordID(s.spec.IDPrefix, now, count)
	}
	rec := domain.NewRecord(s.spec, id, in, assignedName, now)
	s.records[id] = &entry{rec: rec}
	s.order = append(s.order, id)
	return rec.Clone(), nil
}

// Get returns a copy of the record with id.
func (s *Store) Get(id string) (domain.Record, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone(), nil
}

// List returns copies of all records in insertion order.
func (s *Store) List() []domain.Record {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.records[id])
	}
	s.mu.RUnlock()

	out := make([]domain.Record, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.rec.Clone())
		e.mu.Unlock()
	}
	return out
}

// Update applies cmds without writing to the ledger.
func (s *Store) Update(id string, cmds ...domain.Command) (domain.Record, error) {
	return s.mutate(id, func(rec *domain.Record, now time.Time) error {
		return domain.Apply(rec, now, cmds...)
	})
}

// Change is the outcome of a committed transition. Before is the record as it was
// when the writer took the record lock.
type Change struct {
	Before   domain.Record
	After    domain.Record
	Activity domain.Activity
}

// Transition applies cmd and appends one activity in the same commit.
func (s *Store) Transition(id string, cmd domain.Command, actor, text string, kind domain.ActivityKind) (Change, error) {
	var ch Change
	rec, err := s.mutate(id, func(rec *domain.Record, now time.Time) error {
		ch.Before = rec.Clone()
		if err := domain.Apply(rec, now, cmd); err != nil {
			return err
		}
		ch.Activity = rec.AppendActivity(s.ids.NextSubEntityID(idgen.KindActivity), actor, text, kind, now)
		return nil
	})
	if err != nil {
		return Change{}, err
	}
	ch.After = rec
	return ch, nil
}

// AppendActivity adds a ledger entry. kind defaults to comment.
func (s *Store) AppendActivity(id, actor, text string, kind domain.ActivityKind) (domain.Activity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Activity{}, errorutil.NewEmptyInput("text")
	}
	if kind == "" {
		kind = domain.ActivityComment
	}
	if !kind.Valid() {
		return domain.Activity{}, errorutil.NewValidationError("invalid activity", map[string]any{"kind": "unknown value " + string(kind)})
	}
	var appended domain.Activity
	_, err := s.mutate(id, func(rec *domain.Record, now time.Time) error {
		appended = rec.AppendActivity(s.ids.NextSubEntityID(idgen.KindActivity), actor, text, kind, now)
		return nil
	})
	if err != nil {
		return domain.Activity{}, err
	}
	return appended, nil
}

// AppendAttachment records an attachment descriptor.
func (s *Store) AppendAttachment(id string, desc domain.AttachmentDescriptor) (domain.Attachment, error) {
	fe := errorutil.FieldErrors{}
	if strings.TrimSpace(desc.Filename) == "" {
		fe.Add("filename", "required")
	}
	if strings.TrimSpace(desc.Locator) == "" {
		fe.Add("locator", "required")
	}
	if err := fe.Err(); err != nil {
		return domain.Attachment{}, err
	}
	var appended domain.Attachment
	_, err := s.mutate(id, func(rec *domain.Record, now time.Time) error {
		appended = rec.AppendAttachment(s.ids.NextSubEntityID(idgen.KindAttachment), desc, now)
		return nil
	})
	if err != nil {
		return domain.Attachment{}, err
	}
	return appended, nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.records[id]
	if !ok {
		return nil, errorutil.NewNotFound(string(s.spec.Variant), map[string]any{"id": id})
	}
	return e, nil
}

func (s *Store) mutate(id string, fn func(rec *domain.Record, now time.Time) error) (domain.Record, error) {
	e, err := s.lookup(id)
	if err != nil {
		return domain.Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.rec.Clone()
	if err := fn(&next, s.clock()); err != nil {
		return domain.Record{}, err
	}
	e.rec = next
	return next.Clone(), nil
}
