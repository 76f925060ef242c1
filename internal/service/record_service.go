package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-center/internal/aggregate"
	"github.com/spec-kit/incident-center/internal/domain"
	"github.com/spec-kit/incident-center/internal/events"
	"github.com/spec-kit/incident-center/internal/observability"
	"github.com/spec-kit/incident-center/internal/repository"
	"github.com/spec-kit/incident-center/internal/store"
	"github.com/spec-kit/incident-center/pkg/util/errorutil"
)

const previewLength = 80

// RecordService is the command surface for one record variant.
type RecordService struct {
	store        *store.Store
	roster       repository.RosterRepository
	blobs        repository.BlobStore
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	defaultActor string
	maxBlobBytes int64
	now          func() time.Time
}

// RecordDependencies bundles collaborators for the record service.
type RecordDependencies struct {
	Store        *store.Store
	Roster       repository.RosterRepository
	Blobs        repository.BlobStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	DefaultActor string
	// MaxBlobBytes caps one upload; zero or less disables the check.
	MaxBlobBytes int64
}

// NewRecordService constructs the service.
func NewRecordService(deps RecordDependencies) *RecordService {
	actor := strings.TrimSpace(deps.DefaultActor)
	if actor == "" {
		actor = "Current User"
	}
	return &RecordService{
		store:        deps.Store,
		roster:       deps.Roster,
		blobs:        deps.Blobs,
		dispatcher:   deps.Dispatcher,
		logger:       observability.OrNop(deps.Logger),
		defaultActor: actor,
		maxBlobBytes: deps.MaxBlobBytes,
		now:          time.Now,
	}
}

// Variant reports which record variant this service manages.
func (s *RecordService) Variant() domain.Variant {
	return s.store.Variant()
}

// Spec returns the variant's enumerations and catalogs.
func (s *RecordService) Spec() domain.VariantSpec {
	return s.store.Spec()
}

// Create validates input, resolves the assignee's display name and stores a new record.
func (s *RecordService) Create(ctx context.Context, actor string, in domain.CreateInput) (domain.Record, error) {
	if err := in.Validate(s.store.Spec()); err != nil {
		return domain.Record{}, err
	}
	var name *string
	if in.AssignedTo != nil {
		var err error
		if name, err = s.resolveName(ctx, strings.TrimSpace(*in.AssignedTo)); err != nil {
			return domain.Record{}, err
		}
	}
	rec, err := s.store.Create(in, name)
	if err != nil {
		return domain.Record{}, err
	}
	s.publish(ctx, events.EventRecordCreated, rec.ID, actor, events.RecordCreatedPayload{
		Title:    rec.Title,
		Status:   rec.Status,
		Severity: rec.Severity,
	})
	return rec, nil
}

// Get returns a snapshot of one record.
func (s *RecordService) Get(_ context.Context, id string) (domain.Record, error) {
	return s.store.Get(id)
}

// List returns the records matching f in insertion order.
func (s *RecordService) List(_ context.Context, f aggregate.Filter) []domain.Record {
	return aggregate.Apply(s.store.List(), f)
}

// Update applies typed commands without writing to the ledger.
func (s *RecordService) Update(ctx context.Context, actor, id string, cmds ...domain.Command) (domain.Record, error) {
	if len(cmds) == 0 {
		return domain.Record{}, errorutil.NewValidationError("no changes requested", map[string]any{"commands": "required"})
	}
	rec, err := s.store.Update(id, cmds...)
	if err != nil {
		return domain.Record{}, err
	}
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, cmd.CommandName())
	}
	s.publish(ctx, events.EventRecordUpdated, rec.ID, actor, events.RecordUpdatedPayload{Commands: names})
	return rec, nil
}

// ChangeStatus sets the status and records an update activity.
func (s *RecordService) ChangeStatus(ctx context.Context, actor, id string, status domain.Status) (domain.Record, domain.Activity, error) {
	ch, err := s.store.ChangeStatus(id, status, s.actor(actor))
	if err != nil {
		return domain.Record{}, domain.Activity{}, err
	}
	s.publish(ctx, events.EventStatusChanged, id, actor, events.StatusChangedPayload{
		OldStatus: ch.Before.Status,
		NewStatus: ch.After.Status,
	})
	return ch.After, ch.Activity, nil
}

// ChangeSeverity sets the severity and records an escalation activity.
func (s *RecordService) ChangeSeverity(ctx context.Context, actor, id string, severity domain.Severity) (domain.Record, domain.Activity, error) {
	ch, err := s.store.ChangeSeverity(id, severity, s.actor(actor))
	if err != nil {
		return domain.Record{}, domain.Activity{}, err
	}
	s.publish(ctx, events.EventSeverityChanged, id, actor, events.SeverityChangedPayload{
		OldSeverity: ch.Before.Severity,
		NewSeverity: ch.After.Severity,
	})
	return ch.After, ch.Activity, nil
}

// Reassign points the record at ownerID. An id the roster does not know still assigns,
// leaving the display name unset.
func (s *RecordService) Reassign(ctx context.Context, actor, id, ownerID string) (domain.Record, domain.Activity, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return domain.Record{}, domain.Activity{}, errorutil.NewEmptyInput("assigned_to")
	}
	name, err := s.resolveName(ctx, ownerID)
	if err != nil {
		return domain.Record{}, domain.Activity{}, err
	}
	ch, err := s.store.Reassign(id, ownerID, name, s.actor(actor))
	if err != nil {
		return domain.Record{}, domain.Activity{}, err
	}
	s.publish(ctx, events.EventRecordReassigned, id, actor, events.ReassignedPayload{
		OldAssignee:  ch.Before.AssignedTo,
		NewAssignee:  ownerID,
		AssignedName: ch.After.AssignedName,
	})
	return ch.After, ch.Activity, nil
}

// AppendActivity adds a ledger entry. An empty kind defaults to comment.
func (s *RecordService) AppendActivity(ctx context.Context, actor, id, text string, kind domain.ActivityKind) (domain.Activity, error) {
	act, err := s.store.AppendActivity(id, s.actor(actor), text, kind)
	if err != nil {
		return domain.Activity{}, err
	}
	s.publish(ctx, events.EventActivityAppended, id, actor, events.ActivityAppendedPayload{
		ActivityID:  act.ID,
		Kind:        act.Kind,
		TextPreview: preview(act.Text),
	})
	return act, nil
}

// AppendAttachment records an attachment whose bytes are already stored elsewhere.
func (s *RecordService) AppendAttachment(ctx context.Context, actor, id string, desc domain.AttachmentDescriptor) (domain.Attachment, error) {
	if strings.TrimSpace(desc.UploadedBy) == "" {
		desc.UploadedBy = s.actor(actor)
	}
	att, err := s.store.AppendAttachment(id, desc)
	if err != nil {
		return domain.Attachment{}, err
	}
	s.publish(ctx, events.EventAttachmentAppended, id, actor, events.AttachmentAppendedPayload{
		AttachmentID: att.ID,
		Filename:     att.Filename,
		MediaKind:    att.MediaKind,
	})
	return att, nil
}

// UploadAttachment stores data in the blob store and appends its descriptor. A blob
// written by this call is removed again when the append fails.
func (s *RecordService) UploadAttachment(ctx context.Context, actor, id, filename, mimeType string, data []byte) (domain.Attachment, error) {
	if s.blobs == nil {
		return domain.Attachment{}, errorutil.NewInternalError(errors.New("blob storage not configured"))
	}
	fe := errorutil.FieldErrors{}
	if strings.TrimSpace(filename) == "" {
		fe.Add("filename", "required")
	}
	if len(data) == 0 {
		fe.Add("file", "required")
	} else if s.maxBlobBytes > 0 && int64(len(data)) > s.maxBlobBytes {
		fe.Add("file", "too large")
	}
	if err := fe.Err(); err != nil {
		return domain.Attachment{}, err
	}
	if _, err := s.store.Get(id); err != nil {
		return domain.Attachment{}, err
	}

	_, getErr := s.blobs.Get(ctx, repository.LocatorFor(data))
	existed := getErr == nil
	locator, err := s.blobs.Put(ctx, data, mimeType, filename)
	if err != nil {
		return domain.Attachment{}, errorutil.NewInternalError(err)
	}

	att, err := s.AppendAttachment(ctx, actor, id, domain.AttachmentDescriptor{
		Filename: filename,
		MimeType: mimeType,
		Locator:  locator,
	})
	if err != nil {
		if !existed {
			if delErr := s.blobs.Delete(ctx, locator); delErr != nil {
				s.logger.Warn("orphaned blob", zap.String("locator", locator), zap.Error(delErr))
			}
		}
		return domain.Attachment{}, err
	}
	return att, nil
}

// RefreshAssigneeNames rewrites stale assignee names from the roster without touching
// the ledger. It returns the number of records changed.
func (s *RecordService) RefreshAssigneeNames(ctx context.Context) (int, error) {
	refreshed := 0
	for _, rec := range s.store.List() {
		if rec.AssignedTo == nil {
			continue
		}
		name, err := s.resolveName(ctx, *rec.AssignedTo)
		if err != nil {
			return refreshed, err
		}
		if name == nil || (rec.AssignedName != nil && *rec.AssignedName == *name) {
			continue
		}
		if _, err := s.store.Update(rec.ID, domain.RefreshAssigneeName{Name: *name}); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	s.logger.Debug("assignee names refreshed",
		zap.String("variant", string(s.store.Variant())),
		zap.Int("count", refreshed))
	return refreshed, nil
}

func (s *RecordService) resolveName(ctx context.Context, ownerID string) (*string, error) {
	if s.roster == nil {
		return nil, nil
	}
	member, err := s.roster.GetByID(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	name := member.Name
	return &name, nil
}

func (s *RecordService) actor(actor string) string {
	if actor = strings.TrimSpace(actor); actor != "" {
		return actor
	}
	return s.defaultActor
}

func (s *RecordService) publish(ctx context.Context, eventType events.EventType, recordID, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Variant:   s.store.Variant(),
		RecordID:  recordID,
		Actor:     s.actor(actor),
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(eventType)),
			zap.String("record_id", recordID),
			zap.Error(err))
	}
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "…"
}
