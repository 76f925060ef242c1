package domain

import (
	"strings"
	"time"
)

// ActivityKind classifies ledger entries.
type ActivityKind string

const (
	ActivityUpdate     ActivityKind = "update"
	ActivityEscalation ActivityKind = "escalation"
	ActivityComment    ActivityKind = "comment"
	ActivityResolution ActivityKind = "resolution"
)

// Valid reports whether k is a known activity kind.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityUpdate, ActivityEscalation, ActivityComment, ActivityResolution:
		return true
	}
	return false
}

// Activity is an immutable ledger entry.
type Activity struct {
	ID        string
	Actor     string
	Timestamp time.Time
	Text      string
	Kind      ActivityKind
}

// MediaKind classifies uploaded evidence.
type MediaKind string

const (
	MediaScreenshot MediaKind = "screenshot"
	MediaDocument   MediaKind = "document"
	MediaLog        MediaKind = "log"
	MediaMetrics    MediaKind = "metrics"
)

// Attachment describes uploaded evidence. The bytes live behind Locator.
type Attachment struct {
	ID         string
	Filename   string
	MimeType   string
	MediaKind  MediaKind
	Locator    string
	UploadedBy string
	Timestamp  time.Time
}

// AttachmentDescriptor is what callers hand over when attaching evidence.
type AttachmentDescriptor struct {
	Filename   string
	MimeType   string
	Locator    string
	UploadedBy string
}

// ClassifyMedia derives the media kind from a declared MIME type. Only image/* is
// decided by the type family; log and metrics files are recognised by convention.
func ClassifyMedia(mimeType, filename string) MediaKind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	name := strings.ToLower(filename)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return MediaScreenshot
	case mt == "text/x-log" || strings.HasSuffix(name, ".log"):
		return MediaLog
	case mt == "text/csv" || mt == "application/openmetrics-text" || strings.HasSuffix(name, ".prom"):
		return MediaMetrics
	default:
		return MediaDocument
	}
}

// lastActivityAt returns the timestamp of the newest ledger entry.
func (r *Record) lastActivityAt() time.Time {
	if len(r.Activities) == 0 {
		return time.Time{}
	}
	return r.Activities[len(r.Activities)-1].Timestamp
}

// AppendActivity adds an entry to the ledger and refreshes LastUpdate. Text must already
// be validated; the timestamp never goes backwards within one record.
func (r *Record) AppendActivity(id, actor, text string, kind ActivityKind, now time.Time) Activity {
	if last := r.lastActivityAt(); now.Before(last) {
		now = last
	}
	entry := Activity{ID: id, Actor: actor, Timestamp: now, Text: text, Kind: kind}
	r.Activities = append(r.Activities, entry)
	r.touch(now)
	return entry
}

// AppendAttachment adds an attachment entry and refreshes LastUpdate.
func (r *Record) AppendAttachment(id string, desc AttachmentDescriptor, now time.Time) Attachment {
	entry := Attachment{
		ID:         id,
		Filename:   desc.Filename,
		MimeType:   desc.MimeType,
		MediaKind:  ClassifyMedia(desc.MimeType, desc.Filename),
		Locator:    desc.Locator,
		UploadedBy: desc.UploadedBy,
		Timestamp:  now,
	}
	r.Attachments = append(r.Attachments, entry)
	r.touch(now)
	return entry
}
