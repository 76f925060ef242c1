// Package idgen produces human-readable record identifiers and sub-entity ids.
package idgen

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// SubEntityKind selects the sub-entity id prefix.
type SubEntityKind string

const (
	KindActivity   SubEntityKind = "act"
	KindAttachment SubEntityKind = "att"
)

// RecordID formats "<prefix>-<year>-<seq>" where seq is existingCount+1 padded to three
// digits. Counts past 999 simply widen.
func RecordID(prefix string, year, existingCount int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, existingCount+1)
}

// Generator hands out sub-entity ids that are unique for its lifetime.
type Generator struct {
	seq atomic.Uint64
}

// New returns a Generator starting at 1.
func New() *Generator {
	return &Generator{}
}

// NextRecordID is RecordID with the year taken from now.
func (g *Generator) NextRecordID(prefix string, now time.Time, existingCount int) string {
	return RecordID(prefix, now.Year(), existingCount)
}

// NextSubEntityID returns ids such as "act-12".
func (g *Generator) NextSubEntityID(kind SubEntityKind) string {
	return string(kind) + "-" + strconv.FormatUint(g.seq.Add(1), 10)
}

// Observe moves the counter to at least the numeric suffix of an existing sub-entity
// id, so ids loaded from elsewhere are never handed out again. Ids of another shape are
// ignored.
func (g *Generator) Observe(id string) {
	kind, num, ok := strings.Cut(id, "-")
	if !ok {
		return
	}
	switch SubEntityKind(kind) {
	case KindActivity, KindAttachment:
	default:
		return
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return
	}
	for {
		cur := g.seq.Load()
		if n <= cur || g.seq.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Reset restarts the sub-entity counter.
func (g *Generator) Reset() {
	g.seq.Store(0)
}
