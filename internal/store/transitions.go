package store

import (
	"fmt"

	"github.com/spec-kit/incident-center/internal/domain"
)

// ChangeStatus sets the status and logs an update activity.
func (s *Store) ChangeStatus(id string, status domain.Status, actor string) (Change, error) {
	return s.Transition(id, domain.SetStatus{Status: status}, actor,
		fmt.Sprintf("Status changed to %s", status), domain.ActivityUpdate)
}

// ChangeSeverity sets the severity and logs an escalation activity.
func (s *Store) ChangeSeverity(id string, severity domain.Severity, actor string) (Change, error) {
	return s.Transition(id, domain.SetSeverity{Severity: severity}, actor,
		fmt.Sprintf("Severity changed to %s", severity), domain.ActivityEscalation)
}

// Reassign sets the owner and logs an update activity. name is the roster snapshot;
// when nil the activity falls back to the owner id.
func (s *Store) Reassign(id, ownerID string, name *string, actor string) (Change, error) {
	label := ownerID
	if name != nil {
		label = *name
	}
	return s.Transition(id, domain.Reassign{OwnerID: ownerID, Name: name}, actor,
		fmt.Sprintf("Reassigned to %s", label), domain.ActivityUpdate)
}
