package domain

// Availability is a roster member's presence.
type Availability string

const (
	AvailabilityOnline      Availability = "online"
	AvailabilityBusy        Availability = "busy"
	AvailabilityOffline     Availability = "offline"
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// RosterMember is an assignable team member. The core reads it, never writes it.
type RosterMember struct {
	ID                 string
	Name               string
	Role               string
	Availability       Availability
	ActiveRecordCount  int
	AvgResponseMinutes int
}
