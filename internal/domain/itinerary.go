// Package domain contains the core data types for the family trip planner.
// This package depends only on uuid and is imported by every other internal
// package (planner, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is a member's yes/no answer for one itinerary item.
type Attendance string

const (
	Attending    Attendance = "Y"
	NotAttending Attendance = "N"
)

// DateTBC is the date label of unscheduled items.
const DateTBC = "TBC"

// ItineraryItem is one planned activity in the shared itinerary grid.
//
// Date is free text ("Dec 22 (Arrival)", "TBC"); the group an item renders
// under is derived from it and never stored. TimeOrder orders items within
// their group; 0 means the item has not been placed yet.
type ItineraryItem struct {
	ID        uuid.UUID             `json:"id"`
	Date      string                `json:"date"`
	Activity  string                `json:"activity"`
	Status    string                `json:"status"`
	Attendees map[string]Attendance `json:"attendees"`
	TimeOrder int                   `json:"time_order"`
	Cost      float64               `json:"cost"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Attends reports whether the member is marked as attending.
func (i ItineraryItem) Attends(memberID string) bool {
	return i.Attendees[memberID] == Attending
}

// NewItineraryItem builds an unsaved item whose attendance covers the whole
// roster, derived from a loose list of names (see Roster.AttendanceFromText).
func NewItineraryItem(roster Roster, date, activity, status, attendeesText string, timeOrder int) ItineraryItem {
	return ItineraryItem{
		Date:      date,
		Activity:  activity,
		Status:    status,
		Attendees: roster.AttendanceFromText(attendeesText),
		TimeOrder: timeOrder,
	}
}
