package planner

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// Defaults for rows created with the add button.
const (
	NewRowActivity  = "New Idea / Reservation"
	NewRowStatus    = "Idea"
	NewRowAttendees = "Marc, Melissa"
)

// EditDate turns a typed date into an update. Blank input and "tbc" become
// "TBC"; anything else gets its first letter upper-cased. A changed date also
// resets TimeOrder to 0 so the item lands at the end of its new group.
// ok is false when the date is unchanged.
func EditDate(item domain.ItineraryItem, text string) (domain.DocumentUpdate, bool) {
	date := normalizeDate(text)
	if date == item.Date {
		return domain.DocumentUpdate{}, false
	}
	return domain.DocumentUpdate{
		ID: item.ID,
		Fields: []domain.FieldUpdate{
			domain.SetField{Field: domain.FieldDate, Value: date},
			domain.SetField{Field: domain.FieldTimeOrder, Value: 0},
		},
	}, true
}

// EditText replaces a free-text cell. Only activity and status are editable
// this way; dates go through EditDate.
func EditText(item domain.ItineraryItem, field domain.Field, value string) (domain.DocumentUpdate, bool, error) {
	value = strings.TrimSpace(value)
	var current string
	switch field {
	case domain.FieldActivity:
		current = item.Activity
	case domain.FieldStatus:
		current = item.Status
	default:
		return domain.DocumentUpdate{}, false, fmt.Errorf("%w: field %q is not editable as text", domain.ErrValidation, field)
	}
	if value == current {
		return domain.DocumentUpdate{}, false, nil
	}
	return domain.DocumentUpdate{
		ID:     item.ID,
		Fields: []domain.FieldUpdate{domain.SetField{Field: field, Value: value}},
	}, true, nil
}

// ToggleAttendance flips one member's Y/N mark.
func ToggleAttendance(item domain.ItineraryItem, memberID string, roster domain.Roster) (domain.DocumentUpdate, error) {
	if _, ok := roster.Lookup(memberID); !ok {
		return domain.DocumentUpdate{}, fmt.Errorf("%w: unknown family member %q", domain.ErrValidation, memberID)
	}
	next := domain.Attending
	if item.Attends(memberID) {
		next = domain.NotAttending
	}
	return domain.DocumentUpdate{
		ID:     item.ID,
		Fields: []domain.FieldUpdate{domain.SetAttendance{MemberID: memberID, Attendance: next}},
	}, nil
}

// NewRow builds the item created by the add button: an idea in the TBC group,
// placed after the group's current last item.
func (c Calendar) NewRow(items []domain.ItineraryItem, roster domain.Roster) domain.ItineraryItem {
	maxOrder := 0
	for _, it := range items {
		if c.Resolve(it.Date).SortKey == UnscheduledKey && it.TimeOrder > maxOrder {
			maxOrder = it.TimeOrder
		}
	}
	return domain.NewItineraryItem(roster, domain.DateTBC, NewRowActivity, NewRowStatus, NewRowAttendees, maxOrder+1)
}

func normalizeDate(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, domain.DateTBC) {
		return domain.DateTBC
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}
