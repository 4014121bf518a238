// Package planner holds the pure itinerary logic: resolving free-text date
// labels to group keys, grouping and ordering items for display, computing
// drag-and-drop reorders and turning cell edits into update commands.
//
// Nothing in this package performs I/O or keeps mutable state; every function
// takes a snapshot of items and returns new values.
package planner

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

const (
	// UnscheduledKey is the sort key of the TBC group. It sorts after every
	// calendar day.
	UnscheduledKey = 9999

	// UnscheduledName is the display name of the TBC group.
	UnscheduledName = "TBC / Future Ideas"

	// UnknownDateName is returned when a label has no recognisable date prefix.
	UnknownDateName = "Unknown Date"
)

// datePrefix matches the leading "Dec 22" / "Jan 1" part of a label.
var datePrefix = regexp.MustCompile(`^((?:Dec|Jan) \d{1,2})`)

// GroupKey is the derived grouping of a date label.
type GroupKey struct {
	SortKey int
	Name    string
}

// Calendar is the fixed table of trip days. It maps a canonical day label
// ("Dec 23") to an ascending sort key. A Calendar is immutable once built.
type Calendar struct {
	keys   map[string]int
	labels map[int]string
}

// NewCalendar builds the table for every day from first to last inclusive.
// Only the month and day of the arguments matter; last may fall in the
// following year.
//
// Keys encode trip order: month*100 + day, plus 1200 for each year boundary
// crossed, so Dec 31 (1231) sorts before Jan 1 (1301).
func NewCalendar(first, last time.Time) Calendar {
	c := Calendar{keys: map[string]int{}, labels: map[int]string{}}
	start := time.Date(2000, first.Month(), first.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(2000, last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(start) {
		end = end.AddDate(1, 0, 0)
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := (d.Year()-start.Year())*1200 + int(d.Month())*100 + d.Day()
		label := d.Format("Jan 2")
		c.keys[label] = key
		c.labels[key] = label
	}
	return c
}

// HolidayCalendar covers Dec 18 through Jan 2.
func HolidayCalendar() Calendar {
	return NewCalendar(
		time.Date(0, time.December, 18, 0, 0, 0, 0, time.UTC),
		time.Date(0, time.January, 2, 0, 0, 0, 0, time.UTC),
	)
}

// DecemberCalendar covers Dec 18 through Dec 31.
func DecemberCalendar() Calendar {
	return NewCalendar(
		time.Date(0, time.December, 18, 0, 0, 0, 0, time.UTC),
		time.Date(0, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
}

// Resolve maps a free-text date label to its group.
//
// Empty labels and "TBC" (any case) resolve to the unscheduled group. A label
// starting with a day in the table resolves to that day; the rest of the label
// ("(Arrival)") is ignored. Anything else also sorts last, named after the
// matched day prefix or UnknownDateName.
func (c Calendar) Resolve(label string) GroupKey {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, domain.DateTBC) {
		return GroupKey{SortKey: UnscheduledKey, Name: UnscheduledName}
	}
	m := datePrefix.FindStringSubmatch(label)
	if m == nil {
		return GroupKey{SortKey: UnscheduledKey, Name: UnknownDateName}
	}
	if key, ok := c.keys[m[1]]; ok {
		return GroupKey{SortKey: key, Name: m[1]}
	}
	return GroupKey{SortKey: UnscheduledKey, Name: m[1]}
}

// Label returns the canonical day label for a sort key. The unscheduled key
// and keys outside the table return UnscheduledName.
func (c Calendar) Label(key int) string {
	if l, ok := c.labels[key]; ok {
		return l
	}
	return UnscheduledName
}

// CanonicalDate is the value written to an item's date when it is moved into
// the group with the given key: the day label, or exactly "TBC".
func (c Calendar) CanonicalDate(key int) string {
	if l, ok := c.labels[key]; ok {
		return l
	}
	return domain.DateTBC
}

// isGroupKey reports whether key names a group that can exist: a day in the
// table or the unscheduled group.
func (c Calendar) isGroupKey(key int) bool {
	if key == UnscheduledKey {
		return true
	}
	_, ok := c.labels[key]
	return ok
}
