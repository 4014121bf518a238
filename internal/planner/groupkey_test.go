package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/family-trip-planner/internal/planner"
)

func TestResolve_Unscheduled(t *testing.T) {
	cal := planner.HolidayCalendar()

	for _, label := range []string{"TBC", "tbc", "Tbc", "", "   ", "  TBC  "} {
		got := cal.Resolve(label)
		assert.Equal(t, planner.UnscheduledKey, got.SortKey, "label %q", label)
		assert.Equal(t, "TBC / Future Ideas", got.Name, "label %q", label)
	}
}

func TestResolve_DayOrder(t *testing.T) {
	cal := planner.HolidayCalendar()

	dec23 := cal.Resolve("Dec 23").SortKey
	dec25 := cal.Resolve("Dec 25").SortKey
	jan1 := cal.Resolve("Jan 1").SortKey
	tbc := cal.Resolve("TBC").SortKey

	assert.Less(t, dec23, dec25)
	assert.Less(t, dec25, jan1)
	assert.Less(t, jan1, tbc)
	assert.Equal(t, 1218, cal.Resolve("Dec 18").SortKey)
	assert.Equal(t, 1302, cal.Resolve("Jan 2").SortKey)
}

func TestResolve_IgnoresSuffix(t *testing.T) {
	cal := planner.HolidayCalendar()

	plain := cal.Resolve("Dec 22")
	decorated := cal.Resolve("Dec 22 (Arrival)")

	assert.Equal(t, plain.SortKey, decorated.SortKey)
	assert.Equal(t, "Dec 22", decorated.Name, "name comes from the matched day, not the full label")
}

func TestResolve_OutsideTable(t *testing.T) {
	cal := planner.HolidayCalendar()

	got := cal.Resolve("Dec 5")

	assert.Equal(t, planner.UnscheduledKey, got.SortKey)
	assert.Equal(t, "Dec 5", got.Name)
}

func TestResolve_NoDatePrefix(t *testing.T) {
	cal := planner.HolidayCalendar()

	for _, label := range []string{"Christmas Eve", "December 24", "dec 24", "24 Dec"} {
		got := cal.Resolve(label)
		assert.Equal(t, planner.UnscheduledKey, got.SortKey, "label %q", label)
		assert.Equal(t, planner.UnknownDateName, got.Name, "label %q", label)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	cal := planner.HolidayCalendar()

	assert.Equal(t, cal.Resolve("Dec 24 (Eve)"), cal.Resolve("Dec 24 (Eve)"))
}

func TestDecemberCalendar_StopsAtNewYearsEve(t *testing.T) {
	cal := planner.DecemberCalendar()

	assert.Equal(t, 1231, cal.Resolve("Dec 31").SortKey)
	assert.Equal(t, planner.UnscheduledKey, cal.Resolve("Jan 1").SortKey)
	assert.Equal(t, "Jan 1", cal.Resolve("Jan 1").Name)
}

func TestCalendar_LabelAndCanonicalDate(t *testing.T) {
	cal := planner.HolidayCalendar()

	assert.Equal(t, "Dec 23", cal.Label(1223))
	assert.Equal(t, "Jan 1", cal.Label(1301))
	assert.Equal(t, planner.UnscheduledName, cal.Label(planner.UnscheduledKey))

	assert.Equal(t, "Dec 23", cal.CanonicalDate(1223))
	assert.Equal(t, "TBC", cal.CanonicalDate(planner.UnscheduledKey))
}

func TestPositionFromOffset(t *testing.T) {
	assert.Equal(t, planner.Before, planner.PositionFromOffset(4, 20))
	assert.Equal(t, planner.After, planner.PositionFromOffset(10, 20))
	assert.Equal(t, planner.After, planner.PositionFromOffset(19, 20))
}
