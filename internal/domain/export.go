package domain

// ExportRow is a single row in the itinerary export.
// It is a flat view of the grouped grid: one row per item, in display order,
// with the group name repeated for every item in the group.
//
// Attendees holds the IDs of attending members in roster order.
// Callers that need a joined string (e.g. CSV) should join with "|".
type ExportRow struct {
	Group     string
	Date      string
	Activity  string
	Status    string
	TimeOrder int
	Cost      float64
	Attendees []string
}
