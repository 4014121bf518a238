package board

import (
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/planner"
)

// Grid is the itinerary table as the page draws it: a header row per date
// group followed by its items, with one attendance cell per family member.
type Grid struct {
	Version uint64                `json:"version"`
	Members []domain.FamilyMember `json:"members"`
	Groups  []GridGroup           `json:"groups"`
}

// GridGroup is one date section. Key is what a drop on the header sends back.
type GridGroup struct {
	Key  int       `json:"key"`
	Name string    `json:"name"`
	Rows []GridRow `json:"rows"`
}

// GridRow is one item plus its attendance cells in roster order.
type GridRow struct {
	Item  domain.ItineraryItem `json:"item"`
	Cells []Cell               `json:"cells"`
}

// Cell is one member's tick box on a row.
type Cell struct {
	MemberID  string `json:"member_id"`
	Attending bool   `json:"attending"`
}

// Render builds the grid for a snapshot.
func Render(cal planner.Calendar, roster domain.Roster, items []domain.ItineraryItem, version uint64) Grid {
	groups := cal.GroupAndOrder(items)
	g := Grid{
		Version: version,
		Members: roster,
		Groups:  make([]GridGroup, 0, len(groups)),
	}
	for _, grp := range groups {
		rows := make([]GridRow, 0, len(grp.Items))
		for _, it := range grp.Items {
			cells := make([]Cell, len(roster))
			for i, m := range roster {
				cells[i] = Cell{MemberID: m.ID, Attending: it.Attends(m.ID)}
			}
			rows = append(rows, GridRow{Item: it, Cells: cells})
		}
		g.Groups = append(g.Groups, GridGroup{Key: grp.Key, Name: grp.Name, Rows: rows})
	}
	return g
}

// Items returns the grid's items in display order.
func (g Grid) Items() []domain.ItineraryItem {
	var out []domain.ItineraryItem
	for _, grp := range g.Groups {
		for _, r := range grp.Rows {
			out = append(out, r.Item)
		}
	}
	return out
}
