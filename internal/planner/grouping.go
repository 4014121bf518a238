package planner

import (
	"math"
	"slices"
	"sort"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// Group is one date section of the itinerary grid.
type Group struct {
	Key   int
	Name  string
	Items []domain.ItineraryItem
}

// GroupAndOrder partitions items into date groups ordered by sort key, with the
// unscheduled group last. Within a group items are ordered by TimeOrder; items
// with no order (0) come after every ordered item, in input order.
//
// The input slice is not modified.
func (c Calendar) GroupAndOrder(items []domain.ItineraryItem) []Group {
	byKey := map[int]*Group{}
	for _, it := range items {
		key := c.Resolve(it.Date).SortKey
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Name: c.groupName(key)}
			byKey[key] = g
		}
		g.Items = append(g.Items, it)
	}

	groups := make([]Group, 0, len(byKey))
	for _, g := range byKey {
		sort.SliceStable(g.Items, func(i, j int) bool {
			return rank(g.Items[i]) < rank(g.Items[j])
		})
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b Group) int { return a.Key - b.Key })
	return groups
}

// Flatten concatenates the groups back into a single display-ordered list.
func Flatten(groups []Group) []domain.ItineraryItem {
	var n int
	for _, g := range groups {
		n += len(g.Items)
	}
	out := make([]domain.ItineraryItem, 0, n)
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

// groupName is the header shown for a group. Unrecognised dates share the
// unscheduled key, so that group is always shown as the TBC group.
func (c Calendar) groupName(key int) string {
	if key == UnscheduledKey {
		return UnscheduledName
	}
	return c.Label(key)
}

// rank is the in-group sort value. Unordered items sort after ordered ones.
func rank(it domain.ItineraryItem) int {
	if it.TimeOrder <= 0 {
		return math.MaxInt
	}
	return it.TimeOrder
}

// groupOf returns the display-ordered members of the group with the given key.
func (c Calendar) groupOf(items []domain.ItineraryItem, key int) []domain.ItineraryItem {
	for _, g := range c.GroupAndOrder(items) {
		if g.Key == key {
			return g.Items
		}
	}
	return nil
}
