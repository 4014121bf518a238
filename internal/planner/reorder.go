package planner

import (
	"github.com/google/uuid"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// TargetKind says what an item was dropped on.
type TargetKind int

const (
	// OnRow drops before or after another item.
	OnRow TargetKind = iota + 1
	// OnHeader drops at the end of a group.
	OnHeader
)

// Position is the side of the target row the item was dropped on.
type Position int

const (
	Before Position = iota
	After
)

// PositionFromOffset applies the vertical-midpoint rule: a drop in the upper
// half of a row of the given height lands before it, otherwise after it.
func PositionFromOffset(y, height float64) Position {
	if y < height/2 {
		return Before
	}
	return After
}

// DropTarget describes where a dragged item was released.
// ItemID and Position are used for OnRow; GroupKey for OnHeader.
type DropTarget struct {
	Kind     TargetKind
	ItemID   uuid.UUID
	Position Position
	GroupKey int
}

// DateUpdate moves an item into another group.
type DateUpdate struct {
	ID      uuid.UUID
	NewDate string
}

// OrderUpdate assigns a new in-group order.
type OrderUpdate struct {
	ID           uuid.UUID
	NewTimeOrder int
}

// Plan is the outcome of a drag-and-drop gesture. It must be committed as a
// single atomic batch.
type Plan struct {
	DateUpdate   *DateUpdate
	OrderUpdates []OrderUpdate
}

// IsEmpty reports whether the plan changes nothing.
func (p Plan) IsEmpty() bool {
	return p.DateUpdate == nil && len(p.OrderUpdates) == 0
}

// DocumentUpdates merges the plan into one update per document, in the order
// the documents first appear (date change first).
func (p Plan) DocumentUpdates() []domain.DocumentUpdate {
	var out []domain.DocumentUpdate
	index := map[uuid.UUID]int{}
	add := func(id uuid.UUID, f domain.FieldUpdate) {
		if i, ok := index[id]; ok {
			out[i].Fields = append(out[i].Fields, f)
			return
		}
		index[id] = len(out)
		out = append(out, domain.DocumentUpdate{ID: id, Fields: []domain.FieldUpdate{f}})
	}
	if p.DateUpdate != nil {
		add(p.DateUpdate.ID, domain.SetField{Field: domain.FieldDate, Value: p.DateUpdate.NewDate})
	}
	for _, o := range p.OrderUpdates {
		add(o.ID, domain.SetField{Field: domain.FieldTimeOrder, Value: o.NewTimeOrder})
	}
	return out
}

// ComputeReorder works out the updates for dropping draggedID on target.
//
// The target group is rebuilt in display order with the dragged item inserted
// at the drop position, then renumbered 1..n. Only items whose order actually
// changes get an OrderUpdate. A drop into a different group also changes the
// dragged item's date to the group's canonical date ("TBC" for the
// unscheduled group). Invalid drops yield an empty plan.
func (c Calendar) ComputeReorder(items []domain.ItineraryItem, draggedID uuid.UUID, target DropTarget) Plan {
	dragged, ok := find(items, draggedID)
	if !ok {
		return Plan{}
	}

	var targetKey int
	switch target.Kind {
	case OnRow:
		if target.ItemID == draggedID {
			return Plan{}
		}
		row, ok := find(items, target.ItemID)
		if !ok {
			return Plan{}
		}
		targetKey = c.Resolve(row.Date).SortKey
	case OnHeader:
		if !c.isGroupKey(target.GroupKey) {
			return Plan{}
		}
		targetKey = target.GroupKey
	default:
		return Plan{}
	}

	sourceKey := c.Resolve(dragged.Date).SortKey
	crossGroup := sourceKey != targetKey

	members := c.groupOf(items, targetKey)
	list := make([]domain.ItineraryItem, 0, len(members)+1)
	for _, it := range members {
		if it.ID != draggedID {
			list = append(list, it)
		}
	}

	insertAt := len(list)
	if target.Kind == OnRow {
		idx := indexOf(list, target.ItemID)
		if idx < 0 {
			return Plan{}
		}
		if target.Position == After {
			idx++
		}
		insertAt = idx
	}
	list = append(list[:insertAt], append([]domain.ItineraryItem{dragged}, list[insertAt:]...)...)

	var plan Plan
	if crossGroup {
		plan.DateUpdate = &DateUpdate{ID: draggedID, NewDate: c.CanonicalDate(targetKey)}
	}
	for pos, it := range list {
		order := pos + 1
		if it.TimeOrder != order {
			plan.OrderUpdates = append(plan.OrderUpdates, OrderUpdate{ID: it.ID, NewTimeOrder: order})
		}
	}
	return plan
}

// ApplyPlan returns a new snapshot with the plan applied. It is used to show a
// reorder before the store confirms it.
func ApplyPlan(items []domain.ItineraryItem, plan Plan) []domain.ItineraryItem {
	updates := map[uuid.UUID]domain.DocumentUpdate{}
	for _, u := range plan.DocumentUpdates() {
		updates[u.ID] = u
	}
	out := make([]domain.ItineraryItem, len(items))
	for i, it := range items {
		if u, ok := updates[it.ID]; ok {
			out[i] = u.ApplyTo(it)
		} else {
			out[i] = it
		}
	}
	return out
}

func find(items []domain.ItineraryItem, id uuid.UUID) (domain.ItineraryItem, bool) {
	if id == uuid.Nil {
		return domain.ItineraryItem{}, false
	}
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.ItineraryItem{}, false
}

func indexOf(items []domain.ItineraryItem, id uuid.UUID) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
