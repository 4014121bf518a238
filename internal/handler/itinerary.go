package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/planner"
)

// EditItemRequest is the body of PATCH /itinerary/{id}. Exactly one field
// must be set, mirroring a single cell edit.
type EditItemRequest struct {
	Activity *string `json:"activity,omitempty"`
	Status   *string `json:"status,omitempty"`
	Date     *string `json:"date,omitempty"`
}

// DropTargetRequest describes where a dragged row was released. Kind is
// "row" or "header". For rows, Position ("before"/"after") may be replaced
// by the pointer offset within the row (OffsetY, RowHeight).
type DropTargetRequest struct {
	Kind      string    `json:"kind"`
	ItemID    uuid.UUID `json:"item_id,omitempty"`
	Position  string    `json:"position,omitempty"`
	OffsetY   *float64  `json:"offset_y,omitempty"`
	RowHeight *float64  `json:"row_height,omitempty"`
	GroupKey  int       `json:"group_key,omitempty"`
}

// ReorderRequest is the body of POST /itinerary/reorder.
type ReorderRequest struct {
	DraggedID uuid.UUID         `json:"dragged_id"`
	Target    DropTargetRequest `json:"target"`
}

// ReorderResponse reports the writes a drop produced. An empty response
// means the drop was a no-op.
type ReorderResponse struct {
	DateUpdate   *DateUpdate   `json:"date_update"`
	OrderUpdates []OrderUpdate `json:"order_updates"`
}

// DateUpdate is a group change in a ReorderResponse.
type DateUpdate struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date"`
}

// OrderUpdate is an in-group position change in a ReorderResponse.
type OrderUpdate struct {
	ID        uuid.UUID `json:"id"`
	TimeOrder int       `json:"time_order"`
}

// listMembers handles GET /members.
func (s *Server) listMembers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.itinerary.Members())
}

// getItinerary handles GET /itinerary.
func (s *Server) getItinerary(w http.ResponseWriter, r *http.Request) {
	g, err := s.itinerary.Grid(r.Context())
	if err != nil {
		s.respondError(w, r, err, "itinerary not found")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// addItineraryItem handles POST /itinerary.
func (s *Server) addItineraryItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.itinerary.Add(r.Context())
	if err != nil {
		s.respondError(w, r, err, "itinerary not found")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// editItineraryItem handles PATCH /itinerary/{id}.
func (s *Server) editItineraryItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	var body EditItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	if countSet(body) != 1 {
		badRequest(w, "exactly one of activity, status or date must be set")
		return
	}

	var item domain.ItineraryItem
	ctx := r.Context()
	switch {
	case body.Activity != nil:
		item, err = s.itinerary.EditText(ctx, id, domain.FieldActivity, *body.Activity)
	case body.Status != nil:
		item, err = s.itinerary.EditText(ctx, id, domain.FieldStatus, *body.Status)
	default:
		item, err = s.itinerary.EditDate(ctx, id, *body.Date)
	}
	if err != nil {
		s.respondError(w, r, err, "itinerary item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// toggleAttendance handles POST /itinerary/{id}/attendance/{memberId}.
func (s *Server) toggleAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		badRequest(w, "invalid item id")
		return
	}
	memberID, err := pathString(r, "memberId")
	if err != nil {
		badRequest(w, "invalid member id")
		return
	}
	item, err := s.itinerary.ToggleAttendance(r.Context(), id, memberID)
	if err != nil {
		s.respondError(w, r, err, "itinerary item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// reorderItinerary handles POST /itinerary/reorder.
func (s *Server) reorderItinerary(w http.ResponseWriter, r *http.Request) {
	var body ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	target, ok := toDropTarget(body.Target)
	if !ok {
		badRequest(w, "target kind must be row or header")
		return
	}

	plan, err := s.itinerary.Reorder(r.Context(), body.DraggedID, target)
	if err != nil {
		s.respondError(w, r, err, "itinerary item not found")
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(plan))
}

// --- mapping helpers --------------------------------------------------------

func countSet(b EditItemRequest) int {
	n := 0
	for _, p := range []*string{b.Activity, b.Status, b.Date} {
		if p != nil {
			n++
		}
	}
	return n
}

func toDropTarget(t DropTargetRequest) (planner.DropTarget, bool) {
	switch t.Kind {
	case "header":
		return planner.DropTarget{Kind: planner.OnHeader, GroupKey: t.GroupKey}, true
	case "row":
		pos := planner.Before
		switch {
		case t.Position == "after":
			pos = planner.After
		case t.Position == "" && t.OffsetY != nil && t.RowHeight != nil:
			pos = planner.PositionFromOffset(*t.OffsetY, *t.RowHeight)
		}
		return planner.DropTarget{Kind: planner.OnRow, ItemID: t.ItemID, Position: pos}, true
	}
	return planner.DropTarget{}, false
}

func planToResponse(p planner.Plan) ReorderResponse {
	resp := ReorderResponse{OrderUpdates: make([]OrderUpdate, 0, len(p.OrderUpdates))}
	if p.DateUpdate != nil {
		resp.DateUpdate = &DateUpdate{ID: p.DateUpdate.ID, Date: p.DateUpdate.NewDate}
	}
	for _, u := range p.OrderUpdates {
		resp.OrderUpdates = append(resp.OrderUpdates, OrderUpdate{ID: u.ID, TimeOrder: u.NewTimeOrder})
	}
	return resp
}
