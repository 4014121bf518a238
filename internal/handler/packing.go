package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/family-trip-planner/internal/middleware"
)

// AddPackingRequest is the body of POST /packing.
type AddPackingRequest struct {
	PersonID string `json:"person_id"`
	Item     string `json:"item"`
}

// CheckPackingRequest is the body of PATCH /packing/{id}.
type CheckPackingRequest struct {
	Checked *bool `json:"checked"`
}

// listPacking handles GET /packing.
func (s *Server) listPacking(w http.ResponseWriter, r *http.Request) {
	groups, err := s.packing.Grouped(r.Context())
	if err != nil {
		s.respondError(w, r, err, "packing list not found")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// addPackingItem handles POST /packing.
func (s *Server) addPackingItem(w http.ResponseWriter, r *http.Request) {
	var body AddPackingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "malformed request body")
		return
	}
	actor, _ := middleware.MemberFromContext(r.Context())

	item, err := s.packing.Add(r.Context(), actor, body.PersonID, body.Item)
	if err != nil {
		s.respondError(w, r, err, "packing item not found")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// checkPackingItem handles PATCH /packing/{id}.
func (s *Server) checkPackingItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		badRequest(w, "invalid packing item id")
		return
	}
	var body CheckPackingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Checked == nil {
		badRequest(w, "checked is required")
		return
	}
	actor, _ := middleware.MemberFromContext(r.Context())

	item, err := s.packing.SetChecked(r.Context(), actor, id, *body.Checked)
	if err != nil {
		s.respondError(w, r, err, "packing item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// deletePackingItem handles DELETE /packing/{id}.
func (s *Server) deletePackingItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		badRequest(w, "invalid packing item id")
		return
	}
	actor, _ := middleware.MemberFromContext(r.Context())

	if err := s.packing.Delete(r.Context(), actor, id); err != nil {
		s.respondError(w, r, err, "packing item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
