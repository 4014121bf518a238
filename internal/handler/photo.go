package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/middleware"
)

// uploadField is the multipart form field carrying the image.
const uploadField = "file"

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PhotoPage is the body of GET /photos.
type PhotoPage struct {
	Data       []domain.Photo `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// listPhotos handles GET /photos.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
// The total is repeated in the X-Total-Count header.
func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		badRequest(w, "invalid page parameter")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		badRequest(w, "invalid limit parameter")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	photos, total, err := s.photos.List(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err, "photos not found")
		return
	}
	if photos == nil {
		photos = []domain.Photo{}
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, PhotoPage{
		Data: photos,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// uploadPhoto handles POST /photos (multipart/form-data, field "file").
// Guests may upload; the photo is credited to "Guest".
func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		badRequest(w, "a file field is required")
		return
	}
	defer file.Close()
	actor, _ := middleware.MemberFromContext(r.Context())

	photo, err := s.photos.Upload(r.Context(), actor, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, "photo not found")
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// getPhoto handles GET /photos/{key}/{variant}.
func (s *Server) getPhoto(w http.ResponseWriter, r *http.Request) {
	key, err := pathString(r, "key")
	if err != nil {
		badRequest(w, "invalid photo key")
		return
	}
	variant, err := pathString(r, "variant")
	if err != nil {
		badRequest(w, "invalid photo variant")
		return
	}

	data, contentType, err := s.photos.Open(key, blob.Variant(variant))
	if err != nil {
		s.respondError(w, r, err, "photo not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	// Keys are random and blobs never change.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
