// Package handler implements the HTTP API of the family trip planner.
// All handlers are methods on Server. They are split into per-page files
// (itinerary.go, packing.go, photo.go, ...) but share the same Server struct
// so they can reach its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/family-trip-planner/internal/blob"
	"github.com/pkordes/family-trip-planner/internal/board"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/middleware"
	"github.com/pkordes/family-trip-planner/internal/planner"
)

// ItineraryServicer defines the itinerary operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the board or the database.
type ItineraryServicer interface {
	Members() domain.Roster
	Grid(ctx context.Context) (board.Grid, error)
	Add(ctx context.Context) (domain.ItineraryItem, error)
	EditText(ctx context.Context, id uuid.UUID, field domain.Field, value string) (domain.ItineraryItem, error)
	EditDate(ctx context.Context, id uuid.UUID, text string) (domain.ItineraryItem, error)
	ToggleAttendance(ctx context.Context, id uuid.UUID, memberID string) (domain.ItineraryItem, error)
	Reorder(ctx context.Context, draggedID uuid.UUID, target planner.DropTarget) (planner.Plan, error)
}

// PackingServicer defines the packing list operations.
type PackingServicer interface {
	Grouped(ctx context.Context) ([]domain.PackingGroup, error)
	Add(ctx context.Context, actor domain.FamilyMember, personID, item string) (domain.PackingItem, error)
	SetChecked(ctx context.Context, actor domain.FamilyMember, id uuid.UUID, checked bool) (domain.PackingItem, error)
	Delete(ctx context.Context, actor domain.FamilyMember, id uuid.UUID) error
}

// PhotoServicer defines the gallery operations.
type PhotoServicer interface {
	Upload(ctx context.Context, actor domain.FamilyMember, fileName string, r io.Reader) (domain.Photo, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Photo, int64, error)
	Open(key string, v blob.Variant) ([]byte, string, error)
}

// ExportServicer produces the flat itinerary export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	itinerary ItineraryServicer
	packing   PackingServicer
	photos    PhotoServicer
	export    ExportServicer

	// live upgrades GET /ws. Nil disables the route.
	live http.Handler
	// uploadLimit wraps POST /photos.
	uploadLimit func(http.Handler) http.Handler
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies. live and
// uploadLimit may be nil.
func NewServer(
	itinerary ItineraryServicer,
	packing PackingServicer,
	photos PhotoServicer,
	export ExportServicer,
	live http.Handler,
	uploadLimit func(http.Handler) http.Handler,
	log *slog.Logger,
) *Server {
	if uploadLimit == nil {
		uploadLimit = func(next http.Handler) http.Handler { return next }
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		itinerary:   itinerary,
		packing:     packing,
		photos:      photos,
		export:      export,
		live:        live,
		uploadLimit: uploadLimit,
		log:         log,
	}
}

// Routes returns the API router. The acting family member is resolved from
// the X-Family-Member header for every route.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewMemberResolver(s.itinerary.Members()))

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)
	r.Get("/members", s.listMembers)

	r.Route("/itinerary", func(r chi.Router) {
		r.Get("/", s.getItinerary)
		r.Post("/", s.addItineraryItem)
		r.Post("/reorder", s.reorderItinerary)
		r.Get("/export", s.getExport)
		r.Patch("/{id}", s.editItineraryItem)
		r.Post("/{id}/attendance/{memberId}", s.toggleAttendance)
	})

	r.Route("/packing", func(r chi.Router) {
		r.Get("/", s.listPacking)
		r.Post("/", s.addPackingItem)
		r.Patch("/{id}", s.checkPackingItem)
		r.Delete("/{id}", s.deletePackingItem)
	})

	r.Route("/photos", func(r chi.Router) {
		r.Get("/", s.listPhotos)
		r.With(s.uploadLimit).Post("/", s.uploadPhoto)
		r.Get("/{key}/{variant}", s.getPhoto)
	})

	if s.live != nil {
		r.Method(http.MethodGet, "/ws", s.live)
	}
	return r
}
