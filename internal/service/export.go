package service

import (
	"context"
	"fmt"

	"github.com/pkordes/family-trip-planner/internal/board"
	"github.com/pkordes/family-trip-planner/internal/domain"
)

// GridSource provides the rendered itinerary. *ItineraryService satisfies it.
type GridSource interface {
	Grid(ctx context.Context) (board.Grid, error)
}

// ExportService flattens the itinerary grid for download.
type ExportService struct {
	grid GridSource
}

// NewExportService constructs an ExportService.
func NewExportService(g GridSource) *ExportService {
	return &ExportService{grid: g}
}

// Export returns one ExportRow per item in display order.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	g, err := s.grid.Grid(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, grp := range g.Groups {
		for _, r := range grp.Rows {
			attendees := []string{}
			for _, c := range r.Cells {
				if c.Attending {
					attendees = append(attendees, c.MemberID)
				}
			}
			rows = append(rows, domain.ExportRow{
				Group:     grp.Name,
				Date:      r.Item.Date,
				Activity:  r.Item.Activity,
				Status:    r.Item.Status,
				TimeOrder: r.Item.TimeOrder,
				Cost:      r.Item.Cost,
				Attendees: attendees,
			})
		}
	}
	return rows, nil
}
