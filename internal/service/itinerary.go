// Package service contains the business rules of the trip planner. Services
// validate input, turn user gestures into planner commands and orchestrate
// repo calls. No SQL lives here.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/family-trip-planner/internal/board"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/planner"
	"github.com/pkordes/family-trip-planner/internal/repo"
)

// ItineraryService implements the itinerary grid operations. Reads come from
// the live board; writes go straight to the store and come back to every
// client as a live update.
type ItineraryService struct {
	repo   repo.ItineraryRepo
	board  *board.Board
	cal    planner.Calendar
	roster domain.Roster
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(r repo.ItineraryRepo, b *board.Board, cal planner.Calendar, roster domain.Roster) *ItineraryService {
	return &ItineraryService{repo: r, board: b, cal: cal, roster: roster}
}

// Members returns the roster in grid column order.
func (s *ItineraryService) Members() domain.Roster {
	return s.roster
}

// Grid returns the grouped, ordered grid for the current snapshot.
func (s *ItineraryService) Grid(ctx context.Context) (board.Grid, error) {
	if err := s.board.Load(ctx); err != nil {
		return board.Grid{}, fmt.Errorf("service.ItineraryService.Grid: %w", err)
	}
	return s.board.Grid(), nil
}

// Add creates the default new row at the end of the TBC group.
func (s *ItineraryService) Add(ctx context.Context) (domain.ItineraryItem, error) {
	if err := s.board.Load(ctx); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	items, _ := s.board.Snapshot()
	created, err := s.repo.Create(ctx, s.cal.NewRow(items, s.roster))
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.Add: %w", err)
	}
	return created, nil
}

// EditText replaces the activity or status of an item. An unchanged value is
// not written.
func (s *ItineraryService) EditText(ctx context.Context, id uuid.UUID, field domain.Field, value string) (domain.ItineraryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.EditText: %w", err)
	}
	upd, changed, err := planner.EditText(item, field, value)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.EditText: %w", err)
	}
	if !changed {
		return item, nil
	}
	return s.update(ctx, "EditText", upd)
}

// EditDate moves an item to the group named by text. The item goes to the end
// of its new group.
func (s *ItineraryService) EditDate(ctx context.Context, id uuid.UUID, text string) (domain.ItineraryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.EditDate: %w", err)
	}
	upd, changed := planner.EditDate(item, text)
	if !changed {
		return item, nil
	}
	return s.update(ctx, "EditDate", upd)
}

// ToggleAttendance flips one member's mark on an item.
func (s *ItineraryService) ToggleAttendance(ctx context.Context, id uuid.UUID, memberID string) (domain.ItineraryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.ToggleAttendance: %w", err)
	}
	upd, err := planner.ToggleAttendance(item, memberID, s.roster)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.ToggleAttendance: %w", err)
	}
	return s.update(ctx, "ToggleAttendance", upd)
}

// Reorder applies a drag-and-drop gesture. A failed commit returns an error
// wrapping board.ErrCommitFailed.
func (s *ItineraryService) Reorder(ctx context.Context, draggedID uuid.UUID, target planner.DropTarget) (planner.Plan, error) {
	plan, err := s.board.Reorder(ctx, draggedID, target)
	if err != nil {
		return planner.Plan{}, fmt.Errorf("service.ItineraryService.Reorder: %w", err)
	}
	return plan, nil
}

func (s *ItineraryService) update(ctx context.Context, op string, upd domain.DocumentUpdate) (domain.ItineraryItem, error) {
	result, err := s.repo.UpdateFields(ctx, upd)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("service.ItineraryService.%s: %w", op, err)
	}
	return result, nil
}
