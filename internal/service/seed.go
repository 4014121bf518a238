package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/repo"
)

// Seeder fills empty collections with the starter itinerary and packing list.
type Seeder struct {
	itinerary repo.ItineraryRepo
	packing   repo.PackingRepo
	roster    domain.Roster
	log       *slog.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(it repo.ItineraryRepo, p repo.PackingRepo, roster domain.Roster, log *slog.Logger) *Seeder {
	return &Seeder{itinerary: it, packing: p, roster: roster, log: log}
}

// Seed populates each collection only when it is currently empty. Failures
// are logged and otherwise ignored; the planner works with empty collections.
func (s *Seeder) Seed(ctx context.Context) {
	s.seedItinerary(ctx)
	s.seedPacking(ctx)
}

func (s *Seeder) seedItinerary(ctx context.Context) {
	n, err := s.itinerary.Count(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "seed itinerary: count", "error", err)
		return
	}
	if n > 0 {
		return
	}
	for _, it := range StarterItinerary(s.roster) {
		if _, err := s.itinerary.Create(ctx, it); err != nil {
			s.log.ErrorContext(ctx, "seed itinerary: create", "activity", it.Activity, "error", err)
			return
		}
	}
	s.log.InfoContext(ctx, "seeded itinerary")
}

func (s *Seeder) seedPacking(ctx context.Context) {
	n, err := s.packing.Count(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "seed packing list: count", "error", err)
		return
	}
	if n > 0 {
		return
	}
	for _, it := range StarterPackingList() {
		if _, err := s.packing.Create(ctx, it); err != nil {
			s.log.ErrorContext(ctx, "seed packing list: create", "item", it.Item, "error", err)
			return
		}
	}
	s.log.InfoContext(ctx, "seeded packing list")
}

// StarterItinerary is the itinerary a new deployment starts with.
func StarterItinerary(roster domain.Roster) []domain.ItineraryItem {
	return []domain.ItineraryItem{
		domain.NewItineraryItem(roster, "Dec 22 (Arrival)", "Arrivals / Check-in (after 3PM)", "Booked", "Marc, Melissa, John, Lindsay, Ricky", 1),
		domain.NewItineraryItem(roster, "Dec 23", "Magic Kingdom Day (Lunch at Be Our Guest)", "Planned", "All", 1),
		domain.NewItineraryItem(roster, "Dec 23", "Epcot Holiday Festival", "Planned", "Marc, Melissa, Daniel, Jessica, Ricky, John, Lindsay", 2),
		domain.NewItineraryItem(roster, "TBC", "Try the new Star Wars ride at Hollywood Studios", "Idea", "Daniel, Ricky", 1),
		domain.NewItineraryItem(roster, "TBC", "Golf Day for the adults", "Idea", "Marc, Daniel, John, Ricky", 2),
	}
}

// StarterPackingList is the packing list a new deployment starts with.
func StarterPackingList() []domain.PackingItem {
	return []domain.PackingItem{
		{PersonID: "Marc", Item: "Passport"},
		{PersonID: "Marc", Item: "Golf Clubs"},
		{PersonID: "Melissa", Item: "Sunscreen"},
		{PersonID: "Melissa", Item: "Mickey Ears", Checked: true},
		{PersonID: "Billie", Item: "iPad & Charger"},
		{PersonID: "Mimi", Item: "Princess Dress"},
		{PersonID: "Riley", Item: "Stroller Fan"},
		{PersonID: "Riley", Item: "Diapers"},
	}
}
