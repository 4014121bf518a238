package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/repo"
)

// PackingService implements the per-person packing checklists. Every write
// requires an adult actor.
type PackingService struct {
	repo   repo.PackingRepo
	roster domain.Roster
}

// NewPackingService constructs a PackingService.
func NewPackingService(r repo.PackingRepo, roster domain.Roster) *PackingService {
	return &PackingService{repo: r, roster: roster}
}

// Grouped returns one checklist per roster member, in roster order, with
// items sorted alphabetically. Entries for people not on the roster are
// left out.
func (s *PackingService) Grouped(ctx context.Context) ([]domain.PackingGroup, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PackingService.Grouped: %w", err)
	}
	return GroupPacking(s.roster, items), nil
}

// GroupPacking builds the per-member checklists from a flat list.
func GroupPacking(roster domain.Roster, items []domain.PackingItem) []domain.PackingGroup {
	byPerson := make(map[string][]domain.PackingItem, len(roster))
	for _, it := range items {
		byPerson[it.PersonID] = append(byPerson[it.PersonID], it)
	}

	// A Collator is not safe for concurrent use.
	c := collate.New(language.English, collate.IgnoreCase)
	groups := make([]domain.PackingGroup, 0, len(roster))
	for _, m := range roster {
		list := byPerson[m.ID]
		if list == nil {
			list = []domain.PackingItem{}
		}
		sortByItem(c, list)
		groups = append(groups, domain.PackingGroup{Member: m, Items: list})
	}
	return groups
}

// Add puts a new unchecked item on a member's list.
func (s *PackingService) Add(ctx context.Context, actor domain.FamilyMember, personID, item string) (domain.PackingItem, error) {
	if err := requireAdult(actor); err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Add: %w", err)
	}
	if _, ok := s.roster.Lookup(personID); !ok {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Add: %w: unknown family member %q", domain.ErrValidation, personID)
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Add: %w: item is required", domain.ErrValidation)
	}

	result, err := s.repo.Create(ctx, domain.PackingItem{PersonID: personID, Item: item})
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.Add: %w", err)
	}
	return result, nil
}

// SetChecked ticks or unticks an item.
func (s *PackingService) SetChecked(ctx context.Context, actor domain.FamilyMember, id uuid.UUID, checked bool) (domain.PackingItem, error) {
	if err := requireAdult(actor); err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.SetChecked: %w", err)
	}
	result, err := s.repo.SetChecked(ctx, id, checked)
	if err != nil {
		return domain.PackingItem{}, fmt.Errorf("service.PackingService.SetChecked: %w", err)
	}
	return result, nil
}

// Delete removes an item.
func (s *PackingService) Delete(ctx context.Context, actor domain.FamilyMember, id uuid.UUID) error {
	if err := requireAdult(actor); err != nil {
		return fmt.Errorf("service.PackingService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PackingService.Delete: %w", err)
	}
	return nil
}

func requireAdult(m domain.FamilyMember) error {
	if !m.IsAdult() {
		return fmt.Errorf("%w: only adults can change the packing list", domain.ErrForbidden)
	}
	return nil
}

func sortByItem(c *collate.Collator, items []domain.PackingItem) {
	slices.SortStableFunc(items, func(a, b domain.PackingItem) int {
		return c.CompareString(a.Item, b.Item)
	})
}
