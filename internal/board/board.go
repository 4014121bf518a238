// Package board keeps the live view of the itinerary: the latest snapshot
// received from the store, the grid rendered from it, and drag-and-drop
// reorders applied optimistically while their commit is in flight.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/planner"
)

// ErrCommitFailed is returned by Reorder when the store rejected the batch.
// The optimistic change has been rolled back; the caller may retry.
var ErrCommitFailed = errors.New("commit failed")

// Store is the part of the itinerary store the board needs.
type Store interface {
	// List returns every itinerary item (a one-shot full snapshot).
	List(ctx context.Context) ([]domain.ItineraryItem, error)

	// ApplyBatch applies all updates atomically, or none of them.
	ApplyBatch(ctx context.Context, updates []domain.DocumentUpdate) error
}

// Board holds the current itinerary snapshot. Snapshots are never modified in
// place; every change swaps in a new slice.
//
// The visible snapshot is the last one read from the store with every
// reorder that is committed but not yet visible in it, plus the reorder
// being committed, laid over it in commit order.
type Board struct {
	cal    planner.Calendar
	roster domain.Roster
	store  Store
	log    *slog.Logger

	// publishMu orders snapshot swaps and the observer calls they trigger.
	// It also guards base, pending, inflight and commits.
	publishMu sync.Mutex
	base      []domain.ItineraryItem
	pending   []pendingPlan
	inflight  *planner.Plan
	commits   uint64
	observers []func(Grid)

	mu      sync.RWMutex
	items   []domain.ItineraryItem
	version uint64
	loaded  bool

	// commitMu serializes reorder commits.
	commitMu sync.Mutex
}

// pendingPlan is a committed reorder and its position in commit order.
type pendingPlan struct {
	plan planner.Plan
	seq  uint64
}

// New constructs an empty Board. Call Apply or Load before reading from it.
func New(cal planner.Calendar, roster domain.Roster, store Store, log *slog.Logger) *Board {
	return &Board{cal: cal, roster: roster, store: store, log: log}
}

// OnChange registers fn to be called with the new grid after every snapshot
// change, in the order the changes happened. fn must not call back into the
// board's write methods.
func (b *Board) OnChange(fn func(Grid)) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	b.observers = append(b.observers, fn)
}

// Apply replaces the store snapshot with a full live update. The snapshot may
// have been read before a committed reorder landed, so committed reorders stay
// laid over it until a snapshot shows their values.
func (b *Board) Apply(items []domain.ItineraryItem) {
	b.apply(items, 0)
}

// Refresh reads a full snapshot from the store and applies it. Reorders
// committed before the read started are known to be in it.
func (b *Board) Refresh(ctx context.Context) error {
	b.publishMu.Lock()
	seen := b.commits
	b.publishMu.Unlock()

	items, err := b.store.List(ctx)
	if err != nil {
		return fmt.Errorf("board.Board.Refresh: %w", err)
	}
	b.apply(items, seen)
	return nil
}

// Load fetches a snapshot from the store if none has been applied yet.
func (b *Board) Load(ctx context.Context) error {
	b.mu.RLock()
	loaded := b.loaded
	b.mu.RUnlock()
	if loaded {
		return nil
	}
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("board.Board.Load: %w", err)
	}
	return nil
}

// Snapshot returns the current items and their version. The slice is shared
// and must not be modified.
func (b *Board) Snapshot() ([]domain.ItineraryItem, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.items, b.version
}

// Item returns the item with the given ID from the current snapshot.
func (b *Board) Item(id uuid.UUID) (domain.ItineraryItem, bool) {
	items, _ := b.Snapshot()
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.ItineraryItem{}, false
}

// Grid renders the current snapshot.
func (b *Board) Grid() Grid {
	items, version := b.Snapshot()
	return Render(b.cal, b.roster, items, version)
}

// Reorder computes the drop of draggedID onto target against the current
// (possibly optimistic) snapshot, shows the result immediately and commits it
// as one batch.
//
// Only one reorder commits at a time; a second call waits and then computes
// against the snapshot left by the first, including when a live update read
// before the first commit landed arrives in between. On failure the
// optimistic change is removed from whatever snapshot is current by then.
func (b *Board) Reorder(ctx context.Context, draggedID uuid.UUID, target planner.DropTarget) (planner.Plan, error) {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	if err := b.Load(ctx); err != nil {
		return planner.Plan{}, fmt.Errorf("board.Board.Reorder: %w", err)
	}

	before, _ := b.Snapshot()
	plan := b.cal.ComputeReorder(before, draggedID, target)
	if plan.IsEmpty() {
		return plan, nil
	}

	b.stage(plan)

	if err := b.store.ApplyBatch(ctx, plan.DocumentUpdates()); err != nil {
		b.settle(plan, false)
		b.log.WarnContext(ctx, "reorder commit failed",
			"dragged_id", draggedID,
			"error", err,
		)
		return planner.Plan{}, fmt.Errorf("board.Board.Reorder: %w: %w", ErrCommitFailed, err)
	}
	b.settle(plan, true)

	b.log.DebugContext(ctx, "reorder committed",
		"dragged_id", draggedID,
		"order_updates", len(plan.OrderUpdates),
		"moved", plan.DateUpdate != nil,
	)
	return plan, nil
}

// stage shows plan optimistically while it is being committed.
func (b *Board) stage(plan planner.Plan) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	b.inflight = &plan
	b.publish()
}

// settle ends the commit of plan. A committed plan joins the pending list and
// the view does not change; a failed one is dropped from the view.
func (b *Board) settle(plan planner.Plan, committed bool) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	b.inflight = nil
	if !committed {
		b.publish()
		return
	}
	b.commits++
	b.pending = append(b.pending, pendingPlan{plan: plan, seq: b.commits})
}

// apply installs items as the store snapshot. Pending plans up to the last
// one that is either already shown by items or committed at or before seen
// are dropped; later plans stay.
func (b *Board) apply(items []domain.ItineraryItem, seen uint64) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	drop := 0
	for i, p := range b.pending {
		if p.seq <= seen || reflects(items, p.plan) {
			drop = i + 1
		}
	}
	b.pending = append([]pendingPlan(nil), b.pending[drop:]...)
	b.base = items
	b.publish()
}

// publish rebuilds the visible snapshot from base, pending and inflight and
// notifies observers. publishMu must be held.
func (b *Board) publish() {
	view := b.base
	for _, p := range b.pending {
		view = planner.ApplyPlan(view, p.plan)
	}
	if b.inflight != nil {
		view = planner.ApplyPlan(view, *b.inflight)
	}

	normalized := make([]domain.ItineraryItem, len(view))
	for i, it := range view {
		it.Attendees = b.roster.NormalizeAttendance(it.Attendees)
		normalized[i] = it
	}

	b.mu.Lock()
	b.items = normalized
	b.version++
	b.loaded = true
	version := b.version
	b.mu.Unlock()

	grid := Render(b.cal, b.roster, normalized, version)
	for _, fn := range b.observers {
		fn(grid)
	}
}

// reflects reports whether every value plan writes is already in items.
// Items that are gone count as reflected.
func reflects(items []domain.ItineraryItem, plan planner.Plan) bool {
	byID := make(map[uuid.UUID]domain.ItineraryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	if d := plan.DateUpdate; d != nil {
		if it, ok := byID[d.ID]; ok && it.Date != d.NewDate {
			return false
		}
	}
	for _, u := range plan.OrderUpdates {
		if it, ok := byID[u.ID]; ok && it.TimeOrder != u.NewTimeOrder {
			return false
		}
	}
	return true
}
