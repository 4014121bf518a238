package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/family-trip-planner/internal/board"
	"github.com/pkordes/family-trip-planner/internal/domain"
	"github.com/pkordes/family-trip-planner/internal/realtime"
	"github.com/pkordes/family-trip-planner/internal/repo"
)

// Publisher fans events out to connected clients.
type Publisher interface {
	Broadcast(e realtime.Event)
}

// PhotoFeed is the payload of a photos event: the first gallery page.
type PhotoFeed struct {
	Photos []domain.Photo `json:"photos"`
	Total  int64          `json:"total"`
}

// LiveSync turns store change notifications into full snapshots for every
// client. Itinerary snapshots go through the board, which publishes the
// rendered grid; packing and photos are published directly.
type LiveSync struct {
	board   *board.Board
	packing *PackingService
	photos  *PhotoService
	pub     Publisher
	log     *slog.Logger
}

// NewLiveSync constructs a LiveSync and subscribes pub to board changes.
func NewLiveSync(b *board.Board, packing *PackingService, photos *PhotoService, pub Publisher, log *slog.Logger) *LiveSync {
	s := &LiveSync{board: b, packing: packing, photos: photos, pub: pub, log: log}
	b.OnChange(func(g board.Grid) {
		pub.Broadcast(realtime.Event{Type: realtime.EventItinerary, Data: g})
	})
	return s
}

// Handle reloads the collection behind a notification channel. It is the
// repo.Listener callback, so calls arrive one at a time in notification
// order. Failures are logged; the next notification retries.
func (s *LiveSync) Handle(ctx context.Context, channel string) {
	switch channel {
	case repo.ChannelItinerary:
		if err := s.board.Refresh(ctx); err != nil {
			s.log.Error("live sync: itinerary", "error", err)
		}
	case repo.ChannelPacking:
		groups, err := s.packing.Grouped(ctx)
		if err != nil {
			s.log.Error("live sync: packing", "error", err)
			return
		}
		s.pub.Broadcast(realtime.Event{Type: realtime.EventPacking, Data: groups})
	case repo.ChannelPhotos:
		photos, total, err := s.photos.List(ctx, domain.NewPaginationParams(nil, nil))
		if err != nil {
			s.log.Error("live sync: photos", "error", err)
			return
		}
		if photos == nil {
			photos = []domain.Photo{}
		}
		s.pub.Broadcast(realtime.Event{Type: realtime.EventPhotos, Data: PhotoFeed{Photos: photos, Total: total}})
	default:
		s.log.Warn("live sync: unknown channel", "channel", channel)
	}
}

// Greeting is the hub's OnConnect callback: the current itinerary grid.
func (s *LiveSync) Greeting() []realtime.Event {
	return []realtime.Event{{Type: realtime.EventItinerary, Data: s.board.Grid()}}
}
