// Package repo is the store adapter of the trip planner: Postgres persistence
// for itinerary items, packing items and photos, plus the LISTEN/NOTIFY
// listener that turns committed writes into live-update events.
// Only SQL and type mapping live here.
package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is satisfied by *pgxpool.Pool and pgx.Tx. Integration tests pass a
// transaction that is rolled back when the test ends; Begin on a pgx.Tx opens
// a savepoint, so ApplyBatch nests correctly inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Channels notified by the change triggers, one per table.
const (
	ChannelItinerary = "itinerary_items"
	ChannelPacking   = "packing_items"
	ChannelPhotos    = "photos"
)
