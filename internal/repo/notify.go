package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultReconnectDelay is how long the Listener waits before reconnecting.
const DefaultReconnectDelay = 2 * time.Second

// Listener subscribes to the change channels on a dedicated pool connection
// and reports every notification to a single handler goroutine, in the order
// Postgres delivered them.
type Listener struct {
	pool     *pgxpool.Pool
	channels []string
	delay    time.Duration
	log      *slog.Logger
}

// NewListener constructs a Listener for the given channels.
func NewListener(pool *pgxpool.Pool, log *slog.Logger, channels ...string) *Listener {
	return &Listener{pool: pool, channels: channels, delay: DefaultReconnectDelay, log: log}
}

// Run blocks until ctx is done, reconnecting after connection failures.
//
// After every successful subscribe, handle is called once for each channel so
// the caller can resync anything missed while disconnected (and load the
// initial state). Payloads are ignored: a notification only says the table
// changed.
func (l *Listener) Run(ctx context.Context, handle func(ctx context.Context, channel string)) error {
	for {
		err := l.listen(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}
		l.log.WarnContext(ctx, "change listener disconnected", "error", err, "retry_in", l.delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.delay):
		}
	}
}

func (l *Listener) listen(ctx context.Context, handle func(ctx context.Context, channel string)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("repo.Listener: acquire: %w", err)
	}
	defer func() {
		if !conn.Conn().IsClosed() {
			_, _ = conn.Exec(context.Background(), "UNLISTEN *")
		}
		conn.Release()
	}()

	for _, ch := range l.channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("repo.Listener: listen %s: %w", ch, err)
		}
	}
	l.log.InfoContext(ctx, "change listener subscribed", "channels", l.channels)

	for _, ch := range l.channels {
		handle(ctx, ch)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("repo.Listener: wait: %w", err)
		}
		handle(ctx, n.Channel)
	}
}
