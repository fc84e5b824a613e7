package allocation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Engine selects seats for a booking request and drives the atomic commit.
// The selection is deliberately greedy: it prefers the first row that can
// hold the whole party and otherwise takes the lowest free ids overall.
// It never looks ahead across rows or tries to minimize fragmentation;
// callers depend on that exact behavior.
//
// A single mutex serializes the whole check-select-commit sequence, so two
// concurrent requests can never pick overlapping seats against the same
// engine instance.
type Engine struct {
	mu     sync.Mutex
	store  Store
	layout Layout
	log    *slog.Logger
	now    func() time.Time
}

// NewEngine builds an Engine over a prepared store.  The layout must be
// the one the store was initialized with.  A nil logger disables logging.
func NewEngine(store Store, layout Layout, log *slog.Logger) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{store: store, layout: layout, log: log, now: time.Now}
}

// Layout returns the seating plan the engine allocates against.
func (e *Engine) Layout() Layout { return e.layout }

// Book reserves k seats and returns the recorded reservation.  Outcomes:
//
//   - k < 1                       -> ErrInvalidRequest, no state change
//   - fewer than k seats free     -> ErrInsufficientSeats, no state change
//   - storage failure             -> wrapped error, no state change
//
// No upper bound is placed on k beyond the free count; a request wider
// than any row simply falls through to the global fallback.
func (e *Engine) Book(ctx context.Context, k int) (*Reservation, error) {
	if k < 1 {
		return nil, ErrInvalidRequest
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	statuses, err := e.store.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seat statuses: %w", err)
	}
	free := freeIDs(statuses, 0, len(statuses))
	if len(free) < k {
		return nil, ErrInsufficientSeats
	}

	ids := e.selectSeats(statuses, free, k)
	res, err := e.store.Commit(ctx, ids, e.now().UTC())
	if err != nil {
		e.log.Error("booking commit failed", "seats", ids, "err", err)
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	e.log.Info("seats booked", "reservation_id", res.ID, "seats", res.SeatIDs)
	return res, nil
}

// selectSeats picks k ids from statuses.  Rows are scanned in ascending
// order; the first row holding at least k free seats supplies its lowest
// k ids.  When no row fits, the lowest k free ids overall are taken.
// The caller guarantees len(free) >= k.
func (e *Engine) selectSeats(statuses []SeatStatus, free []int, k int) []int {
	for r := 0; r < e.layout.NumRows(); r++ {
		start, end := e.layout.RowBounds(r)
		row := freeIDs(statuses, start, end)
		if len(row) >= k {
			return row[:k]
		}
	}
	return free[:k]
}

// freeIDs collects the ids with status SeatFree in [start, end), ascending.
func freeIDs(statuses []SeatStatus, start, end int) []int {
	ids := make([]int, 0, end-start)
	for id := start; id < end; id++ {
		if statuses[id] == SeatFree {
			ids = append(ids, id)
		}
	}
	return ids
}
