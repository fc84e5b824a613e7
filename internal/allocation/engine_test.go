package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestEngine initializes an in-memory store with the given layout and
// returns an engine over it.
func newTestEngine(t *testing.T, layout Layout) (*Engine, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	require.NoError(t, store.Init(context.Background(), layout))
	return NewEngine(store, layout, nil), store
}

func TestEngine_Book_invalid_request(t *testing.T) {
	eng, store := newTestEngine(t, DefaultLayout())

	for _, k := range []int{0, -1, -80} {
		_, err := eng.Book(context.Background(), k)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}
	n, err := store.CountAvailable(context.Background())
	require.NoError(t, err)
	require.Equal(t, 71, n, "rejected requests must not change state")
}

func TestEngine_Book_prefers_single_row(t *testing.T) {
	eng, _ := newTestEngine(t, DefaultLayout())
	ctx := context.Background()

	// Row 0 is ids 0-6 with 0,1,2 pre-booked; its four free seats satisfy k=4.
	res, err := eng.Book(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 5, 6}, res.SeatIDs)

	// Row 0 is now full; row 1 (ids 7-13) is the first row with 7 free seats.
	res, err = eng.Book(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, []int{7, 8, 9, 10, 11, 12, 13}, res.SeatIDs)
}

func TestEngine_Book_fallback_when_no_row_fits(t *testing.T) {
	// Two rows of three with the middle seat of each taken: no row has
	// three free seats, so k=3 falls back to the lowest free ids overall.
	layout := Layout{SeatCount: 6, RowWidth: 3, PreBooked: []int{1, 4}}
	eng, _ := newTestEngine(t, layout)

	res, err := eng.Book(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 3}, res.SeatIDs)
}

func TestEngine_Book_wider_than_any_row(t *testing.T) {
	// No upper bound on k: a request wider than the widest row always
	// takes the global fallback path.
	eng, _ := newTestEngine(t, DefaultLayout())

	res, err := eng.Book(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, res.SeatIDs)
}

func TestEngine_Book_every_possible_count(t *testing.T) {
	// The reference initial state has 71 free seats.  For every k a fresh
	// booking must flip exactly k previously-free seats and report
	// strictly ascending, pairwise distinct ids.
	for k := 1; k <= 71; k++ {
		eng, store := newTestEngine(t, DefaultLayout())
		ctx := context.Background()

		before, err := store.Statuses(ctx)
		require.NoError(t, err)
		freeBefore, err := store.CountAvailable(ctx)
		require.NoError(t, err)

		res, err := eng.Book(ctx, k)
		require.NoError(t, err, "k=%d", k)
		require.Len(t, res.SeatIDs, k)
		for i, id := range res.SeatIDs {
			require.Equal(t, SeatFree, before[id], "k=%d seat %d was not free", k, id)
			if i > 0 {
				require.Greater(t, id, res.SeatIDs[i-1], "k=%d ids not strictly ascending", k)
			}
		}

		freeAfter, err := store.CountAvailable(ctx)
		require.NoError(t, err)
		require.Equal(t, freeBefore-k, freeAfter)
	}
}

func TestEngine_Book_insufficient_seats(t *testing.T) {
	eng, store := newTestEngine(t, DefaultLayout())
	ctx := context.Background()

	before, err := store.Statuses(ctx)
	require.NoError(t, err)

	_, err = eng.Book(ctx, 72)
	require.ErrorIs(t, err, ErrInsufficientSeats)

	after, err := store.Statuses(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after, "failed booking must be a no-op")

	history, err := store.Reservations(ctx)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestEngine_Book_exhausts_coach(t *testing.T) {
	eng, store := newTestEngine(t, DefaultLayout())
	ctx := context.Background()

	res, err := eng.Book(ctx, 71)
	require.NoError(t, err)
	require.Len(t, res.SeatIDs, 71)

	n, err := store.CountAvailable(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = eng.Book(ctx, 1)
	require.ErrorIs(t, err, ErrInsufficientSeats)
}

func TestEngine_Book_appends_matching_reservation(t *testing.T) {
	eng, store := newTestEngine(t, DefaultLayout())
	ctx := context.Background()

	first, err := eng.Book(ctx, 4)
	require.NoError(t, err)
	second, err := eng.Book(ctx, 2)
	require.NoError(t, err)

	history, err := store.Reservations(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, first.SeatIDs, history[0].SeatIDs)
	require.Equal(t, second.SeatIDs, history[1].SeatIDs)
	require.Greater(t, history[1].ID, history[0].ID, "reservation ids are monotonic")
}

// failingStore wraps a Store and fails every Commit, simulating an
// unreachable database at the worst possible moment.
type failingStore struct {
	Store
	commitErr error
}

func (f *failingStore) Commit(ctx context.Context, ids []int, at time.Time) (*Reservation, error) {
	return nil, f.commitErr
}

func TestEngine_Book_commit_failure_leaves_no_trace(t *testing.T) {
	layout := DefaultLayout()
	inner := NewInMemoryStore()
	require.NoError(t, inner.Init(context.Background(), layout))

	boom := errors.New("connection reset")
	eng := NewEngine(&failingStore{Store: inner, commitErr: boom}, layout, nil)
	ctx := context.Background()

	before, err := inner.Statuses(ctx)
	require.NoError(t, err)

	_, err = eng.Book(ctx, 4)
	require.ErrorIs(t, err, boom)

	after, err := inner.Statuses(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after, "a failed commit must not change seat state")

	history, err := inner.Reservations(ctx)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestEngine_Book_timestamps_in_utc(t *testing.T) {
	eng, _ := newTestEngine(t, DefaultLayout())
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	eng.now = func() time.Time { return fixed }

	res, err := eng.Book(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, fixed.UTC(), res.CreatedAt)
}
