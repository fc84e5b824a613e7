package allocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("applies_prebooked_set", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Init(ctx, DefaultLayout()))

		statuses, err := store.Statuses(ctx)
		require.NoError(t, err)
		require.Len(t, statuses, 80)

		booked := map[int]struct{}{0: {}, 1: {}, 2: {}, 15: {}, 22: {}, 23: {}, 33: {}, 34: {}, 35: {}}
		for id, st := range statuses {
			if _, pre := booked[id]; pre {
				require.Equal(t, SeatBooked, st, "seat %d should start booked", id)
			} else {
				require.Equal(t, SeatFree, st, "seat %d should start free", id)
			}
		}

		n, err := store.CountAvailable(ctx)
		require.NoError(t, err)
		require.Equal(t, 71, n)
	})

	t.Run("idempotent", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.Init(ctx, DefaultLayout()))
		_, err := store.Commit(ctx, []int{3}, time.Now())
		require.NoError(t, err)

		// A second Init must not reset or re-seed anything.
		require.NoError(t, store.Init(ctx, DefaultLayout()))
		statuses, err := store.Statuses(ctx)
		require.NoError(t, err)
		require.Equal(t, SeatBooked, statuses[3])
	})

	t.Run("rejects_invalid_layout", func(t *testing.T) {
		store := NewInMemoryStore()
		err := store.Init(ctx, Layout{SeatCount: 0, RowWidth: 1})
		require.ErrorIs(t, err, ErrInvalidLayout)
	})
}

func TestInMemoryStore_Commit_validation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Init(ctx, DefaultLayout()))

	t.Run("out_of_range", func(t *testing.T) {
		_, err := store.Commit(ctx, []int{80}, time.Now())
		require.ErrorIs(t, err, ErrInvalidSeat)
	})

	t.Run("already_booked", func(t *testing.T) {
		_, err := store.Commit(ctx, []int{15}, time.Now())
		require.ErrorIs(t, err, ErrSeatAlreadyBooked)
	})

	t.Run("partial_batch_is_rejected_whole", func(t *testing.T) {
		// 4 is free but 15 is booked; neither may change.
		_, err := store.Commit(ctx, []int{4, 15}, time.Now())
		require.ErrorIs(t, err, ErrSeatAlreadyBooked)

		statuses, err := store.Statuses(ctx)
		require.NoError(t, err)
		require.Equal(t, SeatFree, statuses[4])

		history, err := store.Reservations(ctx)
		require.NoError(t, err)
		require.Empty(t, history)
	})
}

func TestInMemoryStore_Statuses_returns_copy(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Init(ctx, DefaultLayout()))

	statuses, err := store.Statuses(ctx)
	require.NoError(t, err)
	statuses[3] = SeatBooked

	fresh, err := store.Statuses(ctx)
	require.NoError(t, err)
	require.Equal(t, SeatFree, fresh[3], "callers must not be able to mutate store state")
}

func TestInMemoryStore_reservation_ids_monotonic(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Init(ctx, DefaultLayout()))

	at := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	first, err := store.Commit(ctx, []int{3, 4}, at)
	require.NoError(t, err)
	second, err := store.Commit(ctx, []int{5}, at.Add(time.Minute))
	require.NoError(t, err)

	require.Equal(t, uint64(1), first.ID)
	require.Equal(t, uint64(2), second.ID)

	history, err := store.Reservations(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, []int{3, 4}, history[0].SeatIDs)
	require.Equal(t, at, history[0].CreatedAt)
}
