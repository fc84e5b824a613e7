package allocation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InMemoryStore is a Store kept entirely in process memory.  It backs the
// engine's tests and can serve single-process deployments that do not
// need durability.  All methods are safe for concurrent use.
type InMemoryStore struct {
	mu           sync.RWMutex
	statuses     []SeatStatus
	reservations []Reservation
	nextID       uint64
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty store; call Init before anything else.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

// Init implements Store.Init.  A second call finds seats already present
// and leaves them unchanged, matching the durable implementation.
func (s *InMemoryStore) Init(ctx context.Context, layout Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.statuses) > 0 {
		return nil
	}
	s.statuses = make([]SeatStatus, layout.SeatCount)
	for _, id := range layout.PreBooked {
		s.statuses[id] = SeatBooked
	}
	return nil
}

// Statuses implements Store.Statuses.
func (s *InMemoryStore) Statuses(ctx context.Context) ([]SeatStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SeatStatus, len(s.statuses))
	copy(out, s.statuses)
	return out, nil
}

// CountAvailable implements Store.CountAvailable.
func (s *InMemoryStore) CountAvailable(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, st := range s.statuses {
		if st == SeatFree {
			n++
		}
	}
	return n, nil
}

// Commit implements Store.Commit.  Every id is validated before the first
// mutation so a rejected batch leaves the store exactly as it was.
func (s *InMemoryStore) Commit(ctx context.Context, ids []int, at time.Time) (*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id < 0 || id >= len(s.statuses) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, id)
		}
		if s.statuses[id] != SeatFree {
			return nil, fmt.Errorf("%w: %d", ErrSeatAlreadyBooked, id)
		}
	}
	for _, id := range ids {
		s.statuses[id] = SeatBooked
	}
	res := Reservation{
		ID:        s.nextID,
		SeatIDs:   append([]int(nil), ids...),
		CreatedAt: at,
	}
	s.nextID++
	s.reservations = append(s.reservations, res)
	return &res, nil
}

// Reservations implements Store.Reservations.
func (s *InMemoryStore) Reservations(ctx context.Context) ([]Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out, nil
}
