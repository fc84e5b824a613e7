package allocation

import (
	"context"
	"errors"
	"time"
)

// SeatStatus is the occupancy state of a single seat.  The numeric values
// match the persisted representation (0 free, 1 booked).
type SeatStatus uint8

const (
	SeatFree   SeatStatus = 0 // seat can be allocated
	SeatBooked SeatStatus = 1 // seat is taken; never transitions back
)

// Reservation is the immutable audit record of one successful booking.
// Ids are assigned by the store in creation order and never reused.
type Reservation struct {
	ID        uint64    `json:"reservation_id"`
	SeatIDs   []int     `json:"seat_ids"` // ascending, 0-based
	CreatedAt time.Time `json:"created_at"`
}

// Sentinel errors shared by every Store implementation.  The first two are
// user-facing outcomes of Book; the last two indicate a broken caller
// contract inside Commit and should never surface in normal operation.
var (
	ErrInvalidRequest    = errors.New("requested seat count must be at least 1")
	ErrInsufficientSeats = errors.New("not enough free seats")
	ErrInvalidSeat       = errors.New("seat id out of range")
	ErrSeatAlreadyBooked = errors.New("seat already booked")
)

// Store is the persistence abstraction the engine books against.
// Implementations must make Commit atomic: either every id flips to
// Booked and exactly one reservation is appended, or nothing changes.
// The MySQL implementation lives in internal/repository; InMemoryStore
// serves tests and embedded use.
type Store interface {
	// Init prepares storage for the given layout.  It is idempotent: the
	// pre-booked set is applied only when no seats exist yet; on later
	// calls existing state is left untouched.
	Init(ctx context.Context, layout Layout) error

	// Statuses returns the current status of every seat, ordered by id.
	Statuses(ctx context.Context) ([]SeatStatus, error)

	// CountAvailable returns the number of seats whose status is SeatFree.
	CountAvailable(ctx context.Context) (int, error)

	// Commit atomically marks the given seats Booked and appends one
	// reservation stamped with at.  Every id must be in range and free;
	// otherwise ErrInvalidSeat or ErrSeatAlreadyBooked is returned and no
	// state changes.
	Commit(ctx context.Context, ids []int, at time.Time) (*Reservation, error)

	// Reservations returns the booking history ordered by reservation id.
	Reservations(ctx context.Context) ([]Reservation, error)
}
