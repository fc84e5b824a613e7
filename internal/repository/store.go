package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
)

// Store is the durable allocation.Store backed by MySQL.  It composes the
// seat and reservation repositories and owns the transaction that makes a
// booking atomic: either every seat flips to booked and one reservation
// row is appended, or the database is left untouched.  There is no
// in-memory mirror; every read goes to the database, which stays the
// single source of truth across restarts.
type Store struct {
	db           *sql.DB
	seats        *SeatRepo
	reservations *ReservationRepo
}

var _ allocation.Store = (*Store)(nil)

// NewStore builds a Store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		seats:        NewSeatRepo(db),
		reservations: NewReservationRepo(db),
	}
}

// Init implements allocation.Store.Init.  Tables are created when missing
// and seats are seeded only when the seats table is empty, so rerunning
// it against an existing database changes nothing.
func (s *Store) Init(ctx context.Context, layout allocation.Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if err := s.seats.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("create seats table: %w", err)
	}
	if err := s.reservations.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("create reservations table: %w", err)
	}
	n, err := s.seats.Count(ctx)
	if err != nil {
		return fmt.Errorf("count seats: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := s.seats.Seed(ctx, layout); err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}
	return nil
}

// Statuses implements allocation.Store.Statuses.
func (s *Store) Statuses(ctx context.Context) ([]allocation.SeatStatus, error) {
	return s.seats.Statuses(ctx)
}

// CountAvailable implements allocation.Store.CountAvailable.
func (s *Store) CountAvailable(ctx context.Context) (int, error) {
	return s.seats.CountAvailable(ctx)
}

// Commit implements allocation.Store.Commit.  The seat updates and the
// reservation insert run in one transaction; any failure rolls the whole
// booking back.
func (s *Store) Commit(ctx context.Context, ids []int, at time.Time) (*allocation.Reservation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin booking transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.seats.BookTx(ctx, tx, ids); err != nil {
		return nil, err
	}
	res, err := s.reservations.AppendTx(ctx, tx, ids, at)
	if err != nil {
		return nil, fmt.Errorf("append reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking transaction: %w", err)
	}
	committed = true
	return res, nil
}

// Reservations implements allocation.Store.Reservations.
func (s *Store) Reservations(ctx context.Context) ([]allocation.Reservation, error) {
	return s.reservations.List(ctx)
}
