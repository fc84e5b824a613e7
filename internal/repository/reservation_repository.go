package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
)

// ReservationRepo provides append and list operations for the
// reservations table.  The table is an audit log: rows are inserted by
// AppendTx and never updated or deleted.  Seat ids are stored as an
// ascending comma-separated string, timestamps in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// EnsureSchema creates the reservations table when it does not exist yet.
func (r *ReservationRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS reservations (
	             reservation_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	             seat_ids   TEXT NOT NULL,
	             created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	           )`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// AppendTx inserts one reservation inside an existing transaction and
// returns the record with its generated id.  No update or delete
// counterpart exists; the log is append-only by design.
func (r *ReservationRepo) AppendTx(ctx context.Context, tx *sql.Tx, ids []int, at time.Time) (*allocation.Reservation, error) {
	const q = `INSERT INTO reservations (seat_ids, created_at) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, q, joinSeatIDs(ids), at.UTC())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &allocation.Reservation{
		ID:        uint64(id),
		SeatIDs:   append([]int(nil), ids...),
		CreatedAt: at.UTC(),
	}, nil
}

// List returns every reservation ordered by id ascending (oldest first).
func (r *ReservationRepo) List(ctx context.Context) ([]allocation.Reservation, error) {
	const q = `SELECT reservation_id, seat_ids, created_at
	           FROM reservations
	           ORDER BY reservation_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]allocation.Reservation, 0)
	for rows.Next() {
		var rec allocation.Reservation
		var seatIDs string
		if err := rows.Scan(&rec.ID, &seatIDs, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.SeatIDs, err = parseSeatIDs(seatIDs)
		if err != nil {
			return nil, fmt.Errorf("reservation %d: %w", rec.ID, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// parseSeatIDs decodes the comma-separated seat_ids column back into ids.
func parseSeatIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("malformed seat_ids %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
