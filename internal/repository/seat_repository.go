package repository // repository defines MySQL data access for seats and reservations

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"fmt"
	"strings"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
)

// SeatRepo provides methods to work with the seats table.  Each row is a
// single seat of the coach: seat_id in [0, N) and a status flag (0 free,
// 1 booked).  Seats are created once and never deleted; status only ever
// moves from 0 to 1.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// EnsureSchema creates the seats table when it does not exist yet.
func (r *SeatRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS seats (
	             seat_id INT NOT NULL PRIMARY KEY,
	             status  TINYINT(1) NOT NULL DEFAULT 0
	           )`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Count returns the total number of seat rows.  Init uses this to decide
// whether seeding has already happened.
func (r *SeatRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats`).Scan(&n)
	return n, err
}

// Seed inserts every seat of the layout in a single statement, marking the
// pre-booked set as taken.  Callers must ensure the table is empty.
func (r *SeatRepo) Seed(ctx context.Context, layout allocation.Layout) error {
	pre := make(map[int]struct{}, len(layout.PreBooked))
	for _, id := range layout.PreBooked {
		pre[id] = struct{}{}
	}
	query := `INSERT INTO seats (seat_id, status) VALUES `
	args := make([]interface{}, 0, layout.SeatCount*2)
	for id := 0; id < layout.SeatCount; id++ {
		if id > 0 {
			query += ","
		}
		query += "(?, ?)"
		status := allocation.SeatFree
		if _, booked := pre[id]; booked {
			status = allocation.SeatBooked
		}
		args = append(args, id, status)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Statuses returns every seat status ordered by seat_id.
func (r *SeatRepo) Statuses(ctx context.Context) ([]allocation.SeatStatus, error) {
	const q = `SELECT status FROM seats ORDER BY seat_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []allocation.SeatStatus
	for rows.Next() {
		var st allocation.SeatStatus
		if err := rows.Scan(&st); err != nil {
			return nil, err
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountAvailable returns how many seats are still free.
func (r *SeatRepo) CountAvailable(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE status = 0`).Scan(&n)
	return n, err
}

// BookTx flips the given seats to booked inside an existing transaction.
// Each UPDATE asserts the seat is still free; when no row is affected the
// method distinguishes a missing seat from a taken one and returns the
// matching sentinel.  The caller must roll back on error.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, ids []int) error {
	const upd = `UPDATE seats SET status = 1 WHERE seat_id = ? AND status = 0`
	for _, id := range ids {
		res, err := tx.ExecContext(ctx, upd, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 1 {
			continue
		}
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE seat_id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("%w: %d", allocation.ErrInvalidSeat, id)
		}
		return fmt.Errorf("%w: %d", allocation.ErrSeatAlreadyBooked, id)
	}
	return nil
}

// joinSeatIDs renders ids as the comma-separated form stored in
// reservations.seat_ids, e.g. "3,4,5,6".
func joinSeatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}
