package allocation // allocation implements the seat selection engine and its storage contract

import (
	"errors"
	"fmt"
)

// Layout describes the fixed seating plan of a vehicle: how many seats
// exist, how wide a row is, and which seats are already taken when the
// store is first initialized.  The values are configuration, not
// constants, so the engine works for any vehicle shape.
//
// Fields:
//  SeatCount – total number of seats; ids span [0, SeatCount).
//  RowWidth  – seats per row; the last row may be shorter.
//  PreBooked – seat ids marked Booked on first initialization only.
type Layout struct {
	SeatCount int
	RowWidth  int
	PreBooked []int
}

// ErrInvalidLayout is returned by Validate when the layout values are
// inconsistent (non-positive sizes, out-of-range or duplicate pre-booked ids).
var ErrInvalidLayout = errors.New("invalid layout")

// DefaultLayout returns the reference train coach: 80 seats in rows of 7
// (eleven full rows and a final row of 3) with nine seats pre-booked.
func DefaultLayout() Layout {
	return Layout{
		SeatCount: 80,
		RowWidth:  7,
		PreBooked: []int{0, 1, 2, 15, 22, 23, 33, 34, 35},
	}
}

// Validate checks the layout for internal consistency.  All errors wrap
// ErrInvalidLayout so callers can test with errors.Is.
func (l Layout) Validate() error {
	if l.SeatCount < 1 {
		return fmt.Errorf("%w: seat count %d must be at least 1", ErrInvalidLayout, l.SeatCount)
	}
	if l.RowWidth < 1 || l.RowWidth > l.SeatCount {
		return fmt.Errorf("%w: row width %d must be in [1, %d]", ErrInvalidLayout, l.RowWidth, l.SeatCount)
	}
	seen := make(map[int]struct{}, len(l.PreBooked))
	for _, id := range l.PreBooked {
		if id < 0 || id >= l.SeatCount {
			return fmt.Errorf("%w: pre-booked seat %d out of range [0, %d)", ErrInvalidLayout, id, l.SeatCount)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: pre-booked seat %d listed twice", ErrInvalidLayout, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// NumRows returns how many rows the layout has, counting a trailing
// partial row.
func (l Layout) NumRows() int {
	return (l.SeatCount + l.RowWidth - 1) / l.RowWidth
}

// RowBounds returns the half-open id range [start, end) of row r.  The
// final row is clipped at SeatCount.
func (l Layout) RowBounds(r int) (start, end int) {
	start = r * l.RowWidth
	end = start + l.RowWidth
	if end > l.SeatCount {
		end = l.SeatCount
	}
	return start, end
}
