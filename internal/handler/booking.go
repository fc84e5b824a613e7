package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/allocation"
	"github.com/iliyamo/train-seat-reservation/internal/metrics"
	"github.com/iliyamo/train-seat-reservation/internal/queue"
	queue_publisher "github.com/iliyamo/train-seat-reservation/internal/service"
)

// Seat display symbols, matching the persisted status values.
const (
	symbolFree   = "O"
	symbolBooked = "X"
)

// BookingHandler exposes the allocation engine and its store over HTTP.
// It owns no booking logic: every decision is made by the engine, and the
// handler only translates outcomes into status codes.  This service is
// open by design (no user accounts), so there is no auth middleware.
type BookingHandler struct {
	Engine  *allocation.Engine
	Store   allocation.Store
	Metrics *metrics.Metrics // optional
	Log     *slog.Logger

	// Publish emits the post-commit event; defaults to the RabbitMQ
	// publisher and is replaceable in tests.
	Publish func(ctx context.Context, ev queue.SeatsBookedEvent) error
}

// NewBookingHandler constructs a BookingHandler.  Engine and store must be
// non-nil; metrics may be nil to disable instrumentation.
func NewBookingHandler(engine *allocation.Engine, store allocation.Store, m *metrics.Metrics, log *slog.Logger) *BookingHandler {
	if engine == nil || store == nil {
		panic("nil engine or store passed to NewBookingHandler")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BookingHandler{
		Engine:  engine,
		Store:   store,
		Metrics: m,
		Log:     log,
		Publish: queue_publisher.PublishSeatsBooked,
	}
}

// GetSeats handles GET /v1/seats.  It renders the full seat map as "O"
// (free) / "X" (booked) symbols ordered by seat id, for display only.
func (h *BookingHandler) GetSeats(c echo.Context) error {
	statuses, err := h.Store.Statuses(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again"})
	}
	seats := make([]string, len(statuses))
	available := 0
	for i, st := range statuses {
		if st == allocation.SeatFree {
			seats[i] = symbolFree
			available++
		} else {
			seats[i] = symbolBooked
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seats":     seats,
		"available": available,
	})
}

// GetAvailable handles GET /v1/seats/available and returns the free count.
func (h *BookingHandler) GetAvailable(c echo.Context) error {
	n, err := h.Store.CountAvailable(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": n})
}

// CreateBooking handles POST /v1/bookings.  The body is {"seats": k}.
// Responses:
//
//	201 {reservation_id, seat_ids, available}  booking committed
//	400                                        k < 1 or malformed body
//	409                                        fewer than k seats free
//	500                                        internal consistency violation
//	503                                        persistence failure, try again
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body struct {
		Seats int `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	res, err := h.Engine.Book(ctx, body.Seats)
	if err != nil {
		return h.bookingError(c, err)
	}

	available, cntErr := h.Store.CountAvailable(ctx)
	if cntErr != nil {
		// The booking is committed; report it even if the recount failed.
		available = -1
	}
	if h.Metrics != nil {
		h.Metrics.ObserveBooking(len(res.SeatIDs))
		if available >= 0 {
			h.Metrics.SetFreeSeats(available)
		}
	}
	h.publishEvent(res, available)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": res.ID,
		"seat_ids":       res.SeatIDs,
		"available":      available,
	})
}

// bookingError maps engine errors onto HTTP outcomes, keeping the
// "not enough seats" and "try again" conditions distinguishable.
func (h *BookingHandler) bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, allocation.ErrInvalidRequest):
		h.observeRejection("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be at least 1"})
	case errors.Is(err, allocation.ErrInsufficientSeats):
		h.observeRejection("insufficient_seats")
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats available"})
	case errors.Is(err, allocation.ErrInvalidSeat), errors.Is(err, allocation.ErrSeatAlreadyBooked):
		// A contract violation inside the store; the transaction has been
		// rolled back, nothing is partially applied.
		h.Log.Error("seat store contract violation", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	default:
		h.observeRejection("persistence")
		h.Log.Error("booking persistence failure", "err", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again"})
	}
}

func (h *BookingHandler) observeRejection(reason string) {
	if h.Metrics != nil {
		h.Metrics.ObserveRejection(reason)
	}
}

// publishEvent emits the SeatsBookedEvent for the committed reservation.
// Failures are logged and ignored; the booking already succeeded.
func (h *BookingHandler) publishEvent(res *allocation.Reservation, available int) {
	labels := make([]string, len(res.SeatIDs))
	for i, id := range res.SeatIDs {
		labels[i] = strconv.Itoa(id + 1) // passengers see 1-based seat numbers
	}
	ev := queue.SeatsBookedEvent{
		ReservationID: res.ID,
		SeatIDs:       res.SeatIDs,
		SeatLabels:    labels,
		Available:     available,
		BookedAt:      res.CreatedAt.Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}

// ListReservations handles GET /v1/reservations and returns the full
// booking history, oldest first.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	items, err := h.Store.Reservations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
