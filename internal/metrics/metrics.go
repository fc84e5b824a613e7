package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the booking service.
type Metrics struct {
	registry        *prometheus.Registry
	bookingsTotal   prometheus.Counter
	seatsBooked     prometheus.Counter
	rejectionsTotal *prometheus.CounterVec
	freeSeats       prometheus.Gauge
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	bookingsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_reservations_total",
		Help: "Total number of successful bookings",
	})
	seatsBooked := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_seats_booked_total",
		Help: "Total number of seats transitioned from free to booked",
	})
	rejectionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_rejections_total",
		Help: "Booking requests rejected, labelled by reason",
	}, []string{"reason"})
	freeSeats := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "booking_free_seats",
		Help: "Number of seats currently free",
	})

	registry.MustRegister(bookingsTotal, seatsBooked, rejectionsTotal, freeSeats)

	return &Metrics{
		registry:        registry,
		bookingsTotal:   bookingsTotal,
		seatsBooked:     seatsBooked,
		rejectionsTotal: rejectionsTotal,
		freeSeats:       freeSeats,
	}
}

// ObserveBooking records one successful booking of n seats.
func (m *Metrics) ObserveBooking(n int) {
	m.bookingsTotal.Inc()
	m.seatsBooked.Add(float64(n))
}

// ObserveRejection records a rejected booking request.  reason is one of
// "invalid_request", "insufficient_seats" or "persistence".
func (m *Metrics) ObserveRejection(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// SetFreeSeats sets the free-seat gauge.
func (m *Metrics) SetFreeSeats(n int) {
	m.freeSeats.Set(float64(n))
}

// Handler returns an http.Handler that serves the registry.  updateGauges
// is called before each scrape to refresh gauge values (e.g. free seats).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
