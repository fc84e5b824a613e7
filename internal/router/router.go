package router // package router defines how HTTP routes are registered for the API

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/handler"
	"github.com/iliyamo/train-seat-reservation/internal/metrics"
)

// RegisterRoutes wires every endpoint of the service onto the provided
// Echo instance.  cacheMW is applied only to the read-only seat views;
// rateMW guards everything under /v1.  Either middleware may be nil when
// Redis is not configured.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler, m *metrics.Metrics, cacheMW, rateMW echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring; never rate limited.
	e.GET("/healthz", handler.Health)

	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler(func() {
			if n, err := b.Store.CountAvailable(context.Background()); err == nil {
				m.SetFreeSeats(n)
			}
		})))
	}

	g := e.Group("/v1")
	if rateMW != nil {
		g.Use(rateMW)
	}

	// Read-only seat views may be served from the response cache.
	reads := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		reads = append(reads, cacheMW)
	}
	g.GET("/seats", b.GetSeats, reads...)
	g.GET("/seats/available", b.GetAvailable, reads...)

	// Booking and history always hit the store directly.
	g.POST("/bookings", b.CreateBooking)
	g.GET("/reservations", b.ListReservations)
}
