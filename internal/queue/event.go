// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatsBookedEvent is published after a booking commits.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.  SeatIDs are 0-based storage ids;
// SeatLabels are the 1-based numbers passengers see on the coach.
type SeatsBookedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	SeatIDs       []int    `json:"seat_ids"`
	SeatLabels    []string `json:"seats"`
	Available     int      `json:"available_after"`
	BookedAt      string   `json:"booked_at"`
}
