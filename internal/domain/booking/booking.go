package booking

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the booking lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a passenger's claim on one seat of one ride. At most one
// non-cancelled booking may exist per (ride, passenger) pair; a
// passenger may book again after cancelling.
type Booking struct {
	ID          uuid.UUID `json:"booking_id"`
	RideID      uuid.UUID `json:"ride_id"`
	PassengerID uuid.UUID `json:"passenger_id"`
	BookingTime time.Time `json:"booking_time"`
	Status      Status    `json:"status"`
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// HoldsSeat reports whether a booking in this status has a seat
// decremented from its ride. Pending bookings never decremented the
// counter, so cancelling one must not increment it either.
func (s Status) HoldsSeat() bool {
	return s == StatusConfirmed
}
