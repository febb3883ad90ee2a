package ride

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the ride lifecycle state
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Ride is a scheduled trip offering seats. SeatsTotal is the capacity
// fixed at creation; SeatsAvailable is derived from confirmed bookings
// against it and is mutated only by the reservation engine.
type Ride struct {
	ID             uuid.UUID  `json:"ride_id"`
	DriverID       uuid.UUID  `json:"driver_id"`
	VehicleID      uuid.UUID  `json:"vehicle_id"`
	Origin         string     `json:"origin_location"`
	Destination    string     `json:"destination_location"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	PricePerSeat   float64    `json:"price_per_seat"`
	SeatsTotal     int        `json:"seats_total"`
	SeatsAvailable int        `json:"seats_available"`
	Status         Status     `json:"status"`
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further lifecycle transition is
// allowed out of this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsBookable reports whether the ride can accept a booking at the
// given instant, ignoring seat inventory.
func (r *Ride) IsBookable(now time.Time) bool {
	return r.Status == StatusScheduled && r.DepartureTime.After(now)
}

// Update is a partial-update payload for a ride. Nil means "leave the
// field unchanged". SeatsAvailable is deliberately absent: the counter
// is derived, never assigned from outside the engine.
type Update struct {
	Origin        *string    `json:"origin_location,omitempty"`
	Destination   *string    `json:"destination_location,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	PricePerSeat  *float64   `json:"price_per_seat,omitempty"`
	Status        *Status    `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (u *Update) IsEmpty() bool {
	return u.Origin == nil && u.Destination == nil && u.DepartureTime == nil &&
		u.ArrivalTime == nil && u.PricePerSeat == nil && u.Status == nil
}

// Apply overlays the set fields onto r.
func (u *Update) Apply(r *Ride) {
	if u.Origin != nil {
		r.Origin = *u.Origin
	}
	if u.Destination != nil {
		r.Destination = *u.Destination
	}
	if u.DepartureTime != nil {
		r.DepartureTime = *u.DepartureTime
	}
	if u.ArrivalTime != nil {
		r.ArrivalTime = u.ArrivalTime
	}
	if u.PricePerSeat != nil {
		r.PricePerSeat = *u.PricePerSeat
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
}

// SearchFilter narrows the scheduled-future ride listing.
type SearchFilter struct {
	Origin      string     // case-insensitive substring
	Destination string     // case-insensitive substring
	Date        *time.Time // any departure within that UTC day
}
