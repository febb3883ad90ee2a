package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/domain/booking"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/domain/vehicle"
)

// RegisterRequest represents a new user signup
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateVehicleRequest represents a vehicle registration
type CreateVehicleRequest struct {
	Make         string  `json:"make" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	Color        *string `json:"color,omitempty"`
	LicensePlate string  `json:"license_plate" binding:"required"`
	SeatsTotal   int     `json:"seats_total" binding:"required,min=1"`
	Year         *int    `json:"year,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// CreateRideRequest represents a driver publishing a ride offer
type CreateRideRequest struct {
	VehicleID     uuid.UUID  `json:"vehicle_id" binding:"required"`
	Origin        string     `json:"origin_location" binding:"required"`
	Destination   string     `json:"destination_location" binding:"required"`
	DepartureTime time.Time  `json:"departure_time" binding:"required"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	SeatsTotal    int        `json:"seats_total" binding:"required,min=1"`
	PricePerSeat  float64    `json:"price_per_seat"`
}

// UpdateRideRequest carries a partial ride edit. Seat counters are
// never client-writable; the engine owns them.
type UpdateRideRequest struct {
	Origin        *string    `json:"origin_location,omitempty"`
	Destination   *string    `json:"destination_location,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	PricePerSeat  *float64   `json:"price_per_seat,omitempty"`
	Status        *string    `json:"status,omitempty"`
}

// ToUpdate converts the request into a domain patch.
func (r *UpdateRideRequest) ToUpdate() ride.Update {
	upd := ride.Update{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime,
		ArrivalTime:   r.ArrivalTime,
		PricePerSeat:  r.PricePerSeat,
	}
	if r.Status != nil {
		st := ride.Status(*r.Status)
		upd.Status = &st
	}
	return upd
}

// UserResponse is a user sans credential material
type UserResponse struct {
	ID        uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its API shape.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is returned from register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// BookingResponse is a booking plus the ride's post-operation seat
// count, so clients can render availability without a second read.
type BookingResponse struct {
	Booking        booking.Booking `json:"booking"`
	SeatsAvailable int             `json:"seats_available"`
	RideStatus     string          `json:"ride_status"`
}

// RideListResponse wraps a ride collection
type RideListResponse struct {
	Rides []ride.Ride `json:"rides"`
	Count int         `json:"count"`
}

// VehicleListResponse wraps a vehicle collection
type VehicleListResponse struct {
	Vehicles []vehicle.Vehicle `json:"vehicles"`
	Count    int               `json:"count"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}
