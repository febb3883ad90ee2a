package vehicle

import (
	"errors"

	"github.com/google/uuid"
)

// Vehicle is the capacity source for rides. The engine reads OwnerID
// and SeatsTotal once at ride creation; later edits to the vehicle do
// not retroactively change existing rides.
type Vehicle struct {
	ID           uuid.UUID `json:"vehicle_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Color        *string   `json:"color,omitempty"`
	LicensePlate string    `json:"license_plate"`
	SeatsTotal   int       `json:"seats_total"`
	Year         *int      `json:"year,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

var (
	ErrInvalidSeatsTotal = errors.New("seats_total must be positive")
	ErrMissingPlate      = errors.New("license plate is required")
)

// IsValid validates the vehicle entity
func (v *Vehicle) IsValid() error {
	if v.SeatsTotal <= 0 {
		return ErrInvalidSeatsTotal
	}
	if v.LicensePlate == "" {
		return ErrMissingPlate
	}
	return nil
}
