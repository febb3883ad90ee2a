// Package registry owns the plain record stores: vehicles, and the
// user-directory reads used by reporting. No invariants live here
// beyond store-level uniqueness; the reservation engine only consults
// the vehicle registry at ride creation.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/domain/vehicle"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/logger"
)

// Service is the vehicle/user record registry.
type Service struct {
	db  *sql.DB
	log *logger.Logger
}

// NewService creates a registry service.
func NewService(db *sql.DB, log *logger.Logger) *Service {
	return &Service{db: db, log: log}
}

// CreateVehicleInput carries a new vehicle registration.
type CreateVehicleInput struct {
	Make         string
	Model        string
	Color        *string
	LicensePlate string
	SeatsTotal   int
	Year         *int
	Notes        *string
}

// CreateVehicle registers a vehicle owned by the caller. License
// plates are globally unique.
func (s *Service) CreateVehicle(ctx context.Context, ownerID uuid.UUID, in CreateVehicleInput) (*vehicle.Vehicle, error) {
	v := &vehicle.Vehicle{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Make:         in.Make,
		Model:        in.Model,
		Color:        in.Color,
		LicensePlate: in.LicensePlate,
		SeatsTotal:   in.SeatsTotal,
		Year:         in.Year,
		Notes:        in.Notes,
	}
	if err := v.IsValid(); err != nil {
		return nil, apperr.InvalidArgument(err.Error())
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (vehicle_id, owner_id, make, model, color, license_plate, seats_total, year, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.OwnerID, v.Make, v.Model, v.Color, v.LicensePlate, v.SeatsTotal, v.Year, v.Notes,
	)
	if database.IsUniqueViolation(err, "uq_vehicles_license_plate") {
		return nil, apperr.Conflict(apperr.ReasonPlateTaken, "license plate already registered")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create vehicle", err)
	}

	s.log.Info("vehicle registered",
		logger.String("vehicle_id", v.ID.String()),
		logger.String("owner_id", ownerID.String()),
	)
	return v, nil
}

const vehicleColumns = `vehicle_id, owner_id, make, model, color, license_plate, seats_total, year, notes`

// VehiclesByOwner lists the caller's vehicles.
func (s *Service) VehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]vehicle.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE owner_id = $1`,
		ownerID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list vehicles", err)
	}
	defer rows.Close()

	vehicles := []vehicle.Vehicle{}
	for rows.Next() {
		var v vehicle.Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Color,
			&v.LicensePlate, &v.SeatsTotal, &v.Year, &v.Notes); err != nil {
			return nil, apperr.Internal("failed to scan vehicle", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list vehicles", err)
	}
	return vehicles, nil
}

// GetVehicle returns a vehicle by ID.
func (s *Service) GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	err := s.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE vehicle_id = $1`,
		vehicleID,
	).Scan(&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Color,
		&v.LicensePlate, &v.SeatsTotal, &v.Year, &v.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load vehicle", err)
	}
	return &v, nil
}

const userColumns = `user_id, name, email, phone, role, created_at`

// UserByEmail looks up a user by email. Reporting helper.
func (s *Service) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &u, nil
}

// GetUser returns a user by ID without credential material.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	var u user.User
	err := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`,
		userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return &u, nil
}

// ListUsers returns every user ordered by signup time. Reporting
// helper for the admin console.
func (s *Service) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, apperr.Internal("failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// BookingsOnRide returns the passenger name and booking status for
// every booking on a ride. Reporting helper for manifests.
func (s *Service) BookingsOnRide(ctx context.Context, rideID uuid.UUID) ([]RideBookingRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.booking_id, b.status, b.booking_time, u.name, u.email
		FROM bookings b
		JOIN users u ON u.user_id = b.passenger_id
		WHERE b.ride_id = $1
		ORDER BY b.booking_time`,
		rideID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list ride bookings", err)
	}
	defer rows.Close()

	result := []RideBookingRow{}
	for rows.Next() {
		var row RideBookingRow
		if err := rows.Scan(&row.BookingID, &row.Status, &row.BookingTime, &row.PassengerName, &row.PassengerEmail); err != nil {
			return nil, apperr.Internal("failed to scan ride booking", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list ride bookings", err)
	}
	return result, nil
}

// RideBookingRow is one line of a ride manifest.
type RideBookingRow struct {
	BookingID      uuid.UUID
	Status         string
	BookingTime    time.Time
	PassengerName  string
	PassengerEmail string
}
