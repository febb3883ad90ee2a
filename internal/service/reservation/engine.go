// Package reservation implements the reservation consistency engine:
// every state transition that touches a ride's seat counter or a
// booking's status goes through here, inside a single transaction.
//
// The invariant the engine protects: for every ride,
// seats_available + confirmed bookings == seats_total fixed at creation.
package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/domain/booking"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/logger"
)

// Engine validates and applies ride/booking state transitions. It is
// the sole writer of seat counts and of statuses resulting from
// booking activity. One operation == one transaction; there is no
// retry loop — a Conflict is terminal for the request.
type Engine struct {
	db  *sql.DB
	log *logger.Logger
	now func() time.Time
}

// NewEngine creates an engine over the shared store pool.
func NewEngine(db *sql.DB, log *logger.Logger) *Engine {
	return &Engine{
		db:  db,
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the engine clock. Test hook.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CreateRideInput carries the driver's offer.
type CreateRideInput struct {
	VehicleID      uuid.UUID
	Origin         string
	Destination    string
	DepartureTime  time.Time
	ArrivalTime    *time.Time
	SeatsRequested int
	PricePerSeat   float64
}

// CreateRide validates vehicle ownership and capacity, then creates a
// scheduled ride. SeatsRequested becomes the ride's fixed capacity for
// the rest of its life; later vehicle edits do not affect it.
func (e *Engine) CreateRide(ctx context.Context, driverID uuid.UUID, in CreateRideInput) (*ride.Ride, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var ownerID uuid.UUID
	var seatsTotal int
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, seats_total FROM vehicles WHERE vehicle_id = $1`,
		in.VehicleID,
	).Scan(&ownerID, &seatsTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("vehicle not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load vehicle", err)
	}

	if ownerID != driverID {
		return nil, apperr.Forbidden("you do not own this vehicle")
	}
	if in.SeatsRequested <= 0 {
		return nil, apperr.InvalidArgument("seats_requested must be positive")
	}
	if in.SeatsRequested > seatsTotal {
		return nil, apperr.InvalidArgument(fmt.Sprintf("seats_requested cannot exceed vehicle capacity (%d)", seatsTotal))
	}
	if in.PricePerSeat < 0 {
		return nil, apperr.InvalidArgument("price_per_seat cannot be negative")
	}

	r := &ride.Ride{
		ID:             uuid.New(),
		DriverID:       driverID,
		VehicleID:      in.VehicleID,
		Origin:         in.Origin,
		Destination:    in.Destination,
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		PricePerSeat:   in.PricePerSeat,
		SeatsTotal:     in.SeatsRequested,
		SeatsAvailable: in.SeatsRequested,
		Status:         ride.StatusScheduled,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO rides (
			ride_id, driver_id, vehicle_id, origin_location, destination_location,
			departure_time, arrival_time, price_per_seat, seats_total, seats_available, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.DriverID, r.VehicleID, r.Origin, r.Destination,
		r.DepartureTime, r.ArrivalTime, r.PricePerSeat, r.SeatsTotal, r.SeatsAvailable, r.Status,
	)
	if err != nil {
		return nil, apperr.Internal("failed to create ride", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	e.log.Info("ride created",
		logger.String("ride_id", r.ID.String()),
		logger.String("driver_id", driverID.String()),
		logger.Int("seats", r.SeatsTotal),
	)
	return r, nil
}

// UpdateRide applies a partial update to a ride. Only supplied fields
// change; the seat counter is not settable through this path. Status
// transitions out of a terminal state are rejected.
func (e *Engine) UpdateRide(ctx context.Context, rideID, driverID uuid.UUID, upd ride.Update) (*ride.Ride, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	r, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}
	if r.DriverID != driverID {
		return nil, apperr.Forbidden("only the driver can update this ride")
	}
	if upd.Status != nil {
		if !upd.Status.IsValid() {
			return nil, apperr.InvalidArgument("invalid status: must be 'scheduled', 'completed', or 'cancelled'")
		}
		if r.Status.IsTerminal() && *upd.Status != r.Status {
			return nil, apperr.InvalidState(ReasonTerminalStatus,
				fmt.Sprintf("ride is %s and cannot change status", r.Status))
		}
	}

	upd.Apply(r)

	_, err = tx.ExecContext(ctx, `
		UPDATE rides
		SET origin_location = $1, destination_location = $2, departure_time = $3,
		    arrival_time = $4, price_per_seat = $5, status = $6
		WHERE ride_id = $7`,
		r.Origin, r.Destination, r.DepartureTime, r.ArrivalTime, r.PricePerSeat, r.Status, r.ID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to update ride", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}
	return r, nil
}

// CancelRide transitions a scheduled ride to cancelled. Existing
// bookings are left untouched: they stay queryable and their later
// cancellation still restores a seat, keeping the counter invariant
// universally true.
func (e *Engine) CancelRide(ctx context.Context, rideID, driverID uuid.UUID) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	r, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return err
	}
	if r.DriverID != driverID {
		return apperr.Forbidden("only the driver can cancel this ride")
	}
	if r.Status.IsTerminal() {
		return apperr.InvalidState(ReasonTerminalStatus,
			fmt.Sprintf("ride is already %s", r.Status))
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE rides SET status = $1 WHERE ride_id = $2`,
		ride.StatusCancelled, rideID,
	)
	if err != nil {
		return apperr.Internal("failed to cancel ride", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Internal("failed to commit transaction", err)
	}

	e.log.Info("ride cancelled",
		logger.String("ride_id", rideID.String()),
		logger.String("driver_id", driverID.String()),
	)
	return nil
}

// ReasonTerminalStatus rejects lifecycle transitions out of
// completed/cancelled rides.
const ReasonTerminalStatus = "terminal-status"

// lockRide reads a ride row under FOR UPDATE so the check-then-write
// that follows is serialized against concurrent mutations.
func lockRide(ctx context.Context, tx *sql.Tx, rideID uuid.UUID) (*ride.Ride, error) {
	r := &ride.Ride{ID: rideID}
	err := tx.QueryRowContext(ctx, `
		SELECT driver_id, vehicle_id, origin_location, destination_location,
		       departure_time, arrival_time, price_per_seat, seats_total, seats_available, status
		FROM rides
		WHERE ride_id = $1
		FOR UPDATE`,
		rideID,
	).Scan(
		&r.DriverID, &r.VehicleID, &r.Origin, &r.Destination,
		&r.DepartureTime, &r.ArrivalTime, &r.PricePerSeat, &r.SeatsTotal, &r.SeatsAvailable, &r.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("ride not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load ride", err)
	}
	return r, nil
}

// uniqueActiveBookingConstraint is the named partial unique index on
// bookings(ride_id, passenger_id) WHERE status <> 'cancelled'.
const uniqueActiveBookingConstraint = "uq_bookings_active_ride_passenger"

// BookResult is the outcome of a successful booking.
type BookResult struct {
	Booking        *booking.Booking
	SeatsAvailable int
	RideStatus     ride.Status
}

// Book reserves one seat on a ride for a passenger. The ride row is
// locked for the duration of the check-and-write, so two concurrent
// calls against the last seat resolve to exactly one success and one
// Conflict("no-seats").
func (e *Engine) Book(ctx context.Context, rideID, passengerID uuid.UUID) (*BookResult, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	r, err := lockRide(ctx, tx, rideID)
	if err != nil {
		return nil, err
	}

	if r.DriverID == passengerID {
		return nil, apperr.InvalidState(apperr.ReasonOwnRide, "you cannot book your own ride")
	}
	if r.Status != ride.StatusScheduled {
		return nil, apperr.InvalidState(apperr.ReasonRideNotBookable,
			fmt.Sprintf("cannot book a ride that is %s", r.Status))
	}
	if !r.DepartureTime.After(e.now()) {
		return nil, apperr.InvalidState(apperr.ReasonRideDeparted, "cannot book a ride that has already departed")
	}

	var alreadyBooked bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE ride_id = $1 AND passenger_id = $2 AND status <> 'cancelled'
		)`,
		rideID, passengerID,
	).Scan(&alreadyBooked)
	if err != nil {
		return nil, apperr.Internal("failed to check existing booking", err)
	}
	if alreadyBooked {
		return nil, apperr.Conflict(apperr.ReasonAlreadyBooked, "you have already booked this ride")
	}

	if r.SeatsAvailable <= 0 {
		return nil, apperr.Conflict(apperr.ReasonNoSeats, "no seats available for this ride")
	}

	b := &booking.Booking{
		ID:          uuid.New(),
		RideID:      rideID,
		PassengerID: passengerID,
		BookingTime: e.now(),
		Status:      booking.StatusConfirmed,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (booking_id, ride_id, passenger_id, booking_time, status)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.RideID, b.PassengerID, b.BookingTime, b.Status,
	)
	if database.IsUniqueViolation(err, uniqueActiveBookingConstraint) {
		return nil, apperr.Conflict(apperr.ReasonAlreadyBooked, "you have already booked this ride")
	}
	if err != nil {
		return nil, apperr.Internal("failed to create booking", err)
	}

	// The seats_available > 0 guard (and the store's check constraint)
	// back up the row lock: zero rows affected means the seat race was
	// lost, not a storage failure.
	res, err := tx.ExecContext(ctx, `
		UPDATE rides SET seats_available = seats_available - 1
		WHERE ride_id = $1 AND seats_available > 0`,
		rideID,
	)
	if database.IsCheckViolation(err, "") {
		return nil, apperr.Conflict(apperr.ReasonNoSeats, "no seats available for this ride")
	}
	if err != nil {
		return nil, apperr.Internal("failed to decrement seats", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperr.Internal("failed to read update result", err)
	}
	if affected != 1 {
		return nil, apperr.Conflict(apperr.ReasonNoSeats, "no seats available for this ride")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	seatsLeft := r.SeatsAvailable - 1
	e.log.Info("booking confirmed",
		logger.String("booking_id", b.ID.String()),
		logger.String("ride_id", rideID.String()),
		logger.String("passenger_id", passengerID.String()),
		logger.Int("seats_available", seatsLeft),
	)
	return &BookResult{Booking: b, SeatsAvailable: seatsLeft, RideStatus: r.Status}, nil
}

// CancelResult is the outcome of a booking cancellation.
type CancelResult struct {
	RideID         uuid.UUID
	SeatsAvailable int
	RideStatus     ride.Status
}

// CancelBooking voids a booking. A confirmed booking restores exactly
// one seat to its ride in the same transaction — even when the ride
// itself was cancelled, since the counter invariant is independent of
// ride status. A pending booking never held a seat, so nothing is
// restored for it.
func (e *Engine) CancelBooking(ctx context.Context, bookingID, passengerID uuid.UUID) (*CancelResult, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var (
		rideID    uuid.UUID
		ownerID   uuid.UUID
		prevState booking.Status
	)
	err = tx.QueryRowContext(ctx, `
		SELECT ride_id, passenger_id, status FROM bookings
		WHERE booking_id = $1
		FOR UPDATE`,
		bookingID,
	).Scan(&rideID, &ownerID, &prevState)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("booking not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load booking", err)
	}

	if ownerID != passengerID {
		return nil, apperr.Forbidden("you can only cancel your own bookings")
	}
	if prevState == booking.StatusCancelled {
		return nil, apperr.InvalidState(apperr.ReasonAlreadyCancelled, "booking is already cancelled")
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE booking_id = $2`,
		booking.StatusCancelled, bookingID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to cancel booking", err)
	}

	result := &CancelResult{RideID: rideID}
	if prevState.HoldsSeat() {
		err = tx.QueryRowContext(ctx, `
			UPDATE rides SET seats_available = seats_available + 1
			WHERE ride_id = $1
			RETURNING seats_available, status`,
			rideID,
		).Scan(&result.SeatsAvailable, &result.RideStatus)
		if err != nil {
			return nil, apperr.Internal("failed to restore seat", err)
		}
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT seats_available, status FROM rides WHERE ride_id = $1`,
			rideID,
		).Scan(&result.SeatsAvailable, &result.RideStatus)
		if err != nil {
			return nil, apperr.Internal("failed to load ride", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Internal("failed to commit transaction", err)
	}

	e.log.Info("booking cancelled",
		logger.String("booking_id", bookingID.String()),
		logger.String("ride_id", rideID.String()),
		logger.Int("seats_available", result.SeatsAvailable),
	)
	return result, nil
}
