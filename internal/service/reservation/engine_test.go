package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/carpool/internal/domain/booking"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/logger"
)

var (
	testNow       = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	testDeparture = testNow.Add(24 * time.Hour)
)

func newTestEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	eng := NewEngine(db, logger.Nop()).WithClock(func() time.Time { return testNow })
	return eng, mock
}

func rideColumns() []string {
	return []string{
		"driver_id", "vehicle_id", "origin_location", "destination_location",
		"departure_time", "arrival_time", "price_per_seat", "seats_total", "seats_available", "status",
	}
}

func rideRow(driverID, vehicleID uuid.UUID, departure time.Time, seats int, status ride.Status) *sqlmock.Rows {
	return sqlmock.NewRows(rideColumns()).
		AddRow(driverID, vehicleID, "North Campus", "Airport", departure, nil, 12.50, 3, seats, status)
}

func expectLockRide(mock sqlmock.Sqlmock, rideID uuid.UUID, rows *sqlmock.Rows) {
	mock.ExpectQuery(`SELECT driver_id, vehicle_id(.+)FROM rides(.+)FOR UPDATE`).
		WithArgs(rideID).
		WillReturnRows(rows)
}

func expectNoActiveBooking(mock sqlmock.Sqlmock, rideID, passengerID uuid.UUID, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS(.+)FROM bookings`).
		WithArgs(rideID, passengerID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestBook_Success(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	expectNoActiveBooking(mock, rideID, passengerID, false)
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), rideID, passengerID, testNow, booking.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rides SET seats_available = seats_available - 1`).
		WithArgs(rideID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := eng.Book(context.Background(), rideID, passengerID)
	require.NoError(t, err)
	assert.Equal(t, rideID, res.Booking.RideID)
	assert.Equal(t, passengerID, res.Booking.PassengerID)
	assert.Equal(t, booking.StatusConfirmed, res.Booking.Status)
	assert.Equal(t, 1, res.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_RideNotFound(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, passengerID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, sqlmock.NewRows(rideColumns()))
	mock.ExpectRollback()

	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_OwnRide(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	mock.ExpectRollback()

	// driver books their own ride; no booking query may run
	_, err := eng.Book(context.Background(), rideID, driverID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonOwnRide))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_RideNotBookable(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	for _, status := range []ride.Status{ride.StatusCancelled, ride.StatusCompleted} {
		mock.ExpectBegin()
		expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, status))
		mock.ExpectRollback()

		_, err := eng.Book(context.Background(), rideID, passengerID)
		require.Error(t, err)
		assert.True(t, apperr.HasReason(err, apperr.ReasonRideNotBookable), "status %s", status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_RideDeparted(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testNow.Add(-time.Hour), 2, ride.StatusScheduled))
	mock.ExpectRollback()

	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonRideDeparted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_DepartureExactlyNowRejected(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testNow, 2, ride.StatusScheduled))
	mock.ExpectRollback()

	// departure must be strictly in the future
	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonRideDeparted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_AlreadyBooked(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	expectNoActiveBooking(mock, rideID, passengerID, true)
	mock.ExpectRollback()

	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonAlreadyBooked))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBook_NoSeats(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 0, ride.StatusScheduled))
	expectNoActiveBooking(mock, rideID, passengerID, false)
	mock.ExpectRollback()

	// no INSERT and no UPDATE may be attempted
	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonNoSeats))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The loser of a seat race reads seats_available > 0 under the lock of
// a newer snapshot, yet the guarded decrement touches zero rows. That
// outcome must surface as Conflict("no-seats") with a full rollback,
// never as a booking without a seat.
func TestBook_LostRaceOnDecrement(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID, passengerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 1, ride.StatusScheduled))
	expectNoActiveBooking(mock, rideID, passengerID, false)
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(sqlmock.AnyArg(), rideID, passengerID, testNow, booking.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rides SET seats_available = seats_available - 1`).
		WithArgs(rideID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := eng.Book(context.Background(), rideID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonNoSeats))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_RestoresSeat(t *testing.T) {
	eng, mock := newTestEngine(t)
	bookingID, rideID, passengerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}).
			AddRow(rideID, passengerID, booking.StatusConfirmed))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(booking.StatusCancelled, bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE rides SET seats_available = seats_available \+ 1`).
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"seats_available", "status"}).
			AddRow(2, ride.StatusScheduled))
	mock.ExpectCommit()

	res, err := eng.CancelBooking(context.Background(), bookingID, passengerID)
	require.NoError(t, err)
	assert.Equal(t, rideID, res.RideID)
	assert.Equal(t, 2, res.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The seat restore is bookkeeping on the counter invariant, not a ride
// lifecycle rule, so it happens even when the ride was cancelled.
func TestCancelBooking_RestoresSeatOnCancelledRide(t *testing.T) {
	eng, mock := newTestEngine(t)
	bookingID, rideID, passengerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}).
			AddRow(rideID, passengerID, booking.StatusConfirmed))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(booking.StatusCancelled, bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE rides SET seats_available = seats_available \+ 1`).
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"seats_available", "status"}).
			AddRow(3, ride.StatusCancelled))
	mock.ExpectCommit()

	res, err := eng.CancelBooking(context.Background(), bookingID, passengerID)
	require.NoError(t, err)
	assert.Equal(t, ride.StatusCancelled, res.RideStatus)
	assert.Equal(t, 3, res.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A pending booking never decremented the counter, so its cancellation
// must not increment it.
func TestCancelBooking_PendingDoesNotRestoreSeat(t *testing.T) {
	eng, mock := newTestEngine(t)
	bookingID, rideID, passengerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}).
			AddRow(rideID, passengerID, booking.StatusPending))
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(booking.StatusCancelled, bookingID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT seats_available, status FROM rides`).
		WithArgs(rideID).
		WillReturnRows(sqlmock.NewRows([]string{"seats_available", "status"}).
			AddRow(2, ride.StatusScheduled))
	mock.ExpectCommit()

	res, err := eng.CancelBooking(context.Background(), bookingID, passengerID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_SecondCancelRejected(t *testing.T) {
	eng, mock := newTestEngine(t)
	bookingID, rideID, passengerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}).
			AddRow(rideID, passengerID, booking.StatusCancelled))
	mock.ExpectRollback()

	// rejected second cancel must not touch the seat counter
	_, err := eng.CancelBooking(context.Background(), bookingID, passengerID)
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, apperr.ReasonAlreadyCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_ForbiddenForOtherPassenger(t *testing.T) {
	eng, mock := newTestEngine(t)
	bookingID, rideID, ownerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}).
			AddRow(rideID, ownerID, booking.StatusConfirmed))
	mock.ExpectRollback()

	_, err := eng.CancelBooking(context.Background(), bookingID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_NotFound(t *testing.T) {
	eng, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT ride_id, passenger_id, status FROM bookings(.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"ride_id", "passenger_id", "status"}))
	mock.ExpectRollback()

	_, err := eng.CancelBooking(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectVehicleLookup(mock sqlmock.Sqlmock, vehicleID, ownerID uuid.UUID, seatsTotal int) {
	mock.ExpectQuery(`SELECT owner_id, seats_total FROM vehicles`).
		WithArgs(vehicleID).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seats_total"}).AddRow(ownerID, seatsTotal))
}

func TestCreateRide_Success(t *testing.T) {
	eng, mock := newTestEngine(t)
	driverID, vehicleID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectVehicleLookup(mock, vehicleID, driverID, 4)
	mock.ExpectExec(`INSERT INTO rides`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := eng.CreateRide(context.Background(), driverID, CreateRideInput{
		VehicleID:      vehicleID,
		Origin:         "North Campus",
		Destination:    "Airport",
		DepartureTime:  testDeparture,
		SeatsRequested: 3,
		PricePerSeat:   12.50,
	})
	require.NoError(t, err)
	assert.Equal(t, ride.StatusScheduled, r.Status)
	assert.Equal(t, 3, r.SeatsTotal)
	assert.Equal(t, 3, r.SeatsAvailable)
	assert.Equal(t, driverID, r.DriverID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRide_VehicleNotFound(t *testing.T) {
	eng, mock := newTestEngine(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT owner_id, seats_total FROM vehicles`).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id", "seats_total"}))
	mock.ExpectRollback()

	_, err := eng.CreateRide(context.Background(), uuid.New(), CreateRideInput{
		VehicleID:      uuid.New(),
		SeatsRequested: 2,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRide_NotVehicleOwner(t *testing.T) {
	eng, mock := newTestEngine(t)
	vehicleID := uuid.New()

	mock.ExpectBegin()
	expectVehicleLookup(mock, vehicleID, uuid.New(), 4)
	mock.ExpectRollback()

	_, err := eng.CreateRide(context.Background(), uuid.New(), CreateRideInput{
		VehicleID:      vehicleID,
		SeatsRequested: 2,
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRide_InvalidArguments(t *testing.T) {
	tests := []struct {
		name  string
		seats int
		price float64
	}{
		{"zero seats", 0, 10},
		{"negative seats", -1, 10},
		{"seats above capacity", 5, 10},
		{"negative price", 2, -0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, mock := newTestEngine(t)
			driverID, vehicleID := uuid.New(), uuid.New()

			mock.ExpectBegin()
			expectVehicleLookup(mock, vehicleID, driverID, 4)
			mock.ExpectRollback()

			// nothing is inserted on a validation failure
			_, err := eng.CreateRide(context.Background(), driverID, CreateRideInput{
				VehicleID:      vehicleID,
				DepartureTime:  testDeparture,
				SeatsRequested: tt.seats,
				PricePerSeat:   tt.price,
			})
			require.Error(t, err)
			assert.Equal(t, "INVALID_ARGUMENT", apperr.From(err).Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCancelRide_Success(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	mock.ExpectExec(`UPDATE rides SET status`).
		WithArgs(ride.StatusCancelled, rideID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := eng.CancelRide(context.Background(), rideID, driverID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRide_OnlyDriver(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	mock.ExpectRollback()

	err := eng.CancelRide(context.Background(), rideID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRide_TerminalRejected(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	for _, status := range []ride.Status{ride.StatusCancelled, ride.StatusCompleted} {
		mock.ExpectBegin()
		expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, status))
		mock.ExpectRollback()

		err := eng.CancelRide(context.Background(), rideID, driverID)
		require.Error(t, err)
		assert.True(t, apperr.HasReason(err, ReasonTerminalStatus), "status %s", status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRide_PartialFields(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	newPrice := 15.0
	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	// unspecified fields keep their stored values in the written row
	mock.ExpectExec(`UPDATE rides(.+)SET origin_location`).
		WithArgs("North Campus", "Airport", testDeparture, nil, newPrice, ride.StatusScheduled, rideID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := eng.UpdateRide(context.Background(), rideID, driverID, ride.Update{PricePerSeat: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, newPrice, r.PricePerSeat)
	assert.Equal(t, "North Campus", r.Origin)
	assert.Equal(t, 2, r.SeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRide_InvalidStatusEnum(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	bad := ride.Status("departed")
	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	mock.ExpectRollback()

	_, err := eng.UpdateRide(context.Background(), rideID, driverID, ride.Update{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, "INVALID_ARGUMENT", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRide_NoTransitionOutOfTerminal(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	scheduled := ride.StatusScheduled
	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusCancelled))
	mock.ExpectRollback()

	_, err := eng.UpdateRide(context.Background(), rideID, driverID, ride.Update{Status: &scheduled})
	require.Error(t, err)
	assert.True(t, apperr.HasReason(err, ReasonTerminalStatus))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRide_Forbidden(t *testing.T) {
	eng, mock := newTestEngine(t)
	rideID, driverID, vehicleID := uuid.New(), uuid.New(), uuid.New()

	origin := "South Campus"
	mock.ExpectBegin()
	expectLockRide(mock, rideID, rideRow(driverID, vehicleID, testDeparture, 2, ride.StatusScheduled))
	mock.ExpectRollback()

	_, err := eng.UpdateRide(context.Background(), rideID, uuid.New(), ride.Update{Origin: &origin})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
