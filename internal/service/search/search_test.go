package search

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

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewService(db, nil, 0, logger.Nop()).WithClock(func() time.Time { return testNow })
	return svc, mock
}

func rideRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"ride_id", "driver_id", "vehicle_id", "origin_location", "destination_location",
		"departure_time", "arrival_time", "price_per_seat", "seats_total", "seats_available", "status",
	})
	for i, id := range ids {
		rows.AddRow(id, uuid.New(), uuid.New(), "North Campus", "Airport",
			testNow.Add(time.Duration(i+1)*time.Hour), nil, 12.5, 3, 2, ride.StatusScheduled)
	}
	return rows
}

func TestSearchRides_NoFilter(t *testing.T) {
	svc, mock := newTestService(t)
	id1, id2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM rides(.+)WHERE status = \$1 AND departure_time >= \$2 ORDER BY departure_time ASC`).
		WithArgs(ride.StatusScheduled, testNow).
		WillReturnRows(rideRows(id1, id2))

	rides, err := svc.SearchRides(context.Background(), ride.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, rides, 2)
	assert.Equal(t, id1, rides[0].ID)
	assert.Equal(t, id2, rides[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRides_OriginAndDestinationFilters(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(`origin_location ILIKE \$3 AND destination_location ILIKE \$4`).
		WithArgs(ride.StatusScheduled, testNow, "%north%", "%air%").
		WillReturnRows(rideRows(uuid.New()))

	rides, err := svc.SearchRides(context.Background(), ride.SearchFilter{Origin: "north", Destination: "air"})
	require.NoError(t, err)
	assert.Len(t, rides, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRides_DateFilterCoversUTCDay(t *testing.T) {
	svc, mock := newTestService(t)
	date := time.Date(2026, 3, 20, 15, 30, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	mock.ExpectQuery(`departure_time >= \$3 AND departure_time <= \$4`).
		WithArgs(ride.StatusScheduled, testNow, dayStart, dayEnd).
		WillReturnRows(rideRows())

	rides, err := svc.SearchRides(context.Background(), ride.SearchFilter{Date: &date})
	require.NoError(t, err)
	assert.Empty(t, rides)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRidesByDriver_DescendingDeparture(t *testing.T) {
	svc, mock := newTestService(t)
	driverID := uuid.New()

	mock.ExpectQuery(`WHERE driver_id = \$1 ORDER BY departure_time DESC`).
		WithArgs(driverID).
		WillReturnRows(rideRows(uuid.New(), uuid.New()))

	rides, err := svc.RidesByDriver(context.Background(), driverID)
	require.NoError(t, err)
	assert.Len(t, rides, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRide_NotFound(t *testing.T) {
	svc, mock := newTestService(t)
	rideID := uuid.New()

	mock.ExpectQuery(`FROM rides WHERE ride_id = \$1`).
		WithArgs(rideID).
		WillReturnRows(rideRows())

	_, err := svc.GetRide(context.Background(), rideID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.From(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingsByPassenger_DescendingBookingTime(t *testing.T) {
	svc, mock := newTestService(t)
	passengerID := uuid.New()
	b1, b2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM bookings(.+)WHERE passenger_id = \$1(.+)ORDER BY booking_time DESC`).
		WithArgs(passengerID).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "ride_id", "passenger_id", "booking_time", "status"}).
			AddRow(b1, uuid.New(), passengerID, testNow, booking.StatusConfirmed).
			AddRow(b2, uuid.New(), passengerID, testNow.Add(-time.Hour), booking.StatusCancelled))

	bookings, err := svc.BookingsByPassenger(context.Background(), passengerID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, b1, bookings[0].ID)
	assert.Equal(t, booking.StatusCancelled, bookings[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
