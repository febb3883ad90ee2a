// Package search is the read-only listing path over the ride and
// booking stores. It never writes, and a slightly stale read is
// acceptable: the reservation engine re-validates everything at
// booking time inside its own transaction.
package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gocomet/carpool/internal/domain/booking"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/logger"
)

// Service answers listing and lookup queries.
type Service struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewService creates a search service. redisClient may be nil, in
// which case every query goes straight to the store.
func NewService(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

const rideColumns = `ride_id, driver_id, vehicle_id, origin_location, destination_location,
	departure_time, arrival_time, price_per_seat, seats_total, seats_available, status`

// SearchRides returns scheduled future rides matching the filter,
// ordered by ascending departure time.
func (s *Service) SearchRides(ctx context.Context, filter ride.SearchFilter) ([]ride.Ride, error) {
	if cached, ok := s.cachedSearch(ctx, filter); ok {
		return cached, nil
	}

	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE status = $1 AND departure_time >= $2`
	args := []interface{}{ride.StatusScheduled, s.now()}

	if filter.Origin != "" {
		args = append(args, "%"+filter.Origin+"%")
		query += fmt.Sprintf(" AND origin_location ILIKE $%d", len(args))
	}
	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		query += fmt.Sprintf(" AND destination_location ILIKE $%d", len(args))
	}
	if filter.Date != nil {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
		args = append(args, dayStart)
		query += fmt.Sprintf(" AND departure_time >= $%d", len(args))
		args = append(args, dayEnd)
		query += fmt.Sprintf(" AND departure_time <= $%d", len(args))
	}
	query += " ORDER BY departure_time ASC"

	rides, err := s.queryRides(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	s.storeSearch(ctx, filter, rides)
	return rides, nil
}

// RidesByDriver returns all rides offered by a driver, newest
// departure first.
func (s *Service) RidesByDriver(ctx context.Context, driverID uuid.UUID) ([]ride.Ride, error) {
	return s.queryRides(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE driver_id = $1 ORDER BY departure_time DESC`,
		driverID,
	)
}

// GetRide returns a single ride by ID.
func (s *Service) GetRide(ctx context.Context, rideID uuid.UUID) (*ride.Ride, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+rideColumns+` FROM rides WHERE ride_id = $1`,
		rideID,
	)
	r, err := scanRide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("ride not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load ride", err)
	}
	return r, nil
}

// BookingsByPassenger returns a passenger's bookings, most recent
// first. Cancelled bookings stay in the listing.
func (s *Service) BookingsByPassenger(ctx context.Context, passengerID uuid.UUID) ([]booking.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT booking_id, ride_id, passenger_id, booking_time, status
		FROM bookings
		WHERE passenger_id = $1
		ORDER BY booking_time DESC`,
		passengerID,
	)
	if err != nil {
		return nil, apperr.Internal("failed to list bookings", err)
	}
	defer rows.Close()

	bookings := []booking.Booking{}
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(&b.ID, &b.RideID, &b.PassengerID, &b.BookingTime, &b.Status); err != nil {
			return nil, apperr.Internal("failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *Service) queryRides(ctx context.Context, query string, args ...interface{}) ([]ride.Ride, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal("failed to list rides", err)
	}
	defer rows.Close()

	rides := []ride.Ride{}
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan ride", err)
		}
		rides = append(rides, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to list rides", err)
	}
	return rides, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	var r ride.Ride
	err := row.Scan(
		&r.ID, &r.DriverID, &r.VehicleID, &r.Origin, &r.Destination,
		&r.DepartureTime, &r.ArrivalTime, &r.PricePerSeat, &r.SeatsTotal, &r.SeatsAvailable, &r.Status,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Cache plumbing. Failures here degrade to a store read, never to an
// error for the caller.

func searchCacheKey(filter ride.SearchFilter) string {
	date := ""
	if filter.Date != nil {
		date = filter.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("search:%s|%s|%s",
		strings.ToLower(filter.Origin), strings.ToLower(filter.Destination), date)
}

func (s *Service) cachedSearch(ctx context.Context, filter ride.SearchFilter) ([]ride.Ride, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, searchCacheKey(filter)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("search cache read failed", logger.Err(err))
		}
		return nil, false
	}
	var rides []ride.Ride
	if err := json.Unmarshal([]byte(data), &rides); err != nil {
		return nil, false
	}
	return rides, true
}

func (s *Service) storeSearch(ctx context.Context, filter ride.SearchFilter, rides []ride.Ride) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(rides)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, searchCacheKey(filter), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn("search cache write failed", logger.Err(err))
	}
}
