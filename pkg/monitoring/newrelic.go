package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// App wraps the New Relic application
type App struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application. Without a license key the
// wrapper is a no-op so instrumentation calls never need guarding.
func New(cfg Config) (*App, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return &App{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &App{app, true}, nil
}

// IsEnabled returns whether New Relic is enabled
func (a *App) IsEnabled() bool {
	return a.enabled
}

// Shutdown gracefully shuts down the New Relic application
func (a *App) Shutdown(timeout time.Duration) {
	if !a.enabled || a.Application == nil {
		return
	}
	a.Application.Shutdown(timeout)
}

// RecordCustomEvent records a custom event
func (a *App) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !a.enabled || a.Application == nil {
		return
	}
	a.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (a *App) RecordCustomMetric(name string, value float64) {
	if !a.enabled || a.Application == nil {
		return
	}
	a.Application.RecordCustomMetric(name, value)
}

// Domain event helpers

// RecordRideCreated records a ride going on offer.
func (a *App) RecordRideCreated(rideID string, seats int) {
	a.RecordCustomEvent("RideCreated", map[string]interface{}{
		"ride_id": rideID,
		"seats":   seats,
	})
}

// RecordRideCancelled records a driver cancelling a ride.
func (a *App) RecordRideCancelled(rideID string) {
	a.RecordCustomEvent("RideCancelled", map[string]interface{}{
		"ride_id": rideID,
	})
}

// RecordBookingConfirmed records a successful seat reservation.
func (a *App) RecordBookingConfirmed(rideID, bookingID string, seatsLeft int) {
	a.RecordCustomEvent("BookingConfirmed", map[string]interface{}{
		"ride_id":    rideID,
		"booking_id": bookingID,
		"seats_left": seatsLeft,
	})
}

// RecordBookingCancelled records a passenger cancellation.
func (a *App) RecordBookingCancelled(rideID, bookingID string) {
	a.RecordCustomEvent("BookingCancelled", map[string]interface{}{
		"ride_id":    rideID,
		"booking_id": bookingID,
	})
}

// RecordSeatConflict counts seat-race rejections, one per lost race.
func (a *App) RecordSeatConflict(rideID string) {
	a.RecordCustomMetric("custom/booking/seat_conflict", 1)
	a.RecordCustomEvent("SeatConflict", map[string]interface{}{
		"ride_id": rideID,
	})
}
