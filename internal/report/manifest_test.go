package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/domain/vehicle"
	"github.com/gocomet/carpool/internal/service/registry"
)

func TestBuildManifestPDF(t *testing.T) {
	departure := time.Date(2026, 4, 2, 8, 30, 0, 0, time.UTC)
	data := ManifestData{
		Ride: &ride.Ride{
			ID:             uuid.New(),
			Origin:         "North Campus",
			Destination:    "Airport",
			DepartureTime:  departure,
			PricePerSeat:   12.50,
			SeatsTotal:     4,
			SeatsAvailable: 2,
			Status:         ride.StatusScheduled,
		},
		Driver:  &user.User{Name: "Alice", Email: "alice@example.com"},
		Vehicle: &vehicle.Vehicle{Make: "Toyota", Model: "Prius", LicensePlate: "KA-01"},
		Bookings: []registry.RideBookingRow{
			{PassengerName: "Bob", PassengerEmail: "bob@example.com", Status: "confirmed", BookingTime: departure.Add(-48 * time.Hour)},
		},
	}

	pdfBytes, filename, err := BuildManifestPDF(data)
	require.NoError(t, err)
	assert.True(t, len(pdfBytes) > 500)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
	assert.Equal(t, "MANIFEST_North_Campus_Airport_20260402-0830.pdf", filename)
}

func TestBuildManifestPDF_EmptyManifest(t *testing.T) {
	data := ManifestData{
		Ride: &ride.Ride{
			ID:            uuid.New(),
			Origin:        "A",
			Destination:   "B",
			DepartureTime: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
			Status:        ride.StatusCancelled,
		},
		Driver:  &user.User{Name: "Alice"},
		Vehicle: &vehicle.Vehicle{Make: "Honda", Model: "City", LicensePlate: "KA-02"},
	}

	pdfBytes, filename, err := BuildManifestPDF(data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
	assert.Equal(t, "MANIFEST_A_B_20260501-0900.pdf", filename)
}
