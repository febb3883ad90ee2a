// Package report renders ride manifests as PDF for the admin console.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/domain/vehicle"
	"github.com/gocomet/carpool/internal/service/registry"
)

// ManifestData is everything a ride manifest needs, pre-fetched by the
// caller so this package stays free of storage concerns.
type ManifestData struct {
	Ride     *ride.Ride
	Driver   *user.User
	Vehicle  *vehicle.Vehicle
	Bookings []registry.RideBookingRow
}

// BuildManifestPDF renders the passenger manifest for a ride and
// returns the PDF bytes plus a filesystem-safe filename.
func BuildManifestPDF(d ManifestData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ride Manifest", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RIDE MANIFEST")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ride      : %s", d.Ride.ID),
		fmt.Sprintf("Route     : %s -> %s", d.Ride.Origin, d.Ride.Destination),
		fmt.Sprintf("Departure : %s", d.Ride.DepartureTime.Format("2006-01-02 15:04 MST")),
		fmt.Sprintf("Status    : %s", d.Ride.Status),
		fmt.Sprintf("Driver    : %s (%s)", safe(d.Driver.Name, "-"), safe(d.Driver.Email, "-")),
		fmt.Sprintf("Vehicle   : %s %s, plate %s", d.Vehicle.Make, d.Vehicle.Model, d.Vehicle.LicensePlate),
		fmt.Sprintf("Seats     : %d available of %d", d.Ride.SeatsAvailable, d.Ride.SeatsTotal),
		fmt.Sprintf("Price     : %.2f per seat", d.Ride.PricePerSeat),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Passengers")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Email", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Booked", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(d.Bookings) == 0 {
		pdf.CellFormat(190, 7, "no bookings", "1", 1, "C", false, 0, "")
	}
	for _, b := range d.Bookings {
		pdf.CellFormat(70, 7, safe(b.PassengerName, "-"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, safe(b.PassengerEmail, "-"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, b.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, b.BookingTime.Format("01-02 15:04"), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("MANIFEST_%s_%s.pdf",
		safeFilenamePart(d.Ride.Origin+"_"+d.Ride.Destination),
		d.Ride.DepartureTime.Format("20060102-1504"),
	)
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
