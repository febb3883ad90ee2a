// Command carpool-cli is a text-menu admin console that queries the
// carpool database directly. It is a debug/operations tool with no
// authentication; keep it off user-facing machines.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/config"
	"github.com/gocomet/carpool/internal/domain/booking"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/report"
	"github.com/gocomet/carpool/internal/service/registry"
	"github.com/gocomet/carpool/internal/service/search"
	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/logger"
)

type console struct {
	search   *search.Service
	registry *registry.Service
	in       *bufio.Scanner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: 2,
		MaxIdle:  1,
	})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	// The console reads straight from the database, no cache.
	c := &console{
		search:   search.NewService(db, nil, 0, logger.Nop()),
		registry: registry.NewService(db, logger.Nop()),
		in:       bufio.NewScanner(os.Stdin),
	}
	c.run()
}

func (c *console) run() {
	for {
		fmt.Println("\n" + strings.Repeat("=", 60))
		fmt.Println("  CARPOOL DATABASE CONSOLE")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("1) List available future rides")
		fmt.Println("2) Search rides by origin & destination")
		fmt.Println("3) Show rides for a specific driver (by email)")
		fmt.Println("4) Show bookings for a specific passenger (by email)")
		fmt.Println("5) List all users")
		fmt.Println("6) Show ride details (by ride ID)")
		fmt.Println("7) Export ride manifest as PDF (by ride ID)")
		fmt.Println("0) Exit")
		fmt.Println(strings.Repeat("-", 60))

		switch c.prompt("Enter your choice: ") {
		case "1":
			c.listAvailableRides()
		case "2":
			c.searchRides()
		case "3":
			c.showDriverRides()
		case "4":
			c.showPassengerBookings()
		case "5":
			c.listAllUsers()
		case "6":
			c.showRideDetails()
		case "7":
			c.exportManifest()
		case "0":
			fmt.Println("\nGoodbye!")
			return
		default:
			fmt.Println("\nInvalid choice. Please try again.")
		}
	}
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	if !c.in.Scan() {
		return "0"
	}
	return strings.TrimSpace(c.in.Text())
}

func (c *console) listAvailableRides() {
	printHeader("Available Future Rides")

	rides, err := c.search.SearchRides(context.Background(), ride.SearchFilter{})
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	if len(rides) == 0 {
		fmt.Println("No available rides found.")
		return
	}

	fmt.Printf("Found %d ride(s):\n\n", len(rides))
	for i, r := range rides {
		printRide(&r, i+1)
	}
}

func (c *console) searchRides() {
	printHeader("Search Rides")

	origin := c.prompt("Enter origin (or press Enter to skip): ")
	destination := c.prompt("Enter destination (or press Enter to skip): ")
	if origin == "" && destination == "" {
		fmt.Println("Please provide at least one search term.")
		return
	}

	rides, err := c.search.SearchRides(context.Background(), ride.SearchFilter{
		Origin:      origin,
		Destination: destination,
	})
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	if len(rides) == 0 {
		fmt.Println("\nNo matching rides found.")
		return
	}

	fmt.Printf("\nFound %d matching ride(s):\n\n", len(rides))
	for i, r := range rides {
		printRide(&r, i+1)
	}
}

func (c *console) showDriverRides() {
	printHeader("Rides by Driver")

	email := c.prompt("Enter driver email: ")
	if email == "" {
		fmt.Println("Email is required.")
		return
	}

	ctx := context.Background()
	u, err := c.registry.UserByEmail(ctx, email)
	if err != nil {
		fmt.Printf("\nNo user found with email %q.\n", email)
		return
	}

	rides, err := c.search.RidesByDriver(ctx, u.ID)
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	if len(rides) == 0 {
		fmt.Printf("\nNo rides found for driver %q (%s).\n", u.Name, email)
		return
	}

	fmt.Printf("\nFound %d ride(s) for %q:\n\n", len(rides), u.Name)
	for i, r := range rides {
		printRide(&r, i+1)
	}
}

func (c *console) showPassengerBookings() {
	printHeader("Bookings by Passenger")

	email := c.prompt("Enter passenger email: ")
	if email == "" {
		fmt.Println("Email is required.")
		return
	}

	ctx := context.Background()
	u, err := c.registry.UserByEmail(ctx, email)
	if err != nil {
		fmt.Printf("\nNo user found with email %q.\n", email)
		return
	}

	bookings, err := c.search.BookingsByPassenger(ctx, u.ID)
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	if len(bookings) == 0 {
		fmt.Printf("\nNo bookings found for %q (%s).\n", u.Name, email)
		return
	}

	fmt.Printf("\nFound %d booking(s) for %q:\n\n", len(bookings), u.Name)
	for i, b := range bookings {
		printBooking(&b, i+1)
	}
}

func (c *console) listAllUsers() {
	printHeader("All Users")

	users, err := c.registry.ListUsers(context.Background())
	if err != nil {
		fmt.Printf("Query failed: %v\n", err)
		return
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return
	}

	fmt.Printf("Found %d user(s):\n\n", len(users))
	for i, u := range users {
		fmt.Printf("[%d] %s\n", i+1, u.Name)
		fmt.Printf("    Email: %s\n", u.Email)
		fmt.Printf("    Role: %s\n", u.Role)
		fmt.Printf("    Joined: %s\n\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func (c *console) showRideDetails() {
	printHeader("Ride Details")

	r, ok := c.promptRide()
	if !ok {
		return
	}
	ctx := context.Background()

	fmt.Printf("\nRide ID: %s\n", r.ID)
	fmt.Printf("Route: %s -> %s\n", r.Origin, r.Destination)
	fmt.Printf("Departure: %s\n", r.DepartureTime.Format("2006-01-02 15:04"))
	if r.ArrivalTime != nil {
		fmt.Printf("Arrival: %s\n", r.ArrivalTime.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Price per seat: $%.2f\n", r.PricePerSeat)
	fmt.Printf("Seats available: %d of %d\n", r.SeatsAvailable, r.SeatsTotal)

	if driver, err := c.registry.GetUser(ctx, r.DriverID); err == nil {
		fmt.Printf("\nDriver: %s (%s)\n", driver.Name, driver.Email)
	}
	if v, err := c.registry.GetVehicle(ctx, r.VehicleID); err == nil {
		year := ""
		if v.Year != nil {
			year = fmt.Sprintf("%d ", *v.Year)
		}
		fmt.Printf("Vehicle: %s%s %s (%s)\n", year, v.Make, v.Model, v.LicensePlate)
	}

	bookings, err := c.registry.BookingsOnRide(ctx, r.ID)
	if err != nil || len(bookings) == 0 {
		return
	}
	fmt.Printf("\nBookings (%d):\n", len(bookings))
	for _, b := range bookings {
		fmt.Printf("  - %s: %s\n", b.PassengerName, b.Status)
	}
}

func (c *console) exportManifest() {
	printHeader("Export Ride Manifest")

	r, ok := c.promptRide()
	if !ok {
		return
	}
	ctx := context.Background()

	driver, err := c.registry.GetUser(ctx, r.DriverID)
	if err != nil {
		fmt.Printf("Failed to load driver: %v\n", err)
		return
	}
	vehicle, err := c.registry.GetVehicle(ctx, r.VehicleID)
	if err != nil {
		fmt.Printf("Failed to load vehicle: %v\n", err)
		return
	}
	bookings, err := c.registry.BookingsOnRide(ctx, r.ID)
	if err != nil {
		fmt.Printf("Failed to load bookings: %v\n", err)
		return
	}

	pdfBytes, filename, err := report.BuildManifestPDF(report.ManifestData{
		Ride:     r,
		Driver:   driver,
		Vehicle:  vehicle,
		Bookings: bookings,
	})
	if err != nil {
		fmt.Printf("Failed to render manifest: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, pdfBytes, 0o644); err != nil {
		fmt.Printf("Failed to write %s: %v\n", filename, err)
		return
	}
	fmt.Printf("\nManifest written to %s (%d bytes).\n", filename, len(pdfBytes))
}

// promptRide asks for a ride UUID and loads it.
func (c *console) promptRide() (*ride.Ride, bool) {
	idStr := c.prompt("Enter ride ID (UUID): ")
	if idStr == "" {
		fmt.Println("Ride ID is required.")
		return nil, false
	}
	rideID, err := uuid.Parse(idStr)
	if err != nil {
		fmt.Println("Invalid ride ID format.")
		return nil, false
	}

	r, err := c.search.GetRide(context.Background(), rideID)
	if err != nil {
		fmt.Printf("\nNo ride found with ID %q.\n", idStr)
		return nil, false
	}
	return r, true
}

func printHeader(title string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("=", 60))
}

func printRide(r *ride.Ride, index int) {
	fmt.Printf("[%d] Ride ID: %s\n", index, r.ID)
	fmt.Printf("    From: %s -> To: %s\n", r.Origin, r.Destination)
	fmt.Printf("    Departure: %s\n", r.DepartureTime.Format("2006-01-02 15:04"))
	fmt.Printf("    Seats Available: %d | Price: $%.2f\n", r.SeatsAvailable, r.PricePerSeat)
	fmt.Printf("    Status: %s\n\n", r.Status)
}

func printBooking(b *booking.Booking, index int) {
	fmt.Printf("[%d] Booking ID: %s\n", index, b.ID)
	fmt.Printf("    Ride ID: %s\n", b.RideID)
	fmt.Printf("    Booked at: %s\n", b.BookingTime.Format("2006-01-02 15:04"))
	fmt.Printf("    Status: %s\n\n", b.Status)
}
