package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/api/middleware"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/ws"
)

// BookRide handles POST /v1/rides/:id/book
func (h *Handlers) BookRide(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "ride id must be a UUID",
		})
		return
	}

	result, err := h.Engine.Book(c.Request.Context(), rideID, principal.UserID)
	if err != nil {
		if apperr.HasReason(err, apperr.ReasonNoSeats) {
			h.Monitor.RecordSeatConflict(rideID.String())
		}
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordBookingConfirmed(rideID.String(), result.Booking.ID.String(), result.SeatsAvailable)
	h.Hub.BroadcastSeatUpdate(ws.SeatUpdate{
		RideID:         rideID.String(),
		SeatsAvailable: result.SeatsAvailable,
		Status:         string(result.RideStatus),
	})
	h.Logger.Info("booking confirmed",
		logger.String("booking_id", result.Booking.ID.String()),
		logger.String("ride_id", rideID.String()),
		logger.Int("seats_available", result.SeatsAvailable),
	)

	c.JSON(http.StatusCreated, dto.BookingResponse{
		Booking:        *result.Booking,
		SeatsAvailable: result.SeatsAvailable,
		RideStatus:     string(result.RideStatus),
	})
}

// MyBookings handles GET /v1/bookings/mine
func (h *Handlers) MyBookings(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	bookings, err := h.Search.BookingsByPassenger(c.Request.Context(), principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// CancelBooking handles DELETE /v1/bookings/:id
func (h *Handlers) CancelBooking(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "booking id must be a UUID",
		})
		return
	}

	result, err := h.Engine.CancelBooking(c.Request.Context(), bookingID, principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordBookingCancelled(result.RideID.String(), bookingID.String())
	h.Hub.BroadcastSeatUpdate(ws.SeatUpdate{
		RideID:         result.RideID.String(),
		SeatsAvailable: result.SeatsAvailable,
		Status:         string(result.RideStatus),
	})
	h.Logger.Info("booking cancelled",
		logger.String("booking_id", bookingID.String()),
		logger.String("ride_id", result.RideID.String()),
		logger.Int("seats_available", result.SeatsAvailable),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":          "cancelled",
		"seats_available": result.SeatsAvailable,
	})
}
