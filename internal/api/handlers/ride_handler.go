package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/api/middleware"
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/service/reservation"
	"github.com/gocomet/carpool/pkg/logger"
)

// CreateRide handles POST /v1/rides
func (h *Handlers) CreateRide(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "invalid request payload: " + err.Error(),
		})
		return
	}

	r, err := h.Engine.CreateRide(c.Request.Context(), principal.UserID, reservation.CreateRideInput{
		VehicleID:      req.VehicleID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		SeatsRequested: req.SeatsTotal,
		PricePerSeat:   req.PricePerSeat,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideCreated(r.ID.String(), r.SeatsTotal)
	h.Logger.Info("ride created",
		logger.String("ride_id", r.ID.String()),
		logger.String("driver_id", principal.UserID.String()),
		logger.Int("seats", r.SeatsTotal),
	)
	c.JSON(http.StatusCreated, r)
}

// SearchRides handles GET /v1/rides/search
func (h *Handlers) SearchRides(c *gin.Context) {
	filter := ride.SearchFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    "INVALID_ARGUMENT",
				Message: "date must be formatted YYYY-MM-DD",
			})
			return
		}
		filter.Date = &date
	}

	rides, err := h.Search.SearchRides(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RideListResponse{Rides: rides, Count: len(rides)})
}

// MyRides handles GET /v1/rides/mine
func (h *Handlers) MyRides(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	rides, err := h.Search.RidesByDriver(c.Request.Context(), principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RideListResponse{Rides: rides, Count: len(rides)})
}

// GetRide handles GET /v1/rides/:id
func (h *Handlers) GetRide(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "ride id must be a UUID",
		})
		return
	}

	r, err := h.Search.GetRide(c.Request.Context(), rideID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// UpdateRide handles PATCH /v1/rides/:id
func (h *Handlers) UpdateRide(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "ride id must be a UUID",
		})
		return
	}

	var req dto.UpdateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "invalid request payload: " + err.Error(),
		})
		return
	}

	r, err := h.Engine.UpdateRide(c.Request.Context(), rideID, principal.UserID, req.ToUpdate())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// CancelRide handles DELETE /v1/rides/:id
func (h *Handlers) CancelRide(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "ride id must be a UUID",
		})
		return
	}

	if err := h.Engine.CancelRide(c.Request.Context(), rideID, principal.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRideCancelled(rideID.String())
	h.Logger.Info("ride cancelled",
		logger.String("ride_id", rideID.String()),
		logger.String("driver_id", principal.UserID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
