package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/api/middleware"
	"github.com/gocomet/carpool/internal/service/registry"
)

// CreateVehicle handles POST /v1/vehicles
func (h *Handlers) CreateVehicle(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "invalid request payload: " + err.Error(),
		})
		return
	}

	v, err := h.Registry.CreateVehicle(c.Request.Context(), principal.UserID, registry.CreateVehicleInput{
		Make:         req.Make,
		Model:        req.Model,
		Color:        req.Color,
		LicensePlate: req.LicensePlate,
		SeatsTotal:   req.SeatsTotal,
		Year:         req.Year,
		Notes:        req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

// MyVehicles handles GET /v1/vehicles/mine
func (h *Handlers) MyVehicles(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	vehicles, err := h.Registry.VehiclesByOwner(c.Request.Context(), principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VehicleListResponse{
		Vehicles: vehicles,
		Count:    len(vehicles),
	})
}
