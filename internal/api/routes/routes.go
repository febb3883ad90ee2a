package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/gocomet/carpool/internal/api/handlers"
	"github.com/gocomet/carpool/internal/api/middleware"
	"github.com/gocomet/carpool/internal/service/auth"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, authSvc *auth.Service, nrApp *newrelic.Application) {
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Signup and login are the only unauthenticated API calls
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", middleware.RequireAuth(authSvc), h.Me)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Seat-availability feed, read-only
		v1.GET("/ws", h.HandleWebSocket)

		authed := v1.Group("", middleware.RequireAuth(authSvc))
		{
			vehicles := authed.Group("/vehicles")
			{
				vehicles.POST("", h.CreateVehicle)
				vehicles.GET("/mine", h.MyVehicles)
			}

			rides := authed.Group("/rides")
			{
				rides.POST("", h.CreateRide)
				rides.GET("/search", h.SearchRides)
				rides.GET("/mine", h.MyRides)
				rides.GET("/:id", h.GetRide)
				rides.PATCH("/:id", h.UpdateRide)
				rides.DELETE("/:id", h.CancelRide)
				rides.POST("/:id/book", h.BookRide)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.GET("/mine", h.MyBookings)
				bookings.DELETE("/:id", h.CancelBooking)
			}
		}
	}
}
