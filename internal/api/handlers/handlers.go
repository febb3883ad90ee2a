package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/service/auth"
	"github.com/gocomet/carpool/internal/service/registry"
	"github.com/gocomet/carpool/internal/service/reservation"
	"github.com/gocomet/carpool/internal/service/search"
	"github.com/gocomet/carpool/pkg/apperr"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/gocomet/carpool/pkg/monitoring"
	"github.com/gocomet/carpool/pkg/ws"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Auth     *auth.Service
	Engine   *reservation.Engine
	Search   *search.Service
	Registry *registry.Service
	Hub      *ws.Hub
	Monitor  *monitoring.App
	Logger   *logger.Logger
}

// New creates a new Handlers instance
func New(authSvc *auth.Service, engine *reservation.Engine, searchSvc *search.Service,
	registrySvc *registry.Service, hub *ws.Hub, monitor *monitoring.App, log *logger.Logger) *Handlers {
	return &Handlers{
		Auth:     authSvc,
		Engine:   engine,
		Search:   searchSvc,
		Registry: registrySvc,
		Hub:      hub,
		Monitor:  monitor,
		Logger:   log,
	}
}

// respondError renders any error through the uniform envelope.
// Internal errors are logged with their cause; the cause never leaves
// the process.
func (h *Handlers) respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			logger.String("path", c.FullPath()),
			logger.Err(e.Err),
		)
	}
	c.JSON(e.Status, dto.ErrorResponse{
		Code:    e.Code,
		Reason:  e.Reason,
		Message: e.Message,
	})
}
