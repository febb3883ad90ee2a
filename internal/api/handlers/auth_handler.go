package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocomet/carpool/internal/api/dto"
	"github.com/gocomet/carpool/internal/api/middleware"
	"github.com/gocomet/carpool/internal/service/auth"
	"github.com/gocomet/carpool/pkg/logger"
)

// Register handles POST /auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "invalid request payload: " + err.Error(),
		})
		return
	}

	u, err := h.Auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.Auth.IssueToken(u)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("user registered",
		logger.String("user_id", u.ID.String()),
	)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(u),
	})
}

// Login handles POST /auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_ARGUMENT",
			Message: "invalid request payload: " + err.Error(),
		})
		return
	}

	u, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(u),
	})
}

// Me handles GET /auth/me
func (h *Handlers) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "not authenticated",
		})
		return
	}

	u, err := h.Auth.GetUser(c.Request.Context(), principal.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(u))
}
