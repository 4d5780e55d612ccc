package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"okeiko-booking-backend/internal/auth"
	"okeiko-booking-backend/internal/mw"
)

type loginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and password are required"})
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.UserID, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "wrong id or password"})
		return
	}
	if err != nil {
		h.logger.Error("login failed against users table", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "the reservation store is unavailable"})
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/logout.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout(mw.Token(c))
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/me.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, mw.GetSession(c))
}
