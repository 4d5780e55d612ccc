package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createSlotRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Comment  string `json:"comment"`
}

// CreateSlot handles POST /api/slots (administrator only).
func (h *Handler) CreateSlot(c *gin.Context) {
	var req createSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date, time, and a positive capacity are required"})
		return
	}

	res, slot := h.engine.AdminCreateSlot(c.Request.Context(), req.Date, req.Time, req.Capacity, req.Comment)
	if !res.OK {
		c.JSON(statusFor(res), res)
		return
	}

	h.flushCache()
	c.JSON(http.StatusCreated, gin.H{
		"ok":      res.OK,
		"kind":    res.Kind,
		"message": res.Message,
		"slot":    slot,
	})
}

// DeleteSlot handles DELETE /api/slots/:id (administrator only). Deletion is
// immediate, cascades to bookings, and offers no undo.
func (h *Handler) DeleteSlot(c *gin.Context) {
	res := h.engine.AdminDeleteSlot(c.Request.Context(), c.Param("id"))
	if res.OK {
		h.flushCache()
	}
	c.JSON(statusFor(res), res)
}
