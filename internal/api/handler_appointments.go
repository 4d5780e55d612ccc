package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"okeiko-booking-backend/internal/model"
	"okeiko-booking-backend/internal/mw"
)

// ListAppointments handles GET /api/appointments. Optional filters:
// ?month=YYYY-MM narrows to one calendar month, ?member=me narrows to the
// slots the caller is booked into.
func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.engine.ListAppointments(c.Request.Context())
	if err != nil {
		h.logger.Error("list appointments", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "failed to load the schedule"})
		return
	}

	if month := c.Query("month"); month != "" {
		appointments = filterAppointments(appointments, func(a model.Appointment) bool {
			return strings.HasPrefix(a.Date, month+"-")
		})
	}
	if c.Query("member") == "me" {
		me := mw.GetSession(c).Name
		appointments = filterAppointments(appointments, func(a model.Appointment) bool {
			return slices.Contains(a.Members, me)
		})
	}

	c.JSON(http.StatusOK, appointments)
}

func filterAppointments(appointments []model.Appointment, keep func(model.Appointment) bool) []model.Appointment {
	out := appointments[:0:0]
	for _, a := range appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	if out == nil {
		out = []model.Appointment{}
	}
	return out
}

// Reserve handles POST /api/appointments/:id/bookings. The reserving
// identity is always the session's display name; the administrator manages
// slots but does not hold seats.
func (h *Handler) Reserve(c *gin.Context) {
	session := mw.GetSession(c)
	if session.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "the administrator cannot reserve a seat"})
		return
	}

	res := h.engine.Reserve(c.Request.Context(), c.Param("id"), session.Name)
	if res.OK {
		h.flushCache()
	}
	c.JSON(statusFor(res), res)
}

// Cancel handles DELETE /api/appointments/:id/bookings. Member-only, like
// Reserve: the administrator never holds a seat to cancel.
func (h *Handler) Cancel(c *gin.Context) {
	session := mw.GetSession(c)
	if session.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "the administrator holds no seats"})
		return
	}

	res := h.engine.Cancel(c.Request.Context(), c.Param("id"), session.Name)
	if res.OK {
		h.flushCache()
	}
	c.JSON(statusFor(res), res)
}
