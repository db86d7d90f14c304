package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/logging"
	staffsvc "tourbooking/internal/service/staff"
)

func (h *handlers) staffLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	res, err := h.deps.StaffSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, staffsvc.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) adminListBookings(c *gin.Context) {
	filter := domain.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		TourID: c.Query("tourId"),
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_INPUT", "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}
	bookings, err := h.deps.BookingSvc.List(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) adminGetBooking(c *gin.Context) {
	b, err := h.deps.BookingSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDTO(*b))
}

func (h *handlers) adminCancelBooking(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = "cancelled by staff"
	}
	b, err := h.deps.BookingSvc.Cancel(c.Request.Context(), c.Param("id"), reason)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	h.auditStaffAction(c, "cancel", b.ID)
	c.JSON(http.StatusOK, toBookingDTO(*b))
}

func (h *handlers) adminCompleteBooking(c *gin.Context) {
	b, err := h.deps.BookingSvc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	h.auditStaffAction(c, "complete", b.ID)
	c.JSON(http.StatusOK, toBookingDTO(*b))
}

func (h *handlers) auditStaffAction(c *gin.Context, action, bookingID string) {
	fields := []zap.Field{zap.String("action", action), zap.String("booking_id", bookingID)}
	if st := staffFromContext(c); st != nil {
		fields = append(fields, zap.String("staff_id", st.ID))
	}
	logging.FromContext(c.Request.Context(), h.logger).Info("staff booking action", fields...)
}
