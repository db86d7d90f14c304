package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/logging"
	"tourbooking/internal/service/checkout"
)

func (h *handlers) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess, err := h.deps.SessionSvc.Start(c.Request.Context(), req.TourID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *handlers) getSession(c *gin.Context) {
	sess, err := h.deps.SessionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) setGuests(c *gin.Context) {
	var req guestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess, err := h.deps.SessionSvc.SetGuests(c.Request.Context(), c.Param("id"), domain.GuestCounts{
		Adult:  req.Adult,
		Child:  req.Child,
		Infant: req.Infant,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) setSlot(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	sess, err := h.deps.SessionSvc.SetSlot(c.Request.Context(), c.Param("id"), req.Date, req.Time)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) setUpsell(c *gin.Context) {
	var req upsellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	ctx := c.Request.Context()
	var (
		sess *domain.CheckoutSession
		err  error
	)
	if req.Quantity != nil {
		sess, err = h.deps.SessionSvc.SetUpsellCount(ctx, c.Param("id"), c.Param("upsellId"), *req.Quantity)
	} else {
		sess, err = h.deps.SessionSvc.ToggleUpsell(ctx, c.Param("id"), c.Param("upsellId"), req.Selected)
	}
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *handlers) discardSession(c *gin.Context) {
	if err := h.deps.SessionSvc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// submitSession runs the checkout orchestrator on the session's selection.
// The session is discarded once a payment intent exists.
func (h *handlers) submitSession(c *gin.Context) {
	var customer checkout.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	ctx := c.Request.Context()
	sess, err := h.deps.SessionSvc.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	res, err := h.deps.CheckoutSvc.SubmitBooking(ctx, customer, sess.Selection)
	if err != nil {
		var verr *checkout.ValidationError
		var serr *checkout.SubmitError
		switch {
		case errors.As(err, &verr):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": verr.Error(),
					"fields":  verr.Fields,
				},
			})
		case errors.As(err, &serr):
			status, code := http.StatusConflict, "BOOKING_FAILED"
			if serr.BookingID != "" {
				status, code = http.StatusBadGateway, "PAYMENT_FAILED"
			}
			c.AbortWithStatusJSON(status, gin.H{
				"success": false,
				"error": gin.H{
					"code":        code,
					"message":     serr.Message,
					"bookingId":   serr.BookingID,
					"reference":   serr.Reference,
					"compensated": serr.Compensated,
				},
			})
		default:
			h.respondServiceError(c, err)
		}
		return
	}

	if err := h.deps.SessionSvc.Discard(ctx, sess.ID); err != nil {
		logging.FromContext(ctx, h.logger).Warn("discard session after submit", zap.String("session_id", sess.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, submitResponse{Success: true, Result: res})
}
