package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/logging"
	"tourbooking/internal/service/checkout"
	paymentsvc "tourbooking/internal/service/payment"
	"tourbooking/internal/voucher"
)

const maxWebhookBody = 1 << 16

func (h *handlers) createBooking(c *gin.Context) {
	var req checkout.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		collaboratorError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.deps.BookingAPI.CreateBooking(c.Request.Context(), req)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("create booking", zap.Error(err))
		collaboratorError(c, http.StatusInternalServerError, checkout.GenericErrorMessage)
		return
	}
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handlers) createPaymentIntent(c *gin.Context) {
	var req checkout.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		collaboratorError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp, err := h.deps.IntentAPI.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("create payment intent", zap.Error(err))
		collaboratorError(c, http.StatusInternalServerError, checkout.GenericErrorMessage)
		return
	}
	if !resp.Success {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// checkoutReturn handles the hosted-payment redirect. The intent is verified
// with the provider; redirect_status is only logged.
func (h *handlers) checkoutReturn(c *gin.Context) {
	res, err := h.deps.PaymentSvc.VerifyReturn(c.Request.Context(), c.Query("redirect_status"), c.Query("payment_intent"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, returnResponse{
		BookingID: res.BookingID,
		Reference: res.Reference,
		Status:    res.Status,
		Paid:      res.Paid,
	})
}

func (h *handlers) stripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "could not read body")
		return
	}
	err = h.deps.PaymentSvc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, paymentsvc.ErrInvalidSignature):
		respondError(c, http.StatusBadRequest, "INVALID_SIGNATURE", "signature verification failed")
	default:
		h.respondServiceError(c, err)
	}
}

func (h *handlers) downloadVoucher(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.deps.BookingSvc.GetByReference(ctx, c.Param("reference"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingCompleted {
		respondError(c, http.StatusConflict, "NOT_CONFIRMED", "voucher is available once the booking is confirmed")
		return
	}

	tourName := ""
	if t, err := h.deps.TourSvc.Get(ctx, b.TourID); err == nil {
		tourName = t.Name
	}
	pdf, err := voucher.Render(b, tourName)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+voucher.Filename(b.Reference)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
