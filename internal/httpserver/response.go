package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/logging"
	"tourbooking/internal/payments"
	paymentsvc "tourbooking/internal/service/payment"
)

func errorBody(code, message string) gin.H {
	return gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody(code, message))
}

// respondServiceError maps domain errors onto HTTP status codes.
func (h *handlers) respondServiceError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context(), h.logger).Error("request failed", zap.Error(err))
		_ = c.Error(err)
		respondError(c, status, code, "internal server error")
		return
	}
	respondError(c, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED"
	case errors.Is(err, domain.ErrInvalidPricing):
		return http.StatusUnprocessableEntity, "INVALID_PRICING"
	case errors.Is(err, paymentsvc.ErrAmountMismatch):
		return http.StatusUnprocessableEntity, "AMOUNT_MISMATCH"
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusConflict, "SLOT_UNAVAILABLE"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_STATUS"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, payments.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// collaboratorError writes the flat {"success":false,"error":"..."} envelope
// used by the booking and payment-intent endpoints.
func collaboratorError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
