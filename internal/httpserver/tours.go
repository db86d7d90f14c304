package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	toursvc "tourbooking/internal/service/tour"
)

func (h *handlers) listTours(c *gin.Context) {
	tours, err := h.deps.TourSvc.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	out := make([]tourResponse, 0, len(tours))
	for _, t := range tours {
		resp, err := toTourResponse(t, nil)
		if err != nil {
			h.respondServiceError(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

func (h *handlers) getTour(c *gin.Context) {
	ctx := c.Request.Context()
	tour, err := h.deps.TourSvc.Get(ctx, c.Param("tour"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	upsells, err := h.deps.TourSvc.Upsells(ctx, tour.ID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	resp, err := toTourResponse(*tour, upsells)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) listSlots(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if err := toursvc.ValidateDate(date); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", "date query parameter must be YYYY-MM-DD")
		return
	}
	ctx := c.Request.Context()
	tour, err := h.deps.TourSvc.Get(ctx, c.Param("tour"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	slots, err := h.deps.SlotSvc.ListAvailable(ctx, tour.ID, date)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tourId": tour.ID, "date": date, "slots": slots})
}

func (h *handlers) quote(c *gin.Context) {
	var req toursvc.QuoteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	tour, sel, err := h.deps.TourSvc.Quote(c.Request.Context(), c.Param("tour"), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	resp, err := toTourResponse(*tour, nil)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quoteResponse{Tour: resp, Selection: sel})
}
