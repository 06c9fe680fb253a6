package handlers

import (
	"context"
	"net/http"

	"attempt-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	Service        *service.ResultService
	AttemptService *service.AttemptService
}

func NewResultHandler(s *service.ResultService, as *service.AttemptService) *ResultHandler {
	return &ResultHandler{Service: s, AttemptService: as}
}

// GetReport serves the stored report for an attempt, building it first if
// the attempt finished without one.
func (h *ResultHandler) GetReport(c *gin.Context) {
	attemptID := c.Param("id")
	report, err := h.Service.GetReportByAttempt(context.Background(), attemptID)
	if err == nil {
		c.JSON(http.StatusOK, report)
		return
	}

	a, err := h.AttemptService.GetAttempt(context.Background(), attemptID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	report, err = h.Service.BuildReport(context.Background(), a)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Report not available",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ResultHandler) ListByUser(c *gin.Context) {
	reports, err := h.Service.GetReportsByUser(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// Snapshot recomputes the analytics view from the live attempt and its
// interaction log without touching the stored report. Useful for checking
// a report against current aggregation rules.
func (h *ResultHandler) Snapshot(c *gin.Context) {
	a, err := h.AttemptService.GetAttempt(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	snap, err := h.Service.Snapshot(context.Background(), a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
