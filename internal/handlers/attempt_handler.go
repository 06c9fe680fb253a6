package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"attempt-service/internal/attempt"
	"attempt-service/internal/event"
	"attempt-service/internal/models"
	"attempt-service/internal/normalize"
	"attempt-service/internal/service"

	"github.com/gin-gonic/gin"
)

// EventPublisher is the slice of the AMQP publisher the handler needs.
// The handler publishes only the outcome-dependent lifecycle event (a
// timer expiry observed inside Tick); request-level events stay on the
// route closures in main.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

type AttemptHandler struct {
	Service            *service.AttemptService
	ResultService      *service.ResultService
	InteractionService *service.InteractionService
	Events             EventPublisher
}

func NewAttemptHandler(s *service.AttemptService, rs *service.ResultService, is *service.InteractionService, events EventPublisher) *AttemptHandler {
	return &AttemptHandler{
		Service:            s,
		ResultService:      rs,
		InteractionService: is,
		Events:             events,
	}
}

// CreateAttempt materializes a new attempt for the exam in the request.
func (h *AttemptHandler) CreateAttempt(c *gin.Context) {
	var req struct {
		ExamID string `json:"exam_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	a, err := h.Service.CreateAttempt(context.Background(), req.ExamID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create attempt",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"attempt":   a,
		"next_step": "Call /start to begin the attempt clock",
	})
}

func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	a, err := h.Service.GetAttempt(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	a, err := h.Service.StartAttempt(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

// Navigate moves the active question. The request carries how long the
// previous question was on screen so time accrual is flushed first.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	var req struct {
		Index          int     `json:"index"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.Service.Navigate(context.Background(), c.Param("id"), req.Index, req.ElapsedSeconds)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

// RecordAnswer sets or clears the selection for one question. Clear wins
// over any value in the same request.
func (h *AttemptHandler) RecordAnswer(c *gin.Context) {
	var req struct {
		Index   int      `json:"index"`
		Value   *float64 `json:"value"`
		Options []int    `json:"options"`
		Clear   bool     `json:"clear"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value := req.Value
	options := req.Options
	if req.Clear {
		value = nil
		options = nil
	}
	a, err := h.Service.RecordAnswer(context.Background(), c.Param("id"), req.Index, value, options)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

func (h *AttemptHandler) ToggleMark(c *gin.Context) {
	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.Service.ToggleMark(context.Background(), c.Param("id"), req.Index)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

// Tick advances the attempt clock. When the clock expires the attempt is
// auto-submitted and the report is built, exactly as on a manual submit.
func (h *AttemptHandler) Tick(c *gin.Context) {
	var req struct {
		DeltaSeconds float64 `json:"delta_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, expired, err := h.Service.Tick(context.Background(), c.Param("id"), req.DeltaSeconds)
	if err != nil {
		h.mutationError(c, err)
		return
	}
	h.publishAutoSubmit(a, expired)

	response := gin.H{
		"remaining_seconds": a.RemainingSeconds,
		"status":            a.Status,
		"auto_submitted":    expired,
	}
	if expired {
		if report, err := h.ResultService.BuildReport(context.Background(), a); err == nil {
			response["report_id"] = report.ID
		}
		response["score"] = a.Score
	}
	c.JSON(http.StatusOK, response)
}

// Submit completes the attempt, scores it once and builds the report.
// Submitting again returns the same score.
func (h *AttemptHandler) Submit(c *gin.Context) {
	a, score, err := h.Service.Submit(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	if a.Status != models.AttemptCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Attempt has not been started"})
		return
	}

	response := gin.H{"score": score, "status": a.Status}
	if report, err := h.ResultService.BuildReport(context.Background(), a); err == nil {
		response["report_id"] = report.ID
	}
	c.JSON(http.StatusOK, response)
}

func (h *AttemptHandler) ListByUser(c *gin.Context) {
	attempts, err := h.Service.ListByUser(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, attempts)
}

// IngestEvents appends externally captured interaction events to the
// attempt's visit log.
func (h *AttemptHandler) IngestEvents(c *gin.Context) {
	var req struct {
		Events []models.InteractionEvent `json:"events" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.InteractionService.Ingest(context.Background(), c.Param("id"), req.Events); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingested": len(req.Events)})
}

// Review serves a historical attempt through the normalization layer, so
// documents from older writers come back structurally complete or are
// rejected explicitly.
func (h *AttemptHandler) Review(c *gin.Context) {
	a, err := h.Service.GetHistorical(context.Background(), c.Param("id"))
	if err != nil {
		var malformed *normalize.MalformedAttemptDataError
		if errors.As(err, &malformed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Test data error",
				"details": malformed.Error(),
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	}
	c.JSON(http.StatusOK, withPalette(a))
}

// publishAutoSubmit emits the expiry event for a tick that ran out the
// clock, so consumers see time-expired submissions the same way they see
// manual ones.
func (h *AttemptHandler) publishAutoSubmit(a *models.Attempt, expired bool) {
	if !expired || h.Events == nil {
		return
	}
	h.Events.Publish(event.AttemptExpired, gin.H{
		"attempt_id":      a.ID,
		"user_id":         a.UserID,
		"completion_type": a.CompletionType,
		"timestamp":       time.Now(),
	})
}

func (h *AttemptHandler) mutationError(c *gin.Context, err error) {
	var oor *attempt.OutOfRangeError
	if errors.As(err, &oor) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Question index out of range",
			"details": oor.Error(),
		})
		return
	}
	if errors.Is(err, attempt.ErrNegativeTimeDelta) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Time delta must be non-negative"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// withPalette decorates the attempt with the derived per-question display
// statuses for the question palette.
func withPalette(a *models.Attempt) gin.H {
	statuses := make([]string, len(a.Questions))
	for i, aq := range a.Questions {
		statuses[i] = attempt.DisplayStatus(aq.State)
	}
	return gin.H{"attempt": a, "question_statuses": statuses}
}
