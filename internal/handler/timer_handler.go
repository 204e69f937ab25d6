package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "truetimer/backend/internal/errors"
	"truetimer/backend/internal/middleware"
	"truetimer/backend/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

// Pointers let "required" tell a missing field from an explicit zero.
type createTimerRequest struct {
	Minutes *int `json:"minutes" binding:"required,min=0,max=59"`
	Hours   *int `json:"hours" binding:"required,min=0,max=24"`
}

type transitionFunc func(ctx context.Context, userID string, timerID int64) (*service.TimerView, *apperrors.APIError)

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) Create(c *gin.Context) {
	var req createTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	created, apiErr := h.timerService.Create(c.Request.Context(), middleware.UserID(c), *req.Hours, *req.Minutes)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *TimerHandler) List(c *gin.Context) {
	views, apiErr := h.timerService.List(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timers": views})
}

func (h *TimerHandler) Status(c *gin.Context) {
	timerID, ok := timerIDParam(c)
	if !ok {
		return
	}

	view, apiErr := h.timerService.Get(c.Request.Context(), middleware.UserID(c), timerID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *TimerHandler) Start(c *gin.Context) {
	h.transition(c, h.timerService.Start)
}

func (h *TimerHandler) Pause(c *gin.Context) {
	h.transition(c, h.timerService.Pause)
}

func (h *TimerHandler) Resume(c *gin.Context) {
	h.transition(c, h.timerService.Resume)
}

func (h *TimerHandler) End(c *gin.Context) {
	h.transition(c, h.timerService.End)
}

func (h *TimerHandler) transition(c *gin.Context, apply transitionFunc) {
	timerID, ok := timerIDParam(c)
	if !ok {
		return
	}

	view, apiErr := apply(c.Request.Context(), middleware.UserID(c), timerID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

func timerIDParam(c *gin.Context) (int64, bool) {
	timerID, err := strconv.ParseInt(c.Param("timer_id"), 10, 64)
	if err != nil || timerID <= 0 {
		writeError(c, apperrors.BadRequest("invalid_timer_id", "timer_id must be a positive integer"))
		return 0, false
	}
	return timerID, true
}
