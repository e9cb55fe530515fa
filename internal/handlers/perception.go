package handlers

import (
	"context"
	"net/http"

	"interviewd/internal/engagement"
	"interviewd/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sampleStore is the slice of the repository this handler needs.
type sampleStore interface {
	AppendSample(ctx context.Context, sample *models.EngagementSample) error
}

type PerceptionHandler struct {
	log        *zap.Logger
	store      sampleStore
	aggregator *engagement.Aggregator
}

func NewPerceptionHandler(log *zap.Logger, store sampleStore, aggregator *engagement.Aggregator) *PerceptionHandler {
	return &PerceptionHandler{log: log, store: store, aggregator: aggregator}
}

type behaviorLogRequest struct {
	SessionID     string `json:"session_id" binding:"required"`
	Emotion       string `json:"emotion" binding:"required"`
	FacePresent   *bool  `json:"face_present" binding:"required"`
	GazeDirection string `json:"gaze_direction" binding:"required"`
}

// LogBehavior ingests one perception tick. Labels outside the fixed
// enumerations are rejected before any score is derived.
func (h *PerceptionHandler) LogBehavior(c *gin.Context) {
	var req behaviorLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !models.ValidEmotion(req.Emotion) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown emotion label"})
		return
	}
	if !models.ValidGaze(req.GazeDirection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown gaze label"})
		return
	}

	score := h.aggregator.ScoreSample(req.Emotion, *req.FacePresent, req.GazeDirection)

	sample := &models.EngagementSample{
		SessionID:       req.SessionID,
		Emotion:         req.Emotion,
		FacePresent:     *req.FacePresent,
		Gaze:            req.GazeDirection,
		EngagementScore: score,
	}
	if err := h.store.AppendSample(c.Request.Context(), sample); err != nil {
		h.log.Error("Failed to store engagement sample", zap.Error(err), zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not log behavior"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "engagement_score": score})
}
