package handlers

import (
	"context"
	"net/http"
	"time"

	"interviewd/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// auditStore is the slice of the repository the admin endpoints read.
type auditStore interface {
	ListSessions(ctx context.Context) ([]models.Session, error)
	RecentTurns(ctx context.Context, sessionID string) ([]models.Turn, error)
	AllSamples(ctx context.Context, sessionID string) ([]models.EngagementSample, error)
}

type AdminHandler struct {
	log   *zap.Logger
	store auditStore
}

func NewAdminHandler(log *zap.Logger, store auditStore) *AdminHandler {
	return &AdminHandler{log: log, store: store}
}

// ListSessions returns all interview sessions, newest first.
func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions, err := h.store.ListSessions(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list sessions"})
		return
	}

	out := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		name := s.CandidateName
		if name == "" {
			name = s.ID
		}
		out = append(out, gin.H{
			"id":             s.ID,
			"candidate_name": name,
			"job_role":       s.JobRole,
			"resume_file":    s.ResumeFile,
			"created_at":     s.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// QALog returns the question/answer audit log for a candidate.
func (h *AdminHandler) QALog(c *gin.Context) {
	candidateID := c.Query("candidate_id")
	if candidateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id is required"})
		return
	}
	includeUnscored := c.Query("include_unscored") == "true"

	turns, err := h.store.RecentTurns(c.Request.Context(), candidateID)
	if err != nil {
		h.log.Error("Failed to fetch qa log", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch qa log"})
		return
	}
	if !includeUnscored {
		scored := turns[:0]
		for _, t := range turns {
			if t.Score != nil {
				scored = append(scored, t)
			}
		}
		turns = scored
	}

	if len(turns) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No answers found for this candidate."})
		return
	}

	out := make([]gin.H, 0, len(turns))
	for _, t := range turns {
		out = append(out, gin.H{
			"ordinal":       t.Ordinal,
			"question":      t.Question,
			"answer":        t.Answer,
			"score":         t.Score,
			"subscores":     t.Subscores.Map(),
			"hallucination": t.Hallucination,
			"timestamp":     t.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"qa_log": out})
}

// BehaviorLogs returns every engagement sample for a candidate in
// chronological order.
func (h *AdminHandler) BehaviorLogs(c *gin.Context) {
	candidateID := c.Query("candidate_id")
	if candidateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id is required"})
		return
	}

	samples, err := h.store.AllSamples(c.Request.Context(), candidateID)
	if err != nil {
		h.log.Error("Failed to fetch behavior logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch behavior logs"})
		return
	}

	out := make([]gin.H, 0, len(samples))
	for _, s := range samples {
		out = append(out, gin.H{
			"timestamp":        s.CreatedAt.Format(time.RFC3339),
			"emotion":          s.Emotion,
			"face_present":     s.FacePresent,
			"gaze_direction":   s.Gaze,
			"engagement_score": s.EngagementScore,
		})
	}
	c.JSON(http.StatusOK, gin.H{"logs": out})
}
