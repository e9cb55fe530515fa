package handlers

import (
	"context"
	"net/http"

	"interviewd/internal/ai"
	"interviewd/internal/models"
	"interviewd/internal/orchestrator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionStore is the slice of the repository this handler needs.
type sessionStore interface {
	CreateSession(ctx context.Context, candidateName, jobRole, resumeFile string) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

type InterviewHandler struct {
	log   *zap.Logger
	store sessionStore
	orch  *orchestrator.Orchestrator
}

func NewInterviewHandler(log *zap.Logger, store sessionStore, orch *orchestrator.Orchestrator) *InterviewHandler {
	return &InterviewHandler{log: log, store: store, orch: orch}
}

type startSessionRequest struct {
	CandidateName string `json:"candidate_name"`
	JobRole       string `json:"job_role"`
	ResumeFile    string `json:"resume_file"`
}

// StartSession creates a new interview session and returns its id.
func (h *InterviewHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	// The body is optional; a bare POST starts an anonymous session.
	_ = c.ShouldBindJSON(&req)

	session, err := h.store.CreateSession(c.Request.Context(), req.CandidateName, req.JobRole, req.ResumeFile)
	if err != nil {
		h.log.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

type askRequest struct {
	SessionID string       `json:"session_id" binding:"required"`
	History   []ai.Message `json:"history"`
	UserInput string       `json:"user_input"`
}

type askResponse struct {
	Answer        string             `json:"answer"`
	State         string             `json:"state"`
	Score         *float64           `json:"score"`
	Subscores     map[string]float64 `json:"subscores,omitempty"`
	Hallucination models.Verdict     `json:"hallucination,omitempty"`
	Tone          models.Tone        `json:"tone,omitempty"`
}

// Ask drives one interview turn.
func (h *InterviewHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid interview request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.store.GetSession(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	outcome, err := h.orch.HandleUtterance(c.Request.Context(), orchestrator.Request{
		SessionID:   req.SessionID,
		CandidateID: req.SessionID,
		History:     req.History,
		Utterance:   req.UserInput,
	})
	if err != nil {
		// Internal detail stays in the logs; the candidate sees a
		// generic failure.
		h.log.Error("Interview turn failed", zap.Error(err), zap.String("session_id", req.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Interview turn failed"})
		return
	}

	resp := askResponse{
		Answer:        outcome.Reply,
		State:         string(outcome.State),
		Score:         outcome.Score,
		Hallucination: outcome.Hallucination,
		Tone:          outcome.Tone,
	}
	if outcome.Subscores != nil {
		resp.Subscores = outcome.Subscores.Map()
	}

	c.JSON(http.StatusOK, resp)
}
