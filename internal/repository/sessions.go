package repository

import (
	"context"
	"time"

	"interviewd/internal/models"

	"github.com/google/uuid"
)

// CreateSession inserts a new session row and returns it.
func (s *Store) CreateSession(ctx context.Context, candidateName, jobRole, resumeFile string) (*models.Session, error) {
	session := &models.Session{
		ID:            uuid.NewString(),
		CandidateName: candidateName,
		JobRole:       jobRole,
		ResumeFile:    resumeFile,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}
