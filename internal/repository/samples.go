package repository

import (
	"context"
	"time"

	"interviewd/internal/models"
)

// AppendSample writes one perception tick. Samples are append-only.
func (s *Store) AppendSample(ctx context.Context, sample *models.EngagementSample) error {
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(sample).Error
}

// RecentSamples returns the last `limit` samples for a session, most recent
// first.
func (s *Store) RecentSamples(ctx context.Context, sessionID string, limit int) ([]models.EngagementSample, error) {
	var samples []models.EngagementSample
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&samples).Error
	return samples, err
}

// AllSamples returns every sample for a session in chronological order, for
// the admin behavior log.
func (s *Store) AllSamples(ctx context.Context, sessionID string) ([]models.EngagementSample, error) {
	var samples []models.EngagementSample
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&samples).Error
	return samples, err
}
