package models

import "time"

// EngagementSample is one perception tick. The engagement score is a pure
// function of (emotion, face presence, gaze) computed at ingest and never
// mutated afterwards; it can always be recomputed from the labels.
type EngagementSample struct {
	ID              uint   `gorm:"primaryKey"`
	SessionID       string `gorm:"index"`
	Emotion         string
	FacePresent     bool
	Gaze            string
	EngagementScore float64
	CreatedAt       time.Time
}
