package models

import "time"

// Session is one interview instance. It owns its Turns and EngagementSamples
// by session id; nothing owns a Session. The core holds no explicit "closed"
// state: a session ends when callers stop driving it.
type Session struct {
	ID            string `gorm:"primaryKey"`
	CandidateName string
	JobRole       string
	ResumeFile    string
	CreatedAt     time.Time
}
