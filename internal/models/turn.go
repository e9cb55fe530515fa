package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Subscores is the four-dimensional rubric evaluation of one answer.
// Stored as a JSONB column so the admin log can return it verbatim.
type Subscores struct {
	Relevance    float64 `json:"relevance"`
	Accuracy     float64 `json:"accuracy"`
	Completeness float64 `json:"completeness"`
	Clarity      float64 `json:"clarity"`
}

// Value implements driver.Valuer for GORM.
func (s Subscores) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for GORM.
func (s *Subscores) Scan(value interface{}) error {
	if value == nil {
		*s = Subscores{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return fmt.Errorf("cannot scan %T into Subscores", value)
		}
	}
	return json.Unmarshal(bytes, s)
}

// Map returns the subscores keyed the way the API reports them.
func (s Subscores) Map() map[string]float64 {
	return map[string]float64{
		"relevance":    s.Relevance,
		"accuracy":     s.Accuracy,
		"completeness": s.Completeness,
		"clarity":      s.Clarity,
	}
}

// Turn is one question/answer exchange in a session. Turns are append-only:
// the repository exposes no update or delete, and the core never rewrites one.
type Turn struct {
	ID            uint   `gorm:"primaryKey"`
	SessionID     string `gorm:"index:idx_turns_session_ordinal,unique"`
	Ordinal       int    `gorm:"index:idx_turns_session_ordinal,unique"`
	Question      *string
	Answer        string
	Subscores     Subscores `gorm:"type:jsonb"`
	Score         *float64
	Hallucination Verdict
	CreatedAt     time.Time
}

// NewScoredTurn builds a turn carrying a full rubric result. A non-nil score
// requires all four subscores, so the two always travel together.
func NewScoredTurn(sessionID string, question *string, answer string, sub Subscores, score float64, verdict Verdict) (*Turn, error) {
	if verdict == "" {
		return nil, errors.New("turn verdict is required")
	}
	return &Turn{
		SessionID:     sessionID,
		Question:      question,
		Answer:        answer,
		Subscores:     sub,
		Score:         &score,
		Hallucination: verdict,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
