package repository

import (
	"context"
	"time"

	"interviewd/internal/models"
)

// AppendTurn writes one turn, assigning the next ordinal for the session in
// the same statement so that ordinals stay strictly increasing even when
// turns for one session are written concurrently. The unique index on
// (session_id, ordinal) rejects the losing writer of a race instead of
// letting two turns share a position.
func (s *Store) AppendTurn(ctx context.Context, turn *models.Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO turns (session_id, ordinal, question, answer, subscores, score, hallucination, created_at)
		VALUES (?, (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM turns WHERE session_id = ?), ?, ?, ?, ?, ?, ?)
		RETURNING id, ordinal
	`
	row := s.db.WithContext(ctx).Raw(query,
		turn.SessionID, turn.SessionID,
		turn.Question, turn.Answer, turn.Subscores, turn.Score, turn.Hallucination, turn.CreatedAt,
	).Row()

	return row.Scan(&turn.ID, &turn.Ordinal)
}

// RecentTurns returns the session's turns in chronological order.
func (s *Store) RecentTurns(ctx context.Context, sessionID string) ([]models.Turn, error) {
	var turns []models.Turn
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("ordinal ASC").
		Find(&turns).Error
	return turns, err
}
