package livestate

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("livestate: session state not found")
	ErrVersionConflict = errors.New("livestate: version conflict")
	ErrInvalidDriver   = errors.New("livestate: invalid driver")
	ErrInvalidConfig   = errors.New("livestate: invalid driver configuration")
)

// State is the small mutable companion to the append-only interview log: the
// question currently on the table for a session. Everything else about a
// session is derivable from the persisted turns.
type State struct {
	SessionID    string    `json:"session_id"`
	LastQuestion string    `json:"last_question"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int64     `json:"version"` // Monotonically increasing for optimistic locking
}

// Store holds live session state. The memory driver serves a single-node
// deployment; the redis driver lets several nodes share one interview.
type Store interface {
	// Create creates state for a new session with Version set to 1.
	Create(ctx context.Context, state *State) error

	// Get retrieves state by session ID.
	// Returns nil if not found (not an error).
	Get(ctx context.Context, sessionID string) (*State, error)

	// Update persists state with optimistic locking: the stored Version must
	// match, and is incremented on success.
	// Returns ErrVersionConflict on a stale write, ErrNotFound if absent.
	Update(ctx context.Context, state *State) error

	// Delete removes state for a session.
	Delete(ctx context.Context, sessionID string) error

	// Close releases any resources held by the store.
	Close() error
}
