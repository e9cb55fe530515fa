package repository

import "gorm.io/gorm"

// Store wraps the database handle for the interview tables. It is passed into
// handlers and the orchestrator at construction time so tests can substitute
// fakes behind the narrow interfaces they declare.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
