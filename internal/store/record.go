package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
)

// RecordStore defines the interface for flashcard record persistence.
type RecordStore interface {
	// Create saves a new record.
	// Returns ErrRecordExists when a record with the same question and
	// response is already stored, and validation errors wrapped in
	// ErrInvalidEntity when the record is invalid.
	Create(ctx context.Context, record *domain.Record) error

	// Exists reports whether a record with the given question and
	// response text is already stored.
	Exists(ctx context.Context, question, response string) (bool, error)

	// GetByID retrieves a record by its unique ID.
	// Returns ErrRecordNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error)

	// WithTx returns a RecordStore bound to the given transaction so
	// that duplicate checks and inserts can run atomically.
	WithTx(tx *sql.Tx) RecordStore
}
