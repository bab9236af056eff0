package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/platform/logger"
	"github.com/mgirault/lexicard/internal/store"
)

// PostgresRecordStore implements the store.RecordStore interface using PostgreSQL.
type PostgresRecordStore struct {
	db store.DBTX
}

// Verify interface compliance at compile time.
var _ store.RecordStore = (*PostgresRecordStore)(nil)

// NewPostgresRecordStore creates a new PostgresRecordStore.
func NewPostgresRecordStore(db store.DBTX) *PostgresRecordStore {
	return &PostgresRecordStore{
		db: db,
	}
}

// WithTx returns a RecordStore bound to the given transaction.
func (s *PostgresRecordStore) WithTx(tx *sql.Tx) store.RecordStore {
	return &PostgresRecordStore{
		db: tx,
	}
}

// Create saves a new record. Returns store.ErrRecordExists when a record
// with the same question and response text is already stored.
func (s *PostgresRecordStore) Create(ctx context.Context, record *domain.Record) error {
	log := logger.FromContext(ctx)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	exists, err := s.Exists(ctx, record.Question, record.Response)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("record already stored",
			"question", record.Question)
		return store.ErrRecordExists
	}

	query := `
		INSERT INTO records (id, media_file, question, response, creation_date, custom_media, attribution)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.MediaFile,
		record.Question,
		record.Response,
		record.CreationDate,
		record.CustomMedia,
		record.Attribution,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return store.ErrRecordExists
		}
		log.Error("failed to save record",
			"record_id", record.ID,
			"error", err)
		return fmt.Errorf("failed to save record: %w", mapped)
	}

	return nil
}

// Exists reports whether a record with the given question and response
// text is already stored.
func (s *PostgresRecordStore) Exists(ctx context.Context, question, response string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM records WHERE question = $1 AND response = $2
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, question, response).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for duplicate record: %w", MapError(err))
	}
	return exists, nil
}

// GetByID retrieves a record by its unique ID.
func (s *PostgresRecordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	query := `
		SELECT id, media_file, question, response, creation_date, custom_media, attribution
		FROM records
		WHERE id = $1
	`

	var record domain.Record
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.MediaFile,
		&record.Question,
		&record.Response,
		&record.CreationDate,
		&record.CustomMedia,
		&record.Attribution,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", mapped)
	}

	return &record, nil
}
