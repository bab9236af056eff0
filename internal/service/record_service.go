package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgirault/lexicard/internal/domain"
	"github.com/mgirault/lexicard/internal/store"
)

// MediaPreparer places a user-supplied clip into the audio directory,
// trimming it when timestamps are present.
type MediaPreparer interface {
	Prepare(ctx context.Context, srcPath string, startMs, endMs *int64) (string, error)
}

// SpeechSynthesizer produces an audio file for records submitted
// without a media clip. nameHint seeds the generated file name.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, nameHint string) (string, error)
}

// RecordService turns queued submissions into stored records. It
// performs the duplicate check, prepares or synthesizes the audio clip
// and persists the result.
type RecordService struct {
	db      *sql.DB
	records store.RecordStore
	media   MediaPreparer
	speech  SpeechSynthesizer
	logger  *slog.Logger
	nowFn   func() time.Time
}

// NewRecordService creates a RecordService. db may be nil in tests, in
// which case inserts run outside a transaction.
func NewRecordService(
	db *sql.DB,
	records store.RecordStore,
	media MediaPreparer,
	speech SpeechSynthesizer,
	logger *slog.Logger,
) *RecordService {
	return &RecordService{
		db:      db,
		records: records,
		media:   media,
		speech:  speech,
		logger:  logger.With(slog.String("component", "record_service")),
		nowFn:   time.Now,
	}
}

// Insert validates a submission, prepares its audio and stores the
// resulting record. Returns domain.ErrDuplicateRecord when an identical
// question and response pair is already stored.
func (s *RecordService) Insert(ctx context.Context, payload domain.WorkPayload) (uuid.UUID, error) {
	// Store one canonical spelling per record; spelling variants of the
	// same text must also collide in the duplicate check below.
	payload.Question = domain.CanonicalText(payload.Question)
	payload.Response = domain.CanonicalText(payload.Response)

	if err := s.validate(payload); err != nil {
		return uuid.Nil, err
	}

	exists, err := s.records.Exists(ctx, payload.Question, payload.Response)
	if err != nil {
		return uuid.Nil, fmt.Errorf("checking for duplicate record: %w", err)
	}
	if exists {
		return uuid.Nil, domain.ErrDuplicateRecord
	}

	mediaFile, customMedia, err := s.prepareAudio(ctx, payload)
	if err != nil {
		return uuid.Nil, err
	}

	record, err := domain.NewRecord(
		mediaFile,
		payload.Question,
		payload.Response,
		payload.Attribution,
		customMedia,
		s.nowFn(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.persist(ctx, record); err != nil {
		if errors.Is(err, store.ErrRecordExists) {
			return uuid.Nil, domain.ErrDuplicateRecord
		}
		return uuid.Nil, fmt.Errorf("storing record: %w", err)
	}

	s.logger.Info("record stored",
		slog.String("record_id", record.ID.String()),
		slog.Bool("custom_media", customMedia))
	return record.ID, nil
}

func (s *RecordService) persist(ctx context.Context, record *domain.Record) error {
	if s.db == nil {
		return s.records.Create(ctx, record)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.records.WithTx(tx).Create(ctx, record)
	})
}

// validate applies the submission rules: non-empty question and
// response, and one response per blank.
func (s *RecordService) validate(payload domain.WorkPayload) error {
	if strings.TrimSpace(payload.Question) == "" {
		return domain.ErrEmptyQuestion
	}
	if strings.TrimSpace(payload.Response) == "" {
		return domain.ErrEmptyResponse
	}
	if domain.CountBlanks(payload.Question) != len(payload.Responses()) {
		return domain.ErrBlankArity
	}
	return nil
}

// prepareAudio produces the record's clip: the user's file when one was
// supplied, synthesized speech of the completed sentence otherwise.
func (s *RecordService) prepareAudio(ctx context.Context, payload domain.WorkPayload) (string, bool, error) {
	if payload.MediaPath != "" {
		name, err := s.media.Prepare(ctx, payload.MediaPath, payload.StartMs, payload.EndMs)
		if err != nil {
			return "", false, fmt.Errorf("preparing media clip: %w", err)
		}
		return name, true, nil
	}

	responses := payload.Responses()
	var nameHint string
	if len(responses) > 0 {
		nameHint = responses[0]
	}
	name, err := s.speech.Synthesize(ctx, SpokenText(payload.Question, responses), nameHint)
	if err != nil {
		return "", false, fmt.Errorf("synthesizing speech: %w", err)
	}
	return name, false, nil
}

// SpokenText rebuilds the complete sentence by substituting each blank
// with its response, in order. Responses beyond the blank count are
// ignored; missing ones leave the blank token in place.
func SpokenText(question string, responses []string) string {
	parts := strings.Split(question, domain.BlankToken)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i == len(parts)-1 {
			break
		}
		if i < len(responses) {
			b.WriteString(responses[i])
		} else {
			b.WriteString(domain.BlankToken)
		}
	}
	return b.String()
}
