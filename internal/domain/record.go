package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Record-specific validation errors
var (
	// ErrRecordIDEmpty is returned when a record ID is empty or nil.
	ErrRecordIDEmpty = errors.New("record ID cannot be empty")

	// ErrRecordMediaEmpty is returned when a record has no media file path.
	ErrRecordMediaEmpty = errors.New("record media file cannot be empty")
)

// Record represents one stored flashcard: a question with fill-in blanks,
// its accepted responses, and the media clip played during review.
type Record struct {
	ID           uuid.UUID `json:"id"`
	MediaFile    string    `json:"media_file"`
	Question     string    `json:"question"`
	Response     string    `json:"response"`
	CreationDate time.Time `json:"creation_date"`
	CustomMedia  bool      `json:"custom_media"`
	Attribution  string    `json:"attribution"`
}

// NewRecord creates a Record with a fresh UUID and the given content.
// CustomMedia distinguishes user-supplied clips from synthesized audio.
func NewRecord(mediaFile, question, response, attribution string, customMedia bool, now time.Time) (*Record, error) {
	if attribution == "" {
		attribution = "no-attribution"
	}
	rec := &Record{
		ID:           uuid.New(),
		MediaFile:    mediaFile,
		Question:     question,
		Response:     response,
		CreationDate: now.UTC(),
		CustomMedia:  customMedia,
		Attribution:  attribution,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks if the Record has valid data.
func (r *Record) Validate() error {
	if r.ID == uuid.Nil {
		return ErrRecordIDEmpty
	}
	if r.Question == "" {
		return ErrEmptyQuestion
	}
	if r.Response == "" {
		return ErrEmptyResponse
	}
	if r.MediaFile == "" {
		return ErrRecordMediaEmpty
	}
	return nil
}
