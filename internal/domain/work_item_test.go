package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirault/lexicard/internal/domain"
)

func TestNewWorkItem(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("valid payload", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewWorkItem(domain.WorkPayload{
			Question: "le chat dort sur le (?)",
			Response: "canapé",
		}, now)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, domain.WorkItemStatusPending, item.Status)
		assert.Equal(t, now, item.EnqueuedAt)
		assert.Nil(t, item.ProcessingStartedAt)
	})

	t.Run("empty question", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewWorkItem(domain.WorkPayload{
			Question: "   ",
			Response: "oui",
		}, now)

		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewWorkItem(domain.WorkPayload{
			Question: "(?)",
			Response: " ; ",
		}, now)

		assert.ErrorIs(t, err, domain.ErrEmptyResponse)
	})

	t.Run("blank count must match responses", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewWorkItem(domain.WorkPayload{
			Question: "(?) et (?)",
			Response: "un",
		}, now)

		assert.ErrorIs(t, err, domain.ErrBlankArity)
	})

	t.Run("multiple blanks with matching responses", func(t *testing.T) {
		t.Parallel()

		item, err := domain.NewWorkItem(domain.WorkPayload{
			Question: "(?) et (?)",
			Response: "un; deux",
		}, now)

		require.NoError(t, err)
		assert.Equal(t, []string{"un", "deux"}, item.Payload.Responses())
	})
}

func TestWorkItem_CorrelationKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 9, 26, 53, 123e6, time.UTC)
	item, err := domain.NewWorkItem(domain.WorkPayload{
		Question: "(?)",
		Response: "mot",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, now.UnixMilli(), item.CorrelationKey())
}

func TestWorkItem_Terminal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status   domain.WorkItemStatus
		terminal bool
	}{
		{domain.WorkItemStatusPending, false},
		{domain.WorkItemStatusProcessing, false},
		{domain.WorkItemStatusCompleted, true},
		{domain.WorkItemStatusError, true},
	}

	for _, tc := range cases {
		item := &domain.WorkItem{Status: tc.status}
		assert.Equal(t, tc.terminal, item.Terminal(), "status %s", tc.status)
	}
}

func TestWorkItem_SamePayload(t *testing.T) {
	t.Parallel()

	a := &domain.WorkItem{Payload: domain.WorkPayload{Question: "(?)", Response: "chien"}}
	b := &domain.WorkItem{Payload: domain.WorkPayload{Question: "(?)", Response: "chien", MediaPath: "/tmp/x.mp3"}}
	c := &domain.WorkItem{Payload: domain.WorkPayload{Question: "(?)", Response: "chat"}}

	assert.True(t, a.SamePayload(b), "media path must not affect payload identity")
	assert.False(t, a.SamePayload(c))
}

func TestCountBlanks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, domain.CountBlanks("pas de blanc"))
	assert.Equal(t, 2, domain.CountBlanks("(?) mange (?)"))
}
