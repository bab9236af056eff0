package grader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgirault/lexicard/internal/grader"
)

func TestGradeOneTextAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     string
		accepted string
		correct  bool
	}{
		{name: "exact match", user: "chat", accepted: "chat", correct: true},
		{name: "case insensitive", user: "The Cat", accepted: "the cat", correct: true},
		{name: "punctuation ignored", user: "dont stop", accepted: "don't stop!", correct: true},
		{name: "smart apostrophe equals ascii", user: "don't", accepted: "don’t", correct: true},
		{name: "oe digraph equals ligature", user: "coeur", accepted: "cœur", correct: true},
		{name: "ligature in user answer", user: "cœur", accepted: "coeur", correct: true},
		{name: "different words", user: "chien", accepted: "chat", correct: false},
		{name: "extra word", user: "the big cat", accepted: "the cat", correct: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := grader.GradeOne(tc.user, tc.accepted)
			assert.Equal(t, tc.correct, res.Correct)
			if tc.correct {
				assert.Empty(t, res.UserMarkup)
				assert.Empty(t, res.AcceptedMarkup)
			} else {
				assert.NotEmpty(t, res.UserMarkup)
				assert.NotEmpty(t, res.AcceptedMarkup)
			}
		})
	}
}

func TestGradeOneNumericAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     string
		accepted string
		correct  bool
	}{
		{name: "identical values", user: "3.14", accepted: "3.14", correct: true},
		{name: "within tolerance", user: "3.141", accepted: "3.1415", correct: true},
		{name: "at tolerance boundary", user: "3.14", accepted: "3.15", correct: false},
		{name: "beyond tolerance", user: "3", accepted: "4", correct: false},
		{name: "percentage equals fraction", user: "50%", accepted: "0.5", correct: true},
		{name: "fraction equals percentage", user: "0.5", accepted: "50%", correct: true},
		{name: "percentage with spaces", user: " 50 % ", accepted: "0.5", correct: true},
		{name: "negative values", user: "-2.5", accepted: "-2.5", correct: true},
		{name: "unparseable user answer", user: "abc", accepted: "3.14", correct: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := grader.GradeOne(tc.user, tc.accepted)
			assert.Equal(t, tc.correct, res.Correct)
		})
	}
}

func TestGradeOneOptionalSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     string
		accepted string
		correct  bool
	}{
		{name: "without optional suffix", user: "colour", accepted: "colour(s)", correct: true},
		{name: "with optional suffix", user: "colours", accepted: "colour(s)", correct: true},
		{name: "wrong stem", user: "color", accepted: "colour(s)", correct: false},
		{name: "optional word present", user: "se lever", accepted: "(se) lever", correct: true},
		{name: "optional word absent", user: "lever", accepted: "(se) lever", correct: true},
		{name: "wrong verb", user: "se laver", accepted: "(se) lever", correct: false},
		{name: "empty parens match bare base", user: "colour", accepted: "colour()", correct: true},
		{name: "empty parens wrong stem", user: "color", accepted: "colour()", correct: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := grader.GradeOne(tc.user, tc.accepted)
			assert.Equal(t, tc.correct, res.Correct)
		})
	}
}

func TestGradeAll(t *testing.T) {
	t.Parallel()

	t.Run("AllCorrect", func(t *testing.T) {
		t.Parallel()
		res, err := grader.GradeAll(
			[]string{"chat", "50%"},
			[]string{"chat", "0.5"},
		)
		require.NoError(t, err)
		assert.True(t, res.AllCorrect)
		assert.Equal(t, 2, res.CorrectCount)
		assert.Equal(t, 2, res.TotalCount)
		require.Len(t, res.Blanks, 2)
	})

	t.Run("PartiallyCorrect", func(t *testing.T) {
		t.Parallel()
		res, err := grader.GradeAll(
			[]string{"chat", "chien"},
			[]string{"chat", "chat"},
		)
		require.NoError(t, err)
		assert.False(t, res.AllCorrect)
		assert.Equal(t, 1, res.CorrectCount)
		assert.True(t, res.Blanks[0].Correct)
		assert.False(t, res.Blanks[1].Correct)
	})

	t.Run("CountMismatch", func(t *testing.T) {
		t.Parallel()
		_, err := grader.GradeAll([]string{"chat"}, []string{"chat", "chien"})
		assert.ErrorIs(t, err, grader.ErrArityMismatch)
	})

	t.Run("EmptyAnswer", func(t *testing.T) {
		t.Parallel()
		_, err := grader.GradeAll([]string{"chat", "  "}, []string{"chat", "chien"})
		assert.ErrorIs(t, err, grader.ErrArityMismatch)
	})
}
