package grader_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgirault/lexicard/internal/grader"
)

func TestHTMLDiff(t *testing.T) {
	t.Parallel()

	t.Run("TransposedLetters", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("teh cat", "the cat")
		assert.Equal(t,
			"te<u style='background: #ff0000; color: #fff;'>h</u> cat",
			user,
		)
		assert.Equal(t,
			"t<u style='background: #00b300; color: #fff;'>h</u>e cat",
			accepted,
		)
	})

	t.Run("IdenticalStrings", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("the cat", "the cat")
		assert.Equal(t, "the cat", user)
		assert.Equal(t, "the cat", accepted)
	})

	t.Run("CaseAndPunctuationNotFlagged", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("The cat", "the cat!")
		assert.Equal(t, "The cat", user)
		assert.Equal(t, "the cat!", accepted)
	})

	t.Run("CompletelyDifferent", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("dog", "cat")
		assert.Equal(t,
			"<u style='background: #ff0000; color: #fff;'>dog</u>",
			user,
		)
		assert.Equal(t,
			"<u style='background: #00b300; color: #fff;'>cat</u>",
			accepted,
		)
	})

	t.Run("MissingWord", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("the cat", "the black cat")
		assert.Equal(t, "the cat", user)
		assert.Contains(t, accepted, "<u style='background: #00b300; color: #fff;'>")
		assert.Contains(t, accepted, "black")
	})

	t.Run("EscapesHTML", func(t *testing.T) {
		t.Parallel()
		user, _ := grader.HTMLDiff("a<b", "a")
		assert.NotContains(t, user, "a<b")
		assert.Contains(t, user, "&lt;")
	})

	t.Run("EmptyUserAnswer", func(t *testing.T) {
		t.Parallel()
		user, accepted := grader.HTMLDiff("", "cat")
		assert.Equal(t, "", user)
		assert.Equal(t,
			"<u style='background: #00b300; color: #fff;'>cat</u>",
			accepted,
		)
	})
}
