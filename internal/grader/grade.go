package grader

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericTolerance is the strict upper bound on the absolute
// difference between two numeric answers considered equal.
const numericTolerance = 0.01

// ErrArityMismatch is returned when the number of user answers does
// not line up with the number of blanks, or an answer was left empty.
var ErrArityMismatch = errors.New("answer count does not match blank count")

// numericPattern recognizes answers graded by value rather than by
// text: an optionally signed decimal, optionally suffixed with %.
var numericPattern = regexp.MustCompile(`^\s*[+-]?\s*\d*(\.\d+)?\s*%?\s*$`)

// optionalPattern splits an accepted answer around its first
// parenthesized segment, such as "colour(s)".
var optionalPattern = regexp.MustCompile(`^(.*?)(\(.*?\))(.*)$`)

// BlankResult carries the verdict for a single blank.
type BlankResult struct {
	UserText       string `json:"user_text"`
	AcceptedText   string `json:"accepted_text"`
	Correct        bool   `json:"correct"`
	UserMarkup     string `json:"user_markup"`
	AcceptedMarkup string `json:"accepted_markup"`
}

// Result aggregates the verdicts for all blanks of a prompt.
type Result struct {
	Blanks       []BlankResult `json:"blanks"`
	CorrectCount int           `json:"correct_count"`
	TotalCount   int           `json:"total_count"`
	AllCorrect   bool          `json:"all_correct"`
}

// parseNumeric converts a numeric answer to a float, dividing by 100
// when the value is written as a percentage.
func parseNumeric(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	percent := strings.Contains(trimmed, "%")
	trimmed = strings.TrimSpace(strings.Trim(trimmed, "%"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric answer %q: %w", s, err)
	}
	if percent {
		v /= 100
	}
	return v, nil
}

// gradeNumeric compares two numeric answers within tolerance. A user
// answer that fails to parse is simply wrong.
func gradeNumeric(userText, acceptedText string) bool {
	accepted, err := parseNumeric(acceptedText)
	if err != nil {
		return false
	}
	user, err := parseNumeric(userText)
	if err != nil {
		return false
	}
	return math.Abs(user-accepted) < numericTolerance
}

// gradeOptional handles accepted answers carrying a parenthesized
// optional segment, like "colour(s)": the user answer is correct if it
// matches with any one of the bracketed alternatives removed from both
// sides. Returns false for the second value when the accepted answer
// has no such segment.
func gradeOptional(userText, acceptedText string) (bool, bool) {
	m := optionalPattern.FindStringSubmatch(acceptedText)
	if m == nil {
		return false, false
	}
	base := m[1] + m[3]
	options := strings.Fields(strings.Trim(m[2], "()"))
	if len(options) == 0 {
		// Empty parens still mark the segment optional; compare against
		// the bare base.
		options = []string{""}
	}
	for _, opt := range options {
		u := Normalize(strings.ReplaceAll(userText, opt, ""))
		a := Normalize(strings.ReplaceAll(base, opt, ""))
		if u == a {
			return true, true
		}
	}
	return false, true
}

// GradeOne grades a single blank and renders the HTML diff of the raw
// strings.
func GradeOne(userText, acceptedText string) BlankResult {
	res := BlankResult{UserText: userText, AcceptedText: acceptedText}
	switch {
	case numericPattern.MatchString(acceptedText):
		res.Correct = gradeNumeric(userText, acceptedText)
	default:
		if ok, handled := gradeOptional(userText, acceptedText); handled {
			res.Correct = ok
		} else {
			res.Correct = Normalize(userText) == Normalize(acceptedText)
		}
	}
	if !res.Correct {
		res.UserMarkup, res.AcceptedMarkup = HTMLDiff(userText, acceptedText)
	}
	return res
}

// GradeAll grades the user's answers against the accepted answers
// positionally. Every blank must receive a non-empty answer.
func GradeAll(userTexts, acceptedTexts []string) (*Result, error) {
	if len(userTexts) != len(acceptedTexts) {
		return nil, fmt.Errorf(
			"%w: got %d answers for %d blanks",
			ErrArityMismatch, len(userTexts), len(acceptedTexts),
		)
	}
	for i, u := range userTexts {
		if strings.TrimSpace(u) == "" {
			return nil, fmt.Errorf("%w: answer %d is empty", ErrArityMismatch, i+1)
		}
	}

	result := &Result{TotalCount: len(acceptedTexts)}
	for i := range acceptedTexts {
		blank := GradeOne(userTexts[i], acceptedTexts[i])
		if blank.Correct {
			result.CorrectCount++
		}
		result.Blanks = append(result.Blanks, blank)
	}
	result.AllCorrect = result.CorrectCount == result.TotalCount
	return result, nil
}
