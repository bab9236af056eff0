package grader

import (
	"html"
	"strings"
	"unicode"
)

const (
	wrongOpen   = "<u style='background: #ff0000; color: #fff;'>"
	missingOpen = "<u style='background: #00b300; color: #fff;'>"
	markClose   = "</u>"
)

type opTag int

const (
	opEqual opTag = iota
	opReplace
	opDelete
	opInsert
)

// opcode describes how a[a0:a1] relates to b[b0:b1].
type opcode struct {
	tag            opTag
	a0, a1, b0, b1 int
}

type match struct {
	a, b, size int
}

// findLongestMatch locates the longest matching block in
// a[alo:ahi] and b[blo:bhi], preferring the earliest match in a.
func findLongestMatch(a, b []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) match {
	best := match{a: alo, b: blo}
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > best.size {
				best = match{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newj2len
	}
	return best
}

// matchingBlocks returns the non-overlapping matching blocks of a and
// b in ascending order, terminated by a zero-length sentinel.
func matchingBlocks(a, b []rune) []match {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	var matched []match
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		m := findLongestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi, b2j)
		if m.size == 0 {
			continue
		}
		matched = append(matched, m)
		if s.alo < m.a && s.blo < m.b {
			queue = append(queue, span{s.alo, m.a, s.blo, m.b})
		}
		if m.a+m.size < s.ahi && m.b+m.size < s.bhi {
			queue = append(queue, span{m.a + m.size, s.ahi, m.b + m.size, s.bhi})
		}
	}

	// Insertion sort keeps this dependency-free; block counts are tiny.
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j-1].a > matched[j].a; j-- {
			matched[j-1], matched[j] = matched[j], matched[j-1]
		}
	}

	// Merge adjacent blocks.
	var blocks []match
	for _, m := range matched {
		if n := len(blocks); n > 0 {
			prev := &blocks[n-1]
			if prev.a+prev.size == m.a && prev.b+prev.size == m.b {
				prev.size += m.size
				continue
			}
		}
		blocks = append(blocks, m)
	}
	return append(blocks, match{a: len(a), b: len(b)})
}

// diffOpcodes computes edit operations transforming a into b.
func diffOpcodes(a, b []rune) []opcode {
	var ops []opcode
	ai, bj := 0, 0
	for _, m := range matchingBlocks(a, b) {
		switch {
		case ai < m.a && bj < m.b:
			ops = append(ops, opcode{opReplace, ai, m.a, bj, m.b})
		case ai < m.a:
			ops = append(ops, opcode{opDelete, ai, m.a, bj, m.b})
		case bj < m.b:
			ops = append(ops, opcode{opInsert, ai, m.a, bj, m.b})
		}
		if m.size > 0 {
			ops = append(ops, opcode{opEqual, m.a, m.a + m.size, m.b, m.b + m.size})
		}
		ai, bj = m.a+m.size, m.b+m.size
	}
	return ops
}

// stripForDiff lowercases text and drops strippable runes, recording
// for each kept rune its index in the original rune slice.
func stripForDiff(raw []rune) ([]rune, []int) {
	kept := make([]rune, 0, len(raw))
	idx := make([]int, 0, len(raw))
	for i, r := range raw {
		if isStrippable(r) {
			continue
		}
		kept = append(kept, unicode.ToLower(r))
		idx = append(idx, i)
	}
	return kept, idx
}

// spanBounds maps a range over the stripped runes back to bounds in
// the original rune slice.
func spanBounds(idx []int, lo, hi, rawLen int) (int, int) {
	if lo >= hi {
		if lo < len(idx) {
			return idx[lo], idx[lo]
		}
		return rawLen, rawLen
	}
	return idx[lo], idx[hi-1] + 1
}

// renderMarked emits raw escaped HTML, wrapping the rune ranges listed
// in marks with the given highlight style. Runes between marked ranges
// (including punctuation the alignment skipped) pass through unstyled.
type runeSpan struct{ lo, hi int }

func renderMarked(raw []rune, marks []runeSpan, open string) string {
	var b strings.Builder
	last := 0
	for _, m := range marks {
		if m.lo >= m.hi {
			continue
		}
		b.WriteString(html.EscapeString(string(raw[last:m.lo])))
		b.WriteString(open)
		b.WriteString(html.EscapeString(string(raw[m.lo:m.hi])))
		b.WriteString(markClose)
		last = m.hi
	}
	b.WriteString(html.EscapeString(string(raw[last:])))
	return b.String()
}

// HTMLDiff renders the user's answer and the accepted answer as HTML,
// highlighting in the user string the runs that differ (red) and in
// the accepted string the runs the user missed (green). Alignment
// ignores case, punctuation and whitespace; highlighting is applied to
// the untouched originals.
func HTMLDiff(userText, acceptedText string) (string, string) {
	userRaw := []rune(userText)
	acceptedRaw := []rune(acceptedText)
	a, aIdx := stripForDiff(userRaw)
	b, bIdx := stripForDiff(acceptedRaw)

	var userMarks, acceptedMarks []runeSpan
	for _, op := range diffOpcodes(a, b) {
		if op.tag == opEqual {
			continue
		}
		if op.a1 > op.a0 {
			lo, hi := spanBounds(aIdx, op.a0, op.a1, len(userRaw))
			userMarks = append(userMarks, runeSpan{lo, hi})
		}
		if op.b1 > op.b0 {
			lo, hi := spanBounds(bIdx, op.b0, op.b1, len(acceptedRaw))
			acceptedMarks = append(acceptedMarks, runeSpan{lo, hi})
		}
	}
	return renderMarked(userRaw, userMarks, wrongOpen),
		renderMarked(acceptedRaw, acceptedMarks, missingOpen)
}
