package score

import (
	"unicode/utf8"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// Weighting between the quote similarity and the context bonus. A
// verbatim quote with no recognizable context still lands at 0.8, above
// the default acceptance threshold; context decides between otherwise
// equal occurrences.
const (
	quoteWeight   = 0.8
	contextWeight = 0.2
)

// Scorer rates how well a candidate window of current-document text
// matches a stored selector. Pure and order-independent: the same
// inputs always produce the same score in [0,1].
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score combines quote similarity with a context bonus. window is the
// candidate text; before and after are the text immediately
// surrounding it in the current document. Selectors built at a
// document boundary may carry no context at all, in which case the
// quote similarity stands alone.
func (s *Scorer) Score(window, before, after string, sel model.Selector) float64 {
	quote := similarity(window, sel.Exact)
	if sel.Prefix == "" && sel.Suffix == "" {
		return quote
	}
	return quoteWeight*quote + contextWeight*s.contextScore(before, after, sel)
}

// contextScore gives partial credit for partial overlap: neighboring
// content may have been inserted or removed since the span was marked.
func (s *Scorer) contextScore(before, after string, sel model.Selector) float64 {
	var sum float64
	var parts int
	if sel.Prefix != "" {
		sum += similarity(tail(before, len(sel.Prefix)), sel.Prefix)
		parts++
	}
	if sel.Suffix != "" {
		sum += similarity(head(after, len(sel.Suffix)), sel.Suffix)
		parts++
	}
	if parts == 0 {
		return 0
	}
	return sum / float64(parts)
}

// similarity is 1.0 for verbatim equality, otherwise the normalized
// longest-common-subsequence ratio over runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	l := lcsLength(ra, rb)
	return 2 * float64(l) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a
// two-row table. Inputs are bounded by the quote and context window
// sizes, which keeps the quadratic table small.
func lcsLength(a, b []rune) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 1; j <= len(b); j++ {
		for i := 1; i <= len(a); i++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[i] = prev[i-1] + 1
			case prev[i] >= curr[i-1]:
				curr[i] = prev[i]
			default:
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

// tail returns the last n bytes of s, snapped to a rune boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}

// head returns the first n bytes of s, snapped to a rune boundary.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := n
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}
