package anchor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/bhi5hmaraj/anchorage/internal/score"
)

const (
	// Tier-2 radius schedule: start at initialRadius bytes around the
	// hint and multiply by radiusGrowth per round, capped at the
	// configured maximum. 64 covers ordinary whitespace and
	// punctuation drift in one round; the cap bounds the cost of
	// resolving against documents that changed wholesale.
	initialRadius = 64
	radiusGrowth  = 4

	// DefaultMaxRadius caps the tier-2 expanding window
	DefaultMaxRadius = 4096

	// DefaultFuzzyThreshold is the minimum acceptance score for the
	// quote-near-hint and fuzzy-search tiers
	DefaultFuzzyThreshold = 0.75

	// exactThreshold short-circuits a scan once a candidate is
	// indistinguishable from a verbatim match
	exactThreshold = 0.98

	// minFuzzyQuoteRunes guards the sliding approximate scan: a quote
	// shorter than this matches half the document with high similarity
	// and costs more than it disambiguates, so short quotes resolve
	// only through verbatim occurrence scans.
	minFuzzyQuoteRunes = 4

	// prefilterFloor is the minimum byte-overlap ratio a window must
	// reach before the quadratic similarity is computed for it
	prefilterFloor = 0.5
)

// Resolver relocates stored selectors in a freshly linearized document
// using a tiered strategy ordered from highest to lowest precision:
// ExactPosition, QuoteNearHint, FuzzySearch, then NotFound. It never
// mutates its inputs, so one LinearizedText snapshot can serve many
// concurrent resolutions.
type Resolver struct {
	scorer         *score.Scorer
	fuzzyThreshold float64
	maxRadius      int
}

// NewResolver creates a resolver. Non-positive arguments select the
// documented defaults.
func NewResolver(fuzzyThreshold float64, maxRadius int) *Resolver {
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	if maxRadius <= 0 {
		maxRadius = DefaultMaxRadius
	}
	return &Resolver{
		scorer:         score.NewScorer(),
		fuzzyThreshold: fuzzyThreshold,
		maxRadius:      maxRadius,
	}
}

// candidate is an ephemeral match over the current linearized text
type candidate struct {
	start int
	end   int
	score float64
}

// Resolve finds the best-matching range for the selector. The position
// hint is only a starting point: a stale or wrong hint degrades the
// search, never the result. Returns ErrNotFound once every tier is
// exhausted.
func (r *Resolver) Resolve(lin *LinearizedText, sel model.Selector) (model.ResolvedRange, error) {
	if sel.Exact == "" {
		return model.ResolvedRange{}, fmt.Errorf("%w: selector has empty quote", ErrInvalidRange)
	}
	if lin == nil || lin.Text == "" {
		return model.ResolvedRange{}, ErrNotFound
	}

	hint := sel.PositionHint

	// Tier 1: the document has not drifted under the hint.
	if hint != nil && hint.Start >= 0 && hint.End <= len(lin.Text) &&
		hint.End-hint.Start == len(sel.Exact) &&
		lin.Text[hint.Start:hint.End] == sel.Exact {
		return model.ResolvedRange{
			Start:      hint.Start,
			End:        hint.End,
			Confidence: 1.0,
			Method:     model.MethodExactPosition,
		}, nil
	}

	// Tier 2: verbatim quote within an expanding window around the hint.
	if hint != nil {
		if c, ok := r.quoteNearHint(lin.Text, sel); ok {
			return model.ResolvedRange{
				Start:      c.start,
				End:        c.end,
				Confidence: c.score,
				Method:     model.MethodQuoteNearHint,
			}, nil
		}
	}

	// Tier 3: whole-document scan.
	if c, ok := r.fuzzySearch(lin.Text, sel); ok {
		return model.ResolvedRange{
			Start:      c.start,
			End:        c.end,
			Confidence: c.score,
			Method:     model.MethodFuzzySearch,
		}, nil
	}

	return model.ResolvedRange{}, ErrNotFound
}

// quoteNearHint searches for verbatim occurrences of the quote within
// a window around the hint, expanding per the radius schedule until a
// candidate clears the threshold, the window covers the whole text, or
// the radius cap is hit.
func (r *Resolver) quoteNearHint(text string, sel model.Selector) (candidate, bool) {
	center := sel.PositionHint.Start
	if center < 0 {
		center = 0
	}
	if center > len(text) {
		center = len(text)
	}

	for radius := initialRadius; ; radius *= radiusGrowth {
		if radius > r.maxRadius {
			radius = r.maxRadius
		}
		lo := center - radius
		if lo < 0 {
			lo = 0
		}
		hi := center + len(sel.Exact) + radius
		if hi > len(text) {
			hi = len(text)
		}

		if best, ok := r.bestOccurrence(text, lo, hi, sel); ok && best.score >= r.fuzzyThreshold {
			return best, true
		}
		if (lo == 0 && hi == len(text)) || radius >= r.maxRadius {
			return candidate{}, false
		}
	}
}

// bestOccurrence scans verbatim occurrences of the quote starting in
// [lo, hi) and returns the best one under the tie-break rule.
func (r *Resolver) bestOccurrence(text string, lo, hi int, sel model.Selector) (candidate, bool) {
	var best candidate
	found := false
	for i := lo; i+len(sel.Exact) <= hi; {
		j := strings.Index(text[i:hi], sel.Exact)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(sel.Exact)
		c := candidate{start: start, end: end, score: r.scoreAt(text, start, end, sel)}
		if !found || r.better(c, best, sel.PositionHint) {
			best = c
			found = true
		}
		i = start + 1
	}
	return best, found
}

// fuzzySearch scans the whole document: verbatim occurrences first,
// then a coarse sliding window of the quote's length with a byte
// histogram prefilter, refined at byte steps around the best coarse
// hit. Early exit once a candidate is indistinguishable from verbatim.
func (r *Resolver) fuzzySearch(text string, sel model.Selector) (candidate, bool) {
	best, found := r.bestOccurrence(text, 0, len(text), sel)
	if found && best.score >= exactThreshold {
		return best, true
	}

	w := len(sel.Exact)
	if w <= len(text) && utf8.RuneCountInString(sel.Exact) >= minFuzzyQuoteRunes {
		if c, ok := r.slidingScan(text, sel); ok {
			if !found || r.better(c, best, sel.PositionHint) {
				best = c
				found = true
			}
		}
	}

	if found && best.score >= r.fuzzyThreshold {
		best.end = snapEnd(text, best.end)
		return best, true
	}
	return candidate{}, false
}

func (r *Resolver) slidingScan(text string, sel model.Selector) (candidate, bool) {
	w := len(sel.Exact)
	stride := w / 4
	if stride < 1 {
		stride = 1
	}

	var qh [256]int
	for i := 0; i < w; i++ {
		qh[sel.Exact[i]]++
	}

	// Rolling histogram overlap between the window and the quote.
	var wh [256]int
	matched := 0
	add := func(b byte) {
		if wh[b] < qh[b] {
			matched++
		}
		wh[b]++
	}
	remove := func(b byte) {
		wh[b]--
		if wh[b] < qh[b] {
			matched--
		}
	}
	for i := 0; i < w; i++ {
		add(text[i])
	}

	var coarse candidate
	coarseFound := false
	pos := 0
	for {
		if float64(matched)/float64(w) >= prefilterFloor {
			s := pos
			for s < len(text) && !utf8.RuneStart(text[s]) {
				s++
			}
			if s+w <= len(text) {
				c := candidate{start: s, end: s + w, score: r.scoreAt(text, s, s+w, sel)}
				if !coarseFound || r.better(c, coarse, sel.PositionHint) {
					coarse = c
					coarseFound = true
				}
				if c.score >= exactThreshold {
					return c, true
				}
			}
		}
		if pos+stride+w > len(text) {
			break
		}
		for k := 0; k < stride; k++ {
			remove(text[pos+k])
			add(text[pos+w+k])
		}
		pos += stride
	}

	if !coarseFound {
		return candidate{}, false
	}

	// Refine around the best coarse hit at byte steps.
	lo := coarse.start - stride
	if lo < 0 {
		lo = 0
	}
	hi := coarse.start + stride
	for i := lo; i <= hi && i+w <= len(text); i++ {
		if !utf8.RuneStart(text[i]) {
			continue
		}
		c := candidate{start: i, end: i + w, score: r.scoreAt(text, i, i+w, sel)}
		if r.better(c, coarse, sel.PositionHint) {
			coarse = c
		}
		if coarse.score >= exactThreshold {
			break
		}
	}
	return coarse, true
}

// scoreAt rates the window [start, end) using surrounding context of
// the same lengths the selector stored.
func (r *Resolver) scoreAt(text string, start, end int, sel model.Selector) float64 {
	p := start - len(sel.Prefix)
	if p < 0 {
		p = 0
	}
	for p < start && !utf8.RuneStart(text[p]) {
		p++
	}
	q := end + len(sel.Suffix)
	if q > len(text) {
		q = len(text)
	}
	for q > end && q < len(text) && !utf8.RuneStart(text[q]) {
		q--
	}
	return r.scorer.Score(text[start:end], text[p:start], text[end:q], sel)
}

// better reports whether a beats b: higher score wins; at equal score
// the candidate closest to the hint start wins, and without a hint the
// earliest in document order wins. Deterministic across repeated
// resolutions of an unchanged document.
func (r *Resolver) better(a, b candidate, hint *model.PositionHint) bool {
	const eps = 1e-9
	if a.score > b.score+eps {
		return true
	}
	if a.score < b.score-eps {
		return false
	}
	if hint != nil {
		da, db := absInt(a.start-hint.Start), absInt(b.start-hint.Start)
		if da != db {
			return da < db
		}
	}
	return a.start < b.start
}

// snapEnd advances pos to the next rune boundary.
func snapEnd(text string, pos int) int {
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos++
	}
	return pos
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
