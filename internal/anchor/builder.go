package anchor

import (
	"fmt"
	"unicode/utf8"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// DefaultContextLength is the prefix/suffix window stored with every
// selector, in bytes. Context may be shorter at document boundaries;
// it is truncated, never padded.
const DefaultContextLength = 32

// Builder builds portable selectors from linearized ranges
type Builder struct {
	contextLen int
}

// NewBuilder creates a selector builder. A non-positive contextLen
// selects the default window.
func NewBuilder(contextLen int) *Builder {
	if contextLen <= 0 {
		contextLen = DefaultContextLength
	}
	return &Builder{contextLen: contextLen}
}

// Build extracts a selector for the byte range [start, end) of the
// linearized text. The range must be non-empty and inside the text;
// anything else is ErrInvalidRange. No side effects: the same inputs
// always produce the same selector.
func (b *Builder) Build(lin *LinearizedText, start, end int) (model.Selector, error) {
	if lin == nil {
		return model.Selector{}, fmt.Errorf("%w: nil linearized text", ErrInvalidRange)
	}
	if start < 0 || end <= start || end > len(lin.Text) {
		return model.Selector{}, fmt.Errorf("%w: [%d,%d) over %d bytes", ErrInvalidRange, start, end, len(lin.Text))
	}

	text := lin.Text

	p := start - b.contextLen
	if p < 0 {
		p = 0
	}
	for p < start && !utf8.RuneStart(text[p]) {
		p++
	}

	s := end + b.contextLen
	if s > len(text) {
		s = len(text)
	}
	for s > end && s < len(text) && !utf8.RuneStart(text[s]) {
		s--
	}

	return model.Selector{
		Exact:        text[start:end],
		Prefix:       text[p:start],
		Suffix:       text[end:s],
		PositionHint: &model.PositionHint{Start: start, End: end},
	}, nil
}
