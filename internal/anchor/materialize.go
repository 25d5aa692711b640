package anchor

import (
	"fmt"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// Materializer translates resolved linear ranges back into document
// node/offset form the caller can paint or excerpt.
type Materializer struct{}

// NewMaterializer creates a new materializer
func NewMaterializer() *Materializer {
	return &Materializer{}
}

// Materialize maps the resolved range onto the segment map by binary
// search. The range must come from a resolution against this same
// linearization; a stale pairing surfaces as ErrOutOfBounds rather
// than a silently wrong native range.
func (m *Materializer) Materialize(lin *LinearizedText, rr model.ResolvedRange) (model.NativeRange, error) {
	if lin == nil {
		return model.NativeRange{}, fmt.Errorf("%w: nil linearized text", ErrOutOfBounds)
	}
	if rr.Start < 0 || rr.End <= rr.Start || rr.End > len(lin.Text) {
		return model.NativeRange{}, fmt.Errorf("%w: [%d,%d) over %d bytes", ErrOutOfBounds, rr.Start, rr.End, len(lin.Text))
	}

	si, ok := lin.segmentAt(rr.Start)
	if !ok {
		return model.NativeRange{}, fmt.Errorf("%w: start %d not covered", ErrOutOfBounds, rr.Start)
	}
	ei, ok := lin.segmentAt(rr.End - 1)
	if !ok {
		return model.NativeRange{}, fmt.Errorf("%w: end %d not covered", ErrOutOfBounds, rr.End)
	}

	start := lin.Segments[si]
	end := lin.Segments[ei]
	return model.NativeRange{
		StartNode:   start.Node,
		StartOffset: start.NodeOffset + (rr.Start - start.CharStart),
		EndNode:     end.Node,
		EndOffset:   end.NodeOffset + (rr.End - end.CharStart),
	}, nil
}
