package model

// Selector is the portable, storage-durable descriptor of a text span.
// It is built once when the span is marked and never mutated afterwards;
// re-marking produces a new Selector.
type Selector struct {
	Exact        string        `json:"exact" yaml:"exact"`                                   // the literal quoted text
	Prefix       string        `json:"prefix,omitempty" yaml:"prefix,omitempty"`             // up to 32 chars preceding the quote
	Suffix       string        `json:"suffix,omitempty" yaml:"suffix,omitempty"`             // up to 32 chars following the quote
	PositionHint *PositionHint `json:"position_hint,omitempty" yaml:"position_hint,omitempty"` // linear offsets at creation time
}

// PositionHint records where the quote sat in the linearized text when
// the selector was built. It is allowed to be stale at resolution time:
// the resolver treats it as a starting point, never a constraint.
type PositionHint struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Method identifies which resolver tier produced a match
type Method string

const (
	MethodExactPosition Method = "exact_position"  // hint offsets still hold the quote verbatim
	MethodQuoteNearHint Method = "quote_near_hint" // quote found within the radius search around the hint
	MethodFuzzySearch   Method = "fuzzy_search"    // best-scoring window from a whole-document scan
)

// ResolvedRange is the outcome of a successful resolution against the
// current linearized text. Offsets are byte offsets into that text and
// are only meaningful together with the snapshot they were resolved
// against.
type ResolvedRange struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
}

// NativeRange is a resolved range translated back into document
// node/offset form. Offsets are byte offsets into the node's text.
type NativeRange struct {
	StartNode   *Node
	StartOffset int
	EndNode     *Node
	EndOffset   int
}
