package anchor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// Segment maps one contiguous run of linearized characters back to a
// document node. CharStart/CharEnd are byte offsets into the linear
// text; NodeOffset is the byte offset into the node's text where the
// run begins.
type Segment struct {
	CharStart  int
	CharEnd    int // exclusive
	Node       *model.Node
	NodeOffset int
}

// LinearizedText is a flattened document snapshot: one normalized
// string plus the reverse offset map. Segments are contiguous,
// non-overlapping, and cover every byte of Text. The value is never
// mutated after construction, so any number of resolutions may share
// one instance concurrently.
type LinearizedText struct {
	Text     string
	Segments []Segment
}

// segmentAt returns the index of the segment containing linear byte
// position pos.
func (lt *LinearizedText) segmentAt(pos int) (int, bool) {
	i := sort.Search(len(lt.Segments), func(i int) bool {
		return lt.Segments[i].CharEnd > pos
	})
	if i >= len(lt.Segments) || lt.Segments[i].CharStart > pos {
		return 0, false
	}
	return i, true
}

// Linearizer flattens a document tree into a LinearizedText. The same
// normalization runs at marking time and at resolution time; changing
// it invalidates every stored selector, so the rules are deliberately
// minimal: runs of Unicode whitespace collapse to a single space, block
// boundaries count as whitespace, and leading/trailing whitespace is
// dropped.
type Linearizer struct{}

// NewLinearizer creates a new linearizer
func NewLinearizer() *Linearizer {
	return &Linearizer{}
}

// Linearize flattens the document. An empty or nil document yields an
// empty LinearizedText, not an error. Deterministic for a fixed
// snapshot.
func (l *Linearizer) Linearize(doc *model.Document) *LinearizedText {
	b := &linearBuilder{}
	if doc != nil {
		b.walk(doc.Root)
	}
	return &LinearizedText{Text: b.text.String(), Segments: b.segments}
}

type linearBuilder struct {
	text     strings.Builder
	segments []Segment

	// a pending collapsed space, attributed to the whitespace rune that
	// opened the run (nil node for block-boundary gaps)
	pendingSpace bool
	spaceNode    *model.Node
	spaceOffset  int
}

func (b *linearBuilder) walk(n *model.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case model.NodeText:
		b.emitText(n)
	case model.NodeBlock:
		b.blockGap()
		for _, c := range n.Children {
			b.walk(c)
		}
		b.blockGap()
	}
}

// blockGap marks a block boundary as collapsible whitespace so that
// adjacent blocks never run their words together.
func (b *linearBuilder) blockGap() {
	if b.text.Len() > 0 && !b.pendingSpace {
		b.pendingSpace = true
		b.spaceNode = nil
	}
}

func (b *linearBuilder) emitText(n *model.Node) {
	for i, r := range n.Text {
		if unicode.IsSpace(r) {
			// Leading document whitespace is dropped entirely.
			if b.text.Len() > 0 && !b.pendingSpace {
				b.pendingSpace = true
				b.spaceNode = n
				b.spaceOffset = i
			}
			continue
		}
		if b.pendingSpace {
			sn, so := b.spaceNode, b.spaceOffset
			if sn == nil {
				// Block-boundary gap: attribute the space to the
				// character that follows it.
				sn, so = n, i
			}
			b.appendChar(' ', 1, sn, so)
			b.pendingSpace = false
			b.spaceNode = nil
		}
		b.appendChar(r, utf8.RuneLen(r), n, i)
	}
}

// appendChar emits one rune and extends the last segment when the node
// and byte offsets line up, otherwise opens a new segment.
func (b *linearBuilder) appendChar(r rune, width int, n *model.Node, off int) {
	pos := b.text.Len()
	if k := len(b.segments) - 1; k >= 0 {
		seg := &b.segments[k]
		if seg.Node == n && seg.NodeOffset+(pos-seg.CharStart) == off {
			b.text.WriteRune(r)
			seg.CharEnd = pos + width
			return
		}
	}
	b.text.WriteRune(r)
	b.segments = append(b.segments, Segment{
		CharStart:  pos,
		CharEnd:    pos + width,
		Node:       n,
		NodeOffset: off,
	})
}
