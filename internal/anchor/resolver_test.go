package anchor

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// selectorOver builds a selector for the first occurrence of quote
func selectorOver(t *testing.T, lin *LinearizedText, quote string) model.Selector {
	t.Helper()
	start := strings.Index(lin.Text, quote)
	if start < 0 {
		t.Fatalf("quote %q not in %q", quote, lin.Text)
	}
	sel, err := NewBuilder(0).Build(lin, start, start+len(quote))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return sel
}

func TestResolver_UnchangedDocument(t *testing.T) {
	lin := NewLinearizer().Linearize(textDoc("The quick brown fox jumps"))
	sel := selectorOver(t, lin, "brown fox")

	rr, err := NewResolver(0, 0).Resolve(lin, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if rr.Start != 10 || rr.End != 19 {
		t.Errorf("range = [%d,%d), want [10,19)", rr.Start, rr.End)
	}
	if rr.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", rr.Confidence)
	}
	if rr.Method != model.MethodExactPosition {
		t.Errorf("method = %q, want %q", rr.Method, model.MethodExactPosition)
	}
	if got := lin.Text[rr.Start:rr.End]; got != "brown fox" {
		t.Errorf("resolved text = %q", got)
	}
}

func TestResolver_SurvivesInsertionBeforeSpan(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc("The quick brown fox jumps"))
	sel := selectorOver(t, orig, "brown fox")

	drifted := NewLinearizer().Linearize(textDoc("The very quick brown fox jumps today"))
	rr, err := NewResolver(0, 0).Resolve(drifted, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := strings.Index(drifted.Text, "brown fox")
	if rr.Start != want || rr.End != want+len("brown fox") {
		t.Errorf("range = [%d,%d), want [%d,%d)", rr.Start, rr.End, want, want+len("brown fox"))
	}
	if rr.Method != model.MethodQuoteNearHint {
		t.Errorf("method = %q, want %q", rr.Method, model.MethodQuoteNearHint)
	}
	if rr.Confidence < DefaultFuzzyThreshold {
		t.Errorf("confidence %v below threshold", rr.Confidence)
	}
	if got := drifted.Text[rr.Start:rr.End]; got != "brown fox" {
		t.Errorf("resolved text = %q", got)
	}
}

func TestResolver_SurvivesDistantDrift(t *testing.T) {
	// Enough new text before the span to push it outside the first
	// radius round; the expanding window has to grow to find it.
	pad := strings.Repeat("filler sentence taking up room. ", 20)
	orig := NewLinearizer().Linearize(textDoc("Intro. The quick brown fox jumps over the lazy dog. Outro."))
	sel := selectorOver(t, orig, "brown fox jumps")

	drifted := NewLinearizer().Linearize(textDoc(pad + "Intro. The quick brown fox jumps over the lazy dog. Outro."))
	rr, err := NewResolver(0, 0).Resolve(drifted, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := drifted.Text[rr.Start:rr.End]; got != "brown fox jumps" {
		t.Errorf("resolved text = %q", got)
	}
}

func TestResolver_FuzzyMatchesEditedQuote(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc(
		"Background paragraph for context.",
		"The anchoring engine relocates spans after edits are applied.",
		"Closing paragraph for context.",
	))
	sel := selectorOver(t, orig, "The anchoring engine relocates spans after edits")

	// The quoted text itself changed, so no verbatim occurrence exists.
	drifted := NewLinearizer().Linearize(textDoc(
		"Background paragraph for context.",
		"The anchoring engine re-locates spans after edits are applied.",
		"Closing paragraph for context.",
	))

	rr, err := NewResolver(0, 0).Resolve(drifted, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rr.Method != model.MethodFuzzySearch {
		t.Errorf("method = %q, want %q", rr.Method, model.MethodFuzzySearch)
	}
	if rr.Confidence < DefaultFuzzyThreshold {
		t.Errorf("confidence %v below threshold", rr.Confidence)
	}
	if got := drifted.Text[rr.Start:rr.End]; !strings.Contains(got, "anchoring engine") {
		t.Errorf("resolved text %q misses the span", got)
	}
}

func TestResolver_ContextDisambiguatesDuplicateQuote(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc(
		"Alpha section mentions brown fox in passing and moves on quickly.",
		"Omega section mentions brown fox again with considerable flair.",
	))

	// Anchor the second occurrence.
	second := strings.LastIndex(orig.Text, "brown fox")
	sel, err := NewBuilder(0).Build(orig, second, second+len("brown fox"))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// New intro shifts both occurrences; the first now sits closer to
	// the stale hint than the second. Context has to break the tie.
	drifted := NewLinearizer().Linearize(textDoc(
		"A freshly added introduction paragraph changes every offset.",
		"Alpha section mentions brown fox in passing and moves on quickly.",
		"Omega section mentions brown fox again with considerable flair.",
	))

	rr, err := NewResolver(0, 0).Resolve(drifted, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := strings.LastIndex(drifted.Text, "brown fox")
	if rr.Start != want {
		t.Errorf("resolved start %d, want %d (second occurrence)", rr.Start, want)
	}
}

func TestResolver_NoHintFallsThroughToFuzzy(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc("Alpha beta gamma delta epsilon zeta"))
	sel := selectorOver(t, orig, "gamma delta")
	sel.PositionHint = nil

	rr, err := NewResolver(0, 0).Resolve(orig, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rr.Method != model.MethodFuzzySearch {
		t.Errorf("method = %q, want %q", rr.Method, model.MethodFuzzySearch)
	}
	if got := orig.Text[rr.Start:rr.End]; got != "gamma delta" {
		t.Errorf("resolved text = %q", got)
	}
}

func TestResolver_WildHintStillResolves(t *testing.T) {
	lin := NewLinearizer().Linearize(textDoc("A modest document with one brown fox inside it."))
	sel := selectorOver(t, lin, "brown fox")
	sel.PositionHint = &model.PositionHint{Start: 1 << 20, End: 1<<20 + 9}

	rr, err := NewResolver(0, 0).Resolve(lin, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := lin.Text[rr.Start:rr.End]; got != "brown fox" {
		t.Errorf("resolved text = %q", got)
	}
}

func TestResolver_RemovedTextOrphans(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc(
		"Keep this paragraph as it is.",
		"The doomed sentence will be deleted outright.",
		"Keep this one as well.",
	))
	sel := selectorOver(t, orig, "doomed sentence will be deleted")

	drifted := NewLinearizer().Linearize(textDoc(
		"Keep this paragraph as it is.",
		"Keep this one as well.",
	))

	_, err := NewResolver(0, 0).Resolve(drifted, sel)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_EmptyQuoteRejected(t *testing.T) {
	lin := NewLinearizer().Linearize(textDoc("anything"))
	_, err := NewResolver(0, 0).Resolve(lin, model.Selector{})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestResolver_EmptyDocument(t *testing.T) {
	lin := NewLinearizer().Linearize(textDoc())
	_, err := NewResolver(0, 0).Resolve(lin, model.Selector{Exact: "brown fox"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_ShortQuoteSkipsApproximateScan(t *testing.T) {
	// A three-rune quote resolves through verbatim occurrences only.
	lin := NewLinearizer().Linearize(textDoc("padding text before zzz padding text after"))
	sel := selectorOver(t, lin, "zzz")
	sel.PositionHint = nil

	rr, err := NewResolver(0, 0).Resolve(lin, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := lin.Text[rr.Start:rr.End]; got != "zzz" {
		t.Errorf("resolved text = %q", got)
	}

	// Absent, the same quote must orphan instead of approximately
	// matching some random three characters.
	gone := NewLinearizer().Linearize(textDoc("padding text before and after, nothing else"))
	if _, err := NewResolver(0, 0).Resolve(gone, sel); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolver_BoundedCostOnLargeDocument(t *testing.T) {
	var paras []string
	for i := 0; i < 400; i++ {
		paras = append(paras, fmt.Sprintf("Paragraph %d carries some ordinary prose for bulk purposes.", i))
	}
	lin := NewLinearizer().Linearize(textDoc(paras...))
	if len(lin.Text) < 20000 {
		t.Fatalf("fixture too small: %d bytes", len(lin.Text))
	}

	sel := model.Selector{
		Exact:        "qx7 vz93 jk1 absent token",
		Prefix:       "never seen prefix",
		Suffix:       "never seen suffix",
		PositionHint: &model.PositionHint{Start: len(lin.Text) / 2, End: len(lin.Text)/2 + 25},
	}

	started := time.Now()
	_, err := NewResolver(0, 0).Resolve(lin, sel)
	elapsed := time.Since(started)

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("resolution took %v on a %d-byte document", elapsed, len(lin.Text))
	}
}

func TestResolver_DeterministicAcrossRepeats(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc("one brown fox here and one brown fox there and nothing more"))
	sel := selectorOver(t, orig, "brown fox")

	first, err := NewResolver(0, 0).Resolve(orig, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := NewResolver(0, 0).Resolve(orig, sel)
		if err != nil {
			t.Fatalf("Resolve failed on repeat %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("repeat %d resolved %+v, first resolved %+v", i, again, first)
		}
	}
}

func TestResolver_MultibyteQuoteRoundTrip(t *testing.T) {
	orig := NewLinearizer().Linearize(textDoc("前置きのテキスト 引用された部分 後続のテキスト"))
	sel := selectorOver(t, orig, "引用された部分")

	drifted := NewLinearizer().Linearize(textDoc("新しい前置きのテキストです 引用された部分 後続のテキスト"))
	rr, err := NewResolver(0, 0).Resolve(drifted, sel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := drifted.Text[rr.Start:rr.End]; got != "引用された部分" {
		t.Errorf("resolved text = %q", got)
	}
}
