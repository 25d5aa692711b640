package model

import "testing"

func TestAnchorReport_Tally(t *testing.T) {
	report := &AnchorReport{
		Results: []AnchorResult{
			{Range: &ResolvedRange{Method: MethodExactPosition, Confidence: 1.0}},
			{Range: &ResolvedRange{Method: MethodQuoteNearHint, Confidence: 0.9}},
			{Range: &ResolvedRange{Method: MethodFuzzySearch, Confidence: 0.8}},
			{Orphaned: true},
			{Orphaned: true, Error: "materialize: stale range"},
		},
	}

	report.Tally()

	s := report.Stats
	if s.Total != 5 || s.Resolved != 3 || s.Orphaned != 2 {
		t.Errorf("stats = %+v", s)
	}
	if s.ExactPosition != 1 || s.QuoteNearHint != 1 || s.FuzzySearch != 1 {
		t.Errorf("method counts = %+v", s)
	}
}

func TestAnchorReport_TallyEmpty(t *testing.T) {
	report := &AnchorReport{}
	report.Tally()
	if report.Stats != (AnchorStats{}) {
		t.Errorf("stats = %+v", report.Stats)
	}
}

func TestDocument_TextNodes(t *testing.T) {
	doc := &Document{
		Root: &Node{Kind: NodeBlock, Name: "body", Children: []*Node{
			{Kind: NodeBlock, Name: "p", Children: []*Node{
				{Kind: NodeText, Text: "first"},
			}},
			{Kind: NodeBlock, Name: "p", Children: []*Node{
				{Kind: NodeText, Text: "second"},
				{Kind: NodeText, Text: "third"},
			}},
		}},
	}

	nodes := doc.TextNodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d text nodes", len(nodes))
	}
	for i, want := range []string{"first", "second", "third"} {
		if nodes[i].Text != want {
			t.Errorf("node %d = %q, want %q", i, nodes[i].Text, want)
		}
	}
}

func TestDocument_TextNodesEmpty(t *testing.T) {
	var nilDoc *Document
	if got := nilDoc.TextNodes(); len(got) != 0 {
		t.Errorf("nil document returned %d nodes", len(got))
	}
	if got := (&Document{}).TextNodes(); len(got) != 0 {
		t.Errorf("rootless document returned %d nodes", len(got))
	}
}
