package model

import "time"

// AnchorReport is the result of re-anchoring a set of annotations
// against one document snapshot.
type AnchorReport struct {
	Source    string    `json:"source"`
	Title     string    `json:"title,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	FetchMeta FetchMeta `json:"fetch_meta,omitempty"`

	Results []AnchorResult `json:"results"`
	Stats   AnchorStats    `json:"stats"`
}

// AnchorResult is the per-annotation outcome. Orphaned annotations keep
// their selector so the caller can show them greyed out or retry after
// the document changes again.
type AnchorResult struct {
	AnnotationID string         `json:"annotation_id"`
	Note         string         `json:"note,omitempty"`
	Selector     Selector       `json:"selector"`
	Range        *ResolvedRange `json:"range,omitempty"` // nil when orphaned
	Text         string         `json:"text,omitempty"`  // the re-found text in the current snapshot
	Orphaned     bool           `json:"orphaned"`
	Error        string         `json:"error,omitempty"` // non-NotFound failures only
}

// AnchorStats summarizes a report
type AnchorStats struct {
	Total         int `json:"total"`
	Resolved      int `json:"resolved"`
	Orphaned      int `json:"orphaned"`
	ExactPosition int `json:"exact_position"`
	QuoteNearHint int `json:"quote_near_hint"`
	FuzzySearch   int `json:"fuzzy_search"`
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int    `json:"status_code,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
}

// Tally recomputes Stats from Results.
func (r *AnchorReport) Tally() {
	stats := AnchorStats{Total: len(r.Results)}
	for _, res := range r.Results {
		if res.Orphaned || res.Range == nil {
			stats.Orphaned++
			continue
		}
		stats.Resolved++
		switch res.Range.Method {
		case MethodExactPosition:
			stats.ExactPosition++
		case MethodQuoteNearHint:
			stats.QuoteNearHint++
		case MethodFuzzySearch:
			stats.FuzzySearch++
		}
	}
	r.Stats = stats
}
