package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// Renderer writes anchor reports as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.AnchorReport, path string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.AnchorReport, path string) error {
	var b strings.Builder

	title := report.Title
	if title == "" {
		title = report.Source
	}
	fmt.Fprintf(&b, "# Anchor Report: %s\n\n", title)
	fmt.Fprintf(&b, "- Source: %s\n", report.Source)
	fmt.Fprintf(&b, "- Fetched: %s\n", report.FetchedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Resolved: %d/%d (exact %d, near hint %d, fuzzy %d)\n\n",
		report.Stats.Resolved, report.Stats.Total,
		report.Stats.ExactPosition, report.Stats.QuoteNearHint, report.Stats.FuzzySearch)

	if report.Stats.Resolved > 0 {
		b.WriteString("## Resolved\n\n")
		for _, res := range report.Results {
			if res.Orphaned || res.Range == nil {
				continue
			}
			fmt.Fprintf(&b, "- **%s** (%s, confidence %.2f) `[%d,%d)`\n",
				truncate(res.Text, 80), res.Range.Method, res.Range.Confidence,
				res.Range.Start, res.Range.End)
			if res.Note != "" {
				fmt.Fprintf(&b, "  - note: %s\n", res.Note)
			}
		}
		b.WriteString("\n")
	}

	if report.Stats.Orphaned > 0 {
		b.WriteString("## Orphaned\n\n")
		for _, res := range report.Results {
			if !res.Orphaned {
				continue
			}
			fmt.Fprintf(&b, "- **%s**", truncate(res.Selector.Exact, 80))
			if res.Error != "" {
				fmt.Fprintf(&b, " (%s)", res.Error)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by Anchorage. Orphaned annotations are kept in the store; re-run resolve after the document changes again.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(report *model.AnchorReport) {
	fmt.Printf("\n%s\n", report.Source)
	fmt.Printf("  annotations: %d\n", report.Stats.Total)
	fmt.Printf("  resolved:    %d (exact %d, near hint %d, fuzzy %d)\n",
		report.Stats.Resolved, report.Stats.ExactPosition,
		report.Stats.QuoteNearHint, report.Stats.FuzzySearch)
	if report.Stats.Orphaned > 0 {
		fmt.Printf("  orphaned:    %d\n", report.Stats.Orphaned)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
