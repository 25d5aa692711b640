package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bhi5hmaraj/anchorage/internal/anchor"
	"github.com/bhi5hmaraj/anchorage/internal/cache"
	"github.com/bhi5hmaraj/anchorage/internal/extract"
	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/bhi5hmaraj/anchorage/internal/store"
	"github.com/bhi5hmaraj/anchorage/internal/worker"
)

// Pipeline wires the anchoring engine to its collaborators: the
// document provider (fetcher + site adapters), the annotation store,
// and the report renderer.
type Pipeline struct {
	fetcher      *Fetcher
	extractor    *extract.DocumentExtractor
	linearizer   *anchor.Linearizer
	builder      *anchor.Builder
	resolver     *anchor.Resolver
	materializer *anchor.Materializer
	batch        *worker.BatchResolver
	renderer     *Renderer
	config       *model.Config
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.MemoryTTL)
		}
	}

	resolver := anchor.NewResolver(cfg.Anchor.FuzzyThreshold, cfg.Anchor.MaxRadius)

	return &Pipeline{
		fetcher:      NewFetcher(cfg.HTTP, c),
		extractor:    extract.NewDocumentExtractor(),
		linearizer:   anchor.NewLinearizer(),
		builder:      anchor.NewBuilder(cfg.Anchor.ContextLength),
		resolver:     resolver,
		materializer: anchor.NewMaterializer(),
		batch:        worker.NewBatchResolver(resolver, cfg.Concurrency.ResolveWorkers),
		renderer:     NewRenderer(cfg.Output.IncludeFooter),
		config:       cfg,
	}
}

// Snapshot is a point-in-time view of a source, linearized and ready
// for marking or resolution.
type Snapshot struct {
	Document   *model.Document
	Linearized *anchor.LinearizedText
	Meta       model.FetchMeta
	FetchedAt  time.Time
}

// Snapshot loads a source (URL or local file path), runs the matching
// site adapter, and linearizes the result.
func (p *Pipeline) Snapshot(ctx context.Context, source string) (*Snapshot, error) {
	var htmlContent, finalURL, contentType string
	var meta model.FetchMeta

	if isURL(source) {
		fetched, err := p.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		htmlContent = fetched.HTML
		finalURL = fetched.FinalURL
		contentType = fetched.Meta.ContentType
		meta = fetched.Meta
	} else {
		raw, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		htmlContent = string(raw)
		finalURL = source
	}

	doc, err := p.extractor.Extract(htmlContent, finalURL, contentType)
	if err != nil {
		return nil, fmt.Errorf("extract document: %w", err)
	}
	doc.Source = source

	return &Snapshot{
		Document:   doc,
		Linearized: p.linearizer.Linearize(doc),
		Meta:       meta,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Mark anchors the first occurrence of quote in the source and returns
// a new annotation. The quote is whitespace-normalized the same way
// the linearizer normalizes document text, so a quote copied from a
// rendered page matches.
func (p *Pipeline) Mark(ctx context.Context, source, quote, note string) (*model.Annotation, error) {
	q := normalizeQuote(quote)
	if q == "" {
		return nil, fmt.Errorf("%w: empty quote", anchor.ErrInvalidRange)
	}

	snap, err := p.Snapshot(ctx, source)
	if err != nil {
		return nil, err
	}

	idx := strings.Index(snap.Linearized.Text, q)
	if idx < 0 {
		return nil, fmt.Errorf("quote not found in %s", source)
	}

	sel, err := p.builder.Build(snap.Linearized, idx, idx+len(q))
	if err != nil {
		return nil, err
	}

	ann := store.NewAnnotation(source, note, sel)
	return &ann, nil
}

// MarkRange anchors an explicit byte range of the linearized text
func (p *Pipeline) MarkRange(ctx context.Context, source string, start, end int, note string) (*model.Annotation, error) {
	snap, err := p.Snapshot(ctx, source)
	if err != nil {
		return nil, err
	}

	sel, err := p.builder.Build(snap.Linearized, start, end)
	if err != nil {
		return nil, err
	}

	ann := store.NewAnnotation(source, note, sel)
	return &ann, nil
}

// Reanchor resolves all annotations against a fresh snapshot of the
// source. Annotations that fail every tier come back orphaned; a
// materialization failure is a defect and is surfaced in the result
// rather than swallowed.
func (p *Pipeline) Reanchor(ctx context.Context, source string, annotations []model.Annotation) (*model.AnchorReport, error) {
	snap, err := p.Snapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.ReanchorAgainst(ctx, snap, annotations), nil
}

// ReanchorAgainst resolves all annotations against an existing
// snapshot, letting batch callers reuse one linearization pass.
func (p *Pipeline) ReanchorAgainst(ctx context.Context, snap *Snapshot, annotations []model.Annotation) *model.AnchorReport {
	report := &model.AnchorReport{
		Source:    snap.Document.Source,
		Title:     snap.Document.Title,
		FetchedAt: snap.FetchedAt,
		FetchMeta: snap.Meta,
	}

	results := p.batch.ResolveAll(ctx, snap.Linearized, annotations)
	for _, res := range results {
		out := model.AnchorResult{
			AnnotationID: res.Annotation.ID,
			Note:         res.Annotation.Note,
			Selector:     res.Annotation.Selector,
		}

		switch {
		case res.Err == nil:
			out.Range = res.Range
			out.Text = snap.Linearized.Text[res.Range.Start:res.Range.End]
			if _, err := p.materializer.Materialize(snap.Linearized, *res.Range); err != nil {
				out.Error = err.Error()
				out.Orphaned = true
				out.Range = nil
			}
		case errors.Is(res.Err, anchor.ErrNotFound):
			out.Orphaned = true
		default:
			out.Orphaned = true
			out.Error = res.Err.Error()
		}

		report.Results = append(report.Results, out)
	}

	report.Tally()
	return report
}

// RenderReport renders the report to the requested outputs and prints
// a summary to stdout.
func (p *Pipeline) RenderReport(report *model.AnchorReport, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// normalizeQuote applies the linearizer's whitespace rule to a
// caller-supplied quote.
func normalizeQuote(quote string) string {
	return strings.Join(strings.Fields(quote), " ")
}
