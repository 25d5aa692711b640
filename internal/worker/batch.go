package worker

import (
	"context"

	"github.com/bhi5hmaraj/anchorage/internal/anchor"
	"github.com/bhi5hmaraj/anchorage/internal/model"
)

// ResolveJob re-anchors one annotation against a shared snapshot
type ResolveJob struct {
	Annotation model.Annotation
	Linearized *anchor.LinearizedText
	Resolver   *anchor.Resolver
}

// Execute runs the resolution
func (j *ResolveJob) Execute(ctx context.Context) Result {
	rr, err := j.Resolver.Resolve(j.Linearized, j.Annotation.Selector)
	if err != nil {
		return &ResolveResult{Annotation: j.Annotation, Err: err}
	}
	return &ResolveResult{Annotation: j.Annotation, Range: &rr}
}

// ResolveResult is the outcome of one re-anchoring job
type ResolveResult struct {
	Annotation model.Annotation
	Range      *model.ResolvedRange
	Err        error
}

// GetError returns the resolution error, if any
func (r *ResolveResult) GetError() error {
	return r.Err
}

// BatchResolver re-anchors a whole annotation set concurrently against
// one linearization pass. Safe because the resolver never mutates the
// shared snapshot.
type BatchResolver struct {
	resolver    *anchor.Resolver
	concurrency int
}

// NewBatchResolver creates a batch resolver
func NewBatchResolver(resolver *anchor.Resolver, concurrency int) *BatchResolver {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &BatchResolver{resolver: resolver, concurrency: concurrency}
}

// ResolveAll resolves every annotation against the snapshot. Results
// line up with the input by index.
func (b *BatchResolver) ResolveAll(ctx context.Context, lin *anchor.LinearizedText, annotations []model.Annotation) []*ResolveResult {
	jobs := make([]Job, len(annotations))
	for i, ann := range annotations {
		jobs[i] = &ResolveJob{Annotation: ann, Linearized: lin, Resolver: b.resolver}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*ResolveResult, len(results))
	for i, res := range results {
		if rr, ok := res.(*ResolveResult); ok {
			out[i] = rr
		} else {
			out[i] = &ResolveResult{Annotation: annotations[i], Err: res.GetError()}
		}
	}
	return out
}
