package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/bhi5hmaraj/anchorage/internal/pipeline"
	"github.com/bhi5hmaraj/anchorage/internal/store"
	"github.com/bhi5hmaraj/anchorage/internal/worker"
	"github.com/spf13/cobra"
)

var (
	batchStore   string
	batchOutDir  string
	batchTimeout time.Duration
	batchNoCache bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Re-anchor the whole store, source by source",
	Long: `Batch groups stored annotations by source, snapshots each source once,
and re-anchors its annotations concurrently against that single
snapshot. Fetches are rate-limited per domain; a per-source report is
written to the output directory.

Example:
  anchorage batch --store annotations.json --out-dir reports/`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchStore, "store", "annotations.json", "annotation store path")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "reports", "directory for per-source reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable cache (force fresh fetches)")
}

// sourceJob snapshots one source and re-anchors its annotation group
type sourceJob struct {
	source      string
	annotations []model.Annotation
	pipeline    *pipeline.Pipeline
	limiter     *worker.Limiter
}

// Execute runs the job
func (j *sourceJob) Execute(ctx context.Context) worker.Result {
	if strings.HasPrefix(j.source, "http://") || strings.HasPrefix(j.source, "https://") {
		if err := j.limiter.Wait(ctx, j.source); err != nil {
			return &sourceResult{source: j.source, err: err}
		}
	}

	report, err := j.pipeline.Reanchor(ctx, j.source, j.annotations)
	return &sourceResult{source: j.source, report: report, err: err}
}

type sourceResult struct {
	source string
	report *model.AnchorReport
	err    error
}

// GetError returns the job error, if any
func (r *sourceResult) GetError() error {
	return r.err
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if batchNoCache {
		cfg.Cache.Enabled = false
	}

	st := store.New(batchStore)
	annotations, err := st.Load()
	if err != nil {
		return err
	}
	if len(annotations) == 0 {
		return fmt.Errorf("store %s is empty", batchStore)
	}

	sources, groups := store.BySource(annotations)
	if verbose {
		fmt.Fprintf(os.Stderr, "Re-anchoring %d annotations across %d sources\n", len(annotations), len(sources))
	}

	if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)
	limiter := worker.NewLimiter(cfg.Concurrency.FetchRate, cfg.Concurrency.FetchBurst)

	jobs := make([]worker.Job, len(sources))
	for i, src := range sources {
		jobs[i] = &sourceJob{
			source:      src,
			annotations: groups[src],
			pipeline:    p,
			limiter:     limiter,
		}
	}

	results := worker.NewPool(cfg.Concurrency.FetchWorkers).Run(ctx, jobs)

	var resolved, orphaned, failed int
	for _, res := range results {
		sr, ok := res.(*sourceResult)
		if !ok || sr.err != nil {
			failed++
			if ok {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", sr.source, sr.err)
			}
			continue
		}

		path := filepath.Join(batchOutDir, reportFileName(sr.source))
		if err := p.RenderReport(sr.report, path, "", verbose); err != nil {
			fmt.Fprintf(os.Stderr, "✗ write report for %s: %v\n", sr.source, err)
			failed++
			continue
		}

		resolved += sr.report.Stats.Resolved
		orphaned += sr.report.Stats.Orphaned
	}

	fmt.Printf("\nBatch complete: %d sources, %d resolved, %d orphaned", len(sources), resolved, orphaned)
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Println()

	if failed == len(sources) {
		return fmt.Errorf("every source failed")
	}
	return nil
}

// reportFileName derives a stable, filesystem-safe name for a source
func reportFileName(source string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, source)
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = slug[:48]
	}

	sum := sha256.Sum256([]byte(source))
	return fmt.Sprintf("%s-%s.json", slug, hex.EncodeToString(sum[:4]))
}
