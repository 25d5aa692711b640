package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bhi5hmaraj/anchorage/internal/model"
	"github.com/bhi5hmaraj/anchorage/internal/pipeline"
	"github.com/bhi5hmaraj/anchorage/internal/store"
	"github.com/spf13/cobra"
)

var (
	resolveStore   string
	resolveJSON    string
	resolveMD      string
	resolveAll     bool
	resolveTimeout time.Duration
	resolveNoCache bool
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <source>",
	Short: "Re-anchor stored annotations against a document",
	Long: `Resolve takes a fresh snapshot of the document and re-locates every
stored annotation in it. The document may have changed since the spans
were marked; resolution tolerates inserted, removed, and reflowed text.
Annotations whose text is gone are reported as orphaned.

Example:
  anchorage resolve https://chatgpt.com/share/abc123 --store annotations.json
  anchorage resolve transcript.html --json report.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveStore, "store", "annotations.json", "annotation store path")
	resolveCmd.Flags().StringVar(&resolveJSON, "json", "", "output JSON path (optional)")
	resolveCmd.Flags().StringVar(&resolveMD, "md", "", "output Markdown path (optional)")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "resolve every stored annotation, not just ones marked on this source")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", time.Minute, "overall timeout")
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false, "disable cache (force fresh fetch)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg := buildConfig()
	cfg.HTTP.Timeout = resolveTimeout
	if resolveNoCache {
		cfg.Cache.Enabled = false
	}

	st := store.New(resolveStore)
	stored, err := st.Load()
	if err != nil {
		return err
	}

	var annotations []model.Annotation
	if resolveAll {
		annotations = stored
	} else {
		for _, ann := range stored {
			if ann.Source == source {
				annotations = append(annotations, ann)
			}
		}
	}
	if len(annotations) == 0 {
		return fmt.Errorf("no annotations for %s in %s (use --all to resolve everything)", source, resolveStore)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Resolving %d annotations against %s\n", len(annotations), source)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)
	report, err := p.Reanchor(ctx, source, annotations)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if err := p.RenderReport(report, resolveJSON, resolveMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
