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
	markQuote   string
	markStart   int
	markEnd     int
	markNote    string
	markStore   string
	markTimeout time.Duration
	markNoCache bool
)

// markCmd represents the mark command
var markCmd = &cobra.Command{
	Use:   "mark <source>",
	Short: "Mark a span of text in a document and store its selector",
	Long: `Mark anchors a span of text in a document (URL or local HTML file)
and appends the resulting annotation to the store.

The span is given either as a quote (anchored at its first occurrence)
or as explicit byte offsets into the linearized text.

Example:
  anchorage mark https://chatgpt.com/share/abc123 --quote "brown fox" --note "check this"
  anchorage mark transcript.html --start 120 --end 155`,
	Args: cobra.ExactArgs(1),
	RunE: runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)

	markCmd.Flags().StringVarP(&markQuote, "quote", "q", "", "text to anchor (first occurrence)")
	markCmd.Flags().IntVar(&markStart, "start", -1, "linear start offset (with --end)")
	markCmd.Flags().IntVar(&markEnd, "end", -1, "linear end offset (with --start)")
	markCmd.Flags().StringVarP(&markNote, "note", "n", "", "note to attach to the annotation")
	markCmd.Flags().StringVar(&markStore, "store", "annotations.json", "annotation store path")
	markCmd.Flags().DurationVar(&markTimeout, "timeout", time.Minute, "overall timeout")
	markCmd.Flags().BoolVar(&markNoCache, "no-cache", false, "disable cache (force fresh fetch)")
}

func runMark(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg := buildConfig()
	cfg.HTTP.Timeout = markTimeout
	if markNoCache {
		cfg.Cache.Enabled = false
	}

	ctx, cancel := context.WithTimeout(context.Background(), markTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg)

	var ann *model.Annotation
	var err error
	switch {
	case markQuote != "":
		ann, err = p.Mark(ctx, source, markQuote, markNote)
	case markStart >= 0 && markEnd > markStart:
		ann, err = p.MarkRange(ctx, source, markStart, markEnd, markNote)
	default:
		return fmt.Errorf("provide --quote or a --start/--end range")
	}
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}

	st := store.New(markStore)
	if err := st.Add(*ann); err != nil {
		return fmt.Errorf("store annotation: %w", err)
	}

	fmt.Printf("Marked %q\n", ann.Selector.Exact)
	fmt.Printf("  id:    %s\n", ann.ID)
	fmt.Printf("  store: %s\n", markStore)
	if verbose {
		hint := ann.Selector.PositionHint
		fmt.Fprintf(os.Stderr, "  hint: [%d,%d) prefix=%q suffix=%q\n",
			hint.Start, hint.End, ann.Selector.Prefix, ann.Selector.Suffix)
	}

	return nil
}
