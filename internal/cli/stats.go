package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/pipeline"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	annotateOpts
	redisFlush bool
}

// newStatsCmd creates the stats command. It annotates the corpus without
// writing any CoNLL-U output and reports the frequency tables: predicates,
// argument patterns, diathesis, role tags, and warnings.
func newStatsCmd() *cobra.Command {
	opts := statsOpts{annotateOpts: annotateOpts{top: 20}}

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Report corpus-level annotation statistics",
		Long: `Annotate a CoNLL-U treebank and report frequency tables instead of
writing the annotated output.

Examples:
  udpas stats corpus.conllu
  udpas stats corpus.conllu --top 10 --workers 8
  udpas stats corpus.conllu --redis`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runStats(c.Context(), c, &opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "abort the run on the first structural error")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "annotation goroutines (0 = inline)")
	cmd.Flags().StringSliceVar(&opts.verbUPOS, "verb-upos", nil, "POS tags treated as verbal predicates")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "rows per frequency table")
	cmd.Flags().BoolVar(&opts.redisFlush, "redis", false, "also flush counters to Redis")

	return cmd
}

func runStats(ctx context.Context, cmd *cobra.Command, opts *statsOpts, args []string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	runner := pipeline.NewRunner(logger)
	prog := newProgress(logger)
	res, err := runner.Run(ctx, in, io.Discard, opts.pipelineOptions(cmd, cfg))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d sentences", res.Sentences))

	fmt.Println(StyleTitle.Render("Annotation statistics") + StyleDim.Render(fmt.Sprintf("  run %s", res.RunID)))
	printStats(res.Sentences, res.Skipped)
	fmt.Println()
	fmt.Print(diag.Report(runner.Sink, diag.ReportOptions{Top: opts.top}))

	if opts.redisFlush {
		return flushRedis(ctx, cfg, runner)
	}
	return nil
}
