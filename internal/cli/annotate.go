package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/pipeline"
)

// annotateOpts holds the command-line flags for the annotate command.
type annotateOpts struct {
	output     string   // output file path (stdout if empty)
	debug      bool     // wide diagnostic rendering with pattern column
	strict     bool     // abort on the first structural error
	workers    int      // annotation goroutines
	verbUPOS   []string // part-of-speech tags treated as verbs
	stats      bool     // print frequency tables after the run
	statsRedis bool     // flush frequency counters to Redis
	top        int      // rows per frequency table
}

// pipelineOptions merges config-file settings with flags. A flag that was
// set on the command line wins over the config value.
func (o *annotateOpts) pipelineOptions(cmd *cobra.Command, cfg *Config) pipeline.Options {
	opts := pipeline.Options{
		Workers:  cfg.Workers,
		Strict:   cfg.Strict,
		Debug:    cfg.Debug,
		VerbUPOS: cfg.VerbUPOS,
	}
	f := cmd.Flags()
	if f.Changed("workers") {
		opts.Workers = o.workers
	}
	if f.Changed("strict") {
		opts.Strict = o.strict
	}
	if f.Changed("debug") {
		opts.Debug = o.debug
	}
	if f.Changed("verb-upos") {
		opts.VerbUPOS = o.verbUPOS
	}
	return opts
}

// newAnnotateCmd creates the annotate command. It reads CoNLL-U from a file
// or stdin and writes the same treebank extended with the DEEP:PRED and
// DEEP:ARGS columns.
//
// By default a sentence with a structural error (duplicate id, unknown head,
// self-attachment, cycle) is skipped with a warning and the run continues;
// --strict aborts the whole run instead.
func newAnnotateCmd() *cobra.Command {
	opts := annotateOpts{top: 20}

	cmd := &cobra.Command{
		Use:   "annotate [file]",
		Short: "Annotate a CoNLL-U treebank with predicate-argument structure",
		Long: `Annotate a CoNLL-U treebank with a shallow predicate-argument layer.

Input is read from the given file or from stdin. The output is the same
treebank with two extra columns: DEEP:PRED (the predicate identifier) and
DEEP:ARGS (role:target pairs for the predicate's core arguments).

Examples:
  udpas annotate corpus.conllu -o annotated.conllu
  cat corpus.conllu | udpas annotate --debug
  udpas annotate corpus.conllu --workers 8 --stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runAnnotate(c.Context(), c, &opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "align columns and append the argument pattern")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "abort the run on the first structural error")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "annotation goroutines (0 = inline)")
	cmd.Flags().StringSliceVar(&opts.verbUPOS, "verb-upos", nil, "POS tags treated as verbal predicates")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print frequency tables after the run")
	cmd.Flags().BoolVar(&opts.statsRedis, "stats-redis", false, "flush frequency counters to Redis")
	cmd.Flags().IntVar(&opts.top, "top", opts.top, "rows per frequency table")

	return cmd
}

func runAnnotate(ctx context.Context, cmd *cobra.Command, opts *annotateOpts, args []string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	runner := pipeline.NewRunner(logger)
	prog := newProgress(logger)
	res, err := runner.Run(ctx, in, out, opts.pipelineOptions(cmd, cfg))
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Annotated %d sentences", res.Sentences))

	if opts.output != "" {
		printSuccess("Wrote annotated treebank")
		printFile(opts.output)
		printStats(res.Sentences, res.Skipped)
	}
	if opts.stats {
		fmt.Print(diag.Report(runner.Sink, diag.ReportOptions{Top: opts.top}))
	}
	if opts.statsRedis {
		return flushRedis(ctx, cfg, runner)
	}
	return nil
}

// flushRedis pushes the run's counters to Redis under the run id, so shards
// of a corpus split across machines can aggregate into one key space.
func flushRedis(ctx context.Context, cfg *Config, runner *pipeline.Runner) error {
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	sink := diag.NewRedis(client, runner.RunID)
	defer sink.Close()
	sink.Merge(runner.Sink)
	if err := sink.Flush(ctx); err != nil {
		return err
	}
	printSuccess("Flushed counters to %s (run %s)", cfg.Redis.Addr, runner.RunID)
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// nopReadCloser wraps an io.Reader with a no-op Close method.
type nopReadCloser struct{ io.Reader }

func (nopReadCloser) Close() error { return nil }

// openInput returns the input file from args, or stdin when none is given.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return nopReadCloser{os.Stdin}, nil
	}
	return os.Open(args[0])
}

// openOutput returns a WriteCloser for the given path, or stdout when empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
