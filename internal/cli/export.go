package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/pkg/conllu"
	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/export"
	"github.com/mrijkeboer/udpas/pkg/pas"
	"github.com/mrijkeboer/udpas/pkg/pipeline"
)

// newExportCmd creates the export command group.
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Persist predicate records to external storage",
	}
	cmd.AddCommand(newExportMongoCmd())
	return cmd
}

// exportMongoOpts holds the command-line flags for "export mongo".
type exportMongoOpts struct {
	uri        string
	database   string
	collection string
	runID      string
}

// newExportMongoCmd creates the "export mongo" command. Every identified
// predicate becomes one document carrying its sentence id, identifier,
// argument pattern, and role fills.
func newExportMongoCmd() *cobra.Command {
	opts := exportMongoOpts{}

	cmd := &cobra.Command{
		Use:   "mongo [file]",
		Short: "Export predicate records to MongoDB",
		Long: `Annotate a CoNLL-U treebank and insert one document per identified
predicate into a MongoDB collection.

Example:
  udpas export mongo corpus.conllu --uri mongodb://localhost:27017`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runExportMongo(c.Context(), c, &opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.uri, "uri", "", "MongoDB connection URI (default from config)")
	cmd.Flags().StringVar(&opts.database, "database", "", "target database (default from config)")
	cmd.Flags().StringVar(&opts.collection, "collection", "", "target collection (default from config)")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "run id stored on each record (default: fresh uuid)")

	return cmd
}

func runExportMongo(ctx context.Context, cmd *cobra.Command, opts *exportMongoOpts, args []string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	mongoCfg := cfg.mongoConfig()
	if cmd.Flags().Changed("uri") {
		mongoCfg.URI = opts.uri
	}
	if cmd.Flags().Changed("database") {
		mongoCfg.Database = opts.database
	}
	if cmd.Flags().Changed("collection") {
		mongoCfg.Collection = opts.collection
	}

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	spin := newSpinner(ctx, "Connecting to MongoDB...")
	spin.Start()
	sink, err := export.NewMongo(ctx, mongoCfg)
	if err != nil {
		spin.StopWithError("Connection failed")
		return err
	}
	spin.Stop()
	defer func() {
		if err := sink.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("closing mongodb client", "err", err)
		}
	}()

	runner := pipeline.NewRunner(logger)
	runID := opts.runID
	if runID == "" {
		runID = runner.RunID
	}

	prog := newProgress(logger)
	sentences, records, err := exportCorpus(ctx, in, sink, runID)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Exported %d predicate records from %d sentences", records, sentences))
	printSuccess("Exported run %s to %s/%s", runID, mongoCfg.Database, mongoCfg.Collection)
	return nil
}

// exportCorpus annotates every sentence and inserts its predicate records.
// Broken sentences are skipped, matching the default annotate policy.
func exportCorpus(ctx context.Context, in io.Reader, sink *export.Mongo, runID string) (sentences, records int, err error) {
	reader := conllu.NewReader(in)
	for position := 1; ; position++ {
		if err := ctx.Err(); err != nil {
			return sentences, records, err
		}
		sent, err := reader.Next()
		if err == io.EOF {
			return sentences, records, nil
		}
		if err != nil {
			if sent == nil {
				return sentences, records, err
			}
			continue
		}
		store, err := conllu.BuildStore(sent, nil)
		if err != nil {
			continue
		}
		pas.Annotate(store, pas.Options{}, diag.Nop{})

		sentID := sent.SentID()
		if sentID == "" {
			sentID = fmt.Sprintf("#%d", position)
		}
		n, err := sink.ExportSentence(ctx, runID, sentID, store)
		if err != nil {
			return sentences, records, fmt.Errorf("sentence %s: %w", sentID, err)
		}
		sentences++
		records += n
	}
}
