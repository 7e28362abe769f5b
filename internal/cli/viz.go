package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/pkg/conllu"
	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/pas"
	"github.com/mrijkeboer/udpas/pkg/render/deptree"
)

// vizOpts holds the command-line flags for the viz command.
type vizOpts struct {
	sentence string // sent_id or 1-based position
	format   string // dot or svg
	enhanced bool
	args     bool
	output   string
}

// newVizCmd creates the viz command. It annotates a single sentence and
// renders its dependency graph as a Graphviz diagram.
func newVizCmd() *cobra.Command {
	opts := vizOpts{sentence: "1", format: "dot", args: true}

	cmd := &cobra.Command{
		Use:   "viz [file]",
		Short: "Render one sentence as a Graphviz diagram",
		Long: `Render one annotated sentence as a Graphviz diagram.

The sentence is selected by its sent_id comment or by 1-based position.

Examples:
  udpas viz corpus.conllu -s weblog-42 -f svg -o tree.svg
  udpas viz corpus.conllu -s 3 --enhanced`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runViz(c.Context(), &opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.sentence, "sentence", "s", opts.sentence, "sent_id or 1-based position")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().BoolVar(&opts.enhanced, "enhanced", false, "draw non-tree enhanced edges")
	cmd.Flags().BoolVar(&opts.args, "args", opts.args, "overlay argument role edges")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func runViz(ctx context.Context, opts *vizOpts, args []string) error {
	logger := loggerFromContext(ctx)

	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	sent, err := findSentence(in, opts.sentence)
	if err != nil {
		return err
	}
	store, err := conllu.BuildStore(sent, nil)
	if err != nil {
		return fmt.Errorf("sentence %s: %w", opts.sentence, err)
	}
	pas.Annotate(store, pas.Options{}, diag.Nop{})

	dot := deptree.ToDOT(store, deptree.Options{
		ShowEnhanced:  opts.enhanced,
		ShowArguments: opts.args,
	})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		spin := newSpinner(ctx, "Rendering diagram...")
		spin.Start()
		data, err = deptree.RenderSVG(ctx, dot)
		if err != nil {
			spin.StopWithError("Rendering failed")
			return err
		}
		spin.Stop()
	default:
		return fmt.Errorf("unknown format: %s (use dot or svg)", opts.format)
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Debug("rendered sentence", "sentence", opts.sentence, "format", opts.format)
		printSuccess("Rendered sentence %s", opts.sentence)
		printFile(opts.output)
	}
	return nil
}

// findSentence scans the input for the sentence matching the selector, which
// is either a sent_id or a 1-based position. Broken sentences still count
// toward positions but cannot be selected.
func findSentence(in io.Reader, selector string) (*conllu.Sentence, error) {
	reader := conllu.NewReader(in)
	for position := 1; ; position++ {
		sent, err := reader.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("sentence %q not found", selector)
		}
		if err != nil {
			if sent == nil {
				return nil, err
			}
			continue
		}
		if sent.SentID() == selector || strconv.Itoa(position) == selector {
			return sent, nil
		}
	}
}
