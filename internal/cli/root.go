// Package cli implements the udpas command-line interface.
//
// This package provides commands for annotating CoNLL-U treebanks with
// shallow predicate-argument structure, inspecting annotation statistics,
// rendering sentence diagrams, and serving the annotator over HTTP. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - annotate: Read CoNLL-U input and emit it with DEEP:PRED and DEEP:ARGS columns
//   - stats: Annotate without output and report corpus-level diagnostics
//   - viz: Render one sentence as a Graphviz diagram
//   - browse: Interactively inspect annotated sentences
//   - serve: Expose the annotator as an HTTP service
//   - export: Persist predicate records to external storage
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the udpas CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands, loads the
// optional TOML configuration, and attaches a logger to the context so every
// command can retrieve it via loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "udpas",
		Short:        "udpas annotates dependency treebanks with predicate-argument structure",
		Long:         `udpas reads CoNLL-U dependency treebanks and adds a shallow predicate-argument layer: verbal predicates are identified, their diathesis is classified, and core arguments are assigned semantic role tags in two extra columns.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("udpas %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(newAnnotateCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newVizCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())

	return root.ExecuteContext(ctx)
}
