package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrijkeboer/udpas/internal/server"
	"github.com/mrijkeboer/udpas/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	workers int
}

// newServeCmd creates the serve command, which exposes the annotator over
// HTTP until interrupted.
func newServeCmd() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotator over HTTP",
		Long: `Start an HTTP service that annotates CoNLL-U documents.

Endpoints:
  POST /annotate   annotate the request body (query: debug=1, strict=1)
  POST /stats      return frequency tables as JSON instead of output
  GET  /healthz    liveness check

Example:
  udpas serve --addr :8080
  curl --data-binary @corpus.conllu localhost:8080/annotate?debug=1`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), c, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "annotation goroutines per request (0 = inline)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	addr := cfg.Serve.Addr
	if cmd.Flags().Changed("addr") {
		addr = opts.addr
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = opts.workers
	}

	s := server.New(logger, pipeline.Options{Workers: workers, VerbUPOS: cfg.VerbUPOS})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
