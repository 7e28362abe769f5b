// Package pipeline orchestrates an annotation run: scan sentence blocks,
// build and annotate each sentence graph, and write the extended CoNLL-U
// back out in input order.
//
// Sentences are independent, so with Workers > 1 they are sharded across
// goroutines and reassembled in order; every worker counts into its own
// in-memory diagnostics sink and the sinks are merged afterwards (per-key
// addition, commutative, so shard order does not matter).
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mrijkeboer/udpas/pkg/conllu"
	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/graph"
	"github.com/mrijkeboer/udpas/pkg/pas"
)

// ErrTooManyWorkers guards against accidental fork bombs from config typos.
var ErrTooManyWorkers = errors.New("workers must be between 0 and 256")

// Options configures one run.
type Options struct {
	// Workers is the number of annotation goroutines. 0 or 1 runs inline.
	Workers int

	// Strict aborts the whole run on the first structural error (duplicate
	// id, unknown head, self-attachment, cycle). The default is per-sentence
	// isolation: the sentence is skipped, counted and reported, and the run
	// continues.
	Strict bool

	// Debug enables the wide diagnostic rendering with the argument pattern
	// column.
	Debug bool

	// VerbUPOS overrides the part-of-speech tags treated as verbs.
	VerbUPOS []string
}

// ValidateAndSetDefaults normalizes the options in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Workers < 0 || o.Workers > 256 {
		return fmt.Errorf("%w: %d", ErrTooManyWorkers, o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	return nil
}

func (o *Options) annotator() pas.Options {
	if len(o.VerbUPOS) == 0 {
		return pas.Options{}
	}
	verbs := make(map[string]bool, len(o.VerbUPOS))
	for _, tag := range o.VerbUPOS {
		verbs[tag] = true
	}
	return pas.Options{VerbUPOS: verbs}
}

// Result summarizes one run.
type Result struct {
	RunID     string
	Sentences int           // sentences written
	Skipped   int           // sentences dropped for structural errors
	Duration  time.Duration // wall time of the whole run
}

// Runner executes annotation runs. The zero value is not usable - use
// NewRunner. A Runner is good for one Run call at a time; Sink accumulates
// across calls, which suits multi-file invocations feeding one report.
type Runner struct {
	Logger *log.Logger
	Sink   *diag.Memory
	RunID  string
}

// NewRunner creates a runner with a fresh uuid run id. A nil logger falls
// back to the package default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Logger: logger,
		Sink:   diag.NewMemory(),
		RunID:  uuid.NewString(),
	}
}

// Run annotates every sentence block of in and writes the result to out.
// Structural errors abort the run only when opts.Strict is set; otherwise
// the offending sentence is identified in the log, counted, and dropped.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	r.Logger.Debug("starting run", "run", r.RunID, "workers", opts.Workers)

	writer := conllu.NewWriter(out)
	writer.Debug = opts.Debug

	var result *Result
	var err error
	if opts.Workers <= 1 {
		result, err = r.runInline(ctx, in, writer, opts)
	} else {
		result, err = r.runSharded(ctx, in, writer, opts)
	}
	if err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, err
	}

	result.RunID = r.RunID
	result.Duration = time.Since(start)
	r.Logger.Info("annotated corpus",
		"sentences", result.Sentences,
		"skipped", result.Skipped,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// annotateSentence builds the graph and runs the annotator, counting into
// the given sink. The returned error is structural.
func annotateSentence(sent *conllu.Sentence, opts Options, sink *diag.Memory) (*graph.Store, error) {
	store, err := conllu.BuildStore(sent, func(kind, context string) {
		sink.Warn(diag.Kind(kind), context)
	})
	if err != nil {
		return nil, err
	}
	pas.Annotate(store, opts.annotator(), sink)
	return store, nil
}

// skipOrFail applies the structural-error policy for one sentence.
func (r *Runner) skipOrFail(sent *conllu.Sentence, opts Options, sink *diag.Memory, err error) error {
	ident := sent.SentID()
	if ident == "" {
		ident = "(no sent_id)"
	}
	if opts.Strict {
		return fmt.Errorf("sentence %s: %w", ident, err)
	}
	r.Logger.Warn("skipping sentence with structural error", "sentence", ident, "err", err)
	sink.Warn(diag.WarnSentenceSkipped, fmt.Sprintf("%s: %v", ident, err))
	return nil
}

func (r *Runner) runInline(ctx context.Context, in io.Reader, writer *conllu.Writer, opts Options) (*Result, error) {
	reader := conllu.NewReader(in)
	reader.Warn = func(kind, context string) {
		r.Sink.Warn(diag.Kind(kind), context)
	}

	res := &Result{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sent, err := reader.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			if sent == nil {
				return nil, err // scanner failure, not a sentence error
			}
			if ferr := r.skipOrFail(sent, opts, r.Sink, err); ferr != nil {
				return nil, ferr
			}
			res.Skipped++
			continue
		}

		store, err := annotateSentence(sent, opts, r.Sink)
		if err != nil {
			if ferr := r.skipOrFail(sent, opts, r.Sink, err); ferr != nil {
				return nil, ferr
			}
			res.Skipped++
			continue
		}
		if err := writer.WriteSentence(store); err != nil {
			return nil, err
		}
		res.Sentences++
	}
}

// job carries one parsed sentence to a worker; done carries it back with its
// input position so the writer can restore order.
type job struct {
	index int
	sent  *conllu.Sentence
}

type done struct {
	index int
	store *graph.Store // nil when the sentence failed structurally
	err   error        // structural error, only fatal under Strict
	sent  *conllu.Sentence
}

func (r *Runner) runSharded(ctx context.Context, in io.Reader, writer *conllu.Writer, opts Options) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan job, opts.Workers)
	results := make(chan done, opts.Workers)

	// Producer. Scanning is sequential by nature; its sink is merged with
	// the worker sinks at the end.
	readerSink := diag.NewMemory()
	var readErr error
	var producer sync.WaitGroup
	producer.Add(1)
	go func() {
		defer producer.Done()
		defer close(jobs)
		reader := conllu.NewReader(in)
		reader.Warn = func(kind, context string) {
			readerSink.Warn(diag.Kind(kind), context)
		}
		for index := 0; ; index++ {
			sent, err := reader.Next()
			if err == io.EOF {
				return
			}
			if err != nil && sent == nil {
				readErr = err // scanner failure, not a sentence error
				return
			}
			if err != nil {
				// Parse error: hand the broken sentence through so the
				// writer side applies the skip/strict policy in order.
				select {
				case results <- done{index: index, err: err, sent: sent}:
				case <-ctx.Done():
					return
				}
				continue
			}
			select {
			case jobs <- job{index: index, sent: sent}:
			case <-ctx.Done():
				return
			}
		}
	}()

	sinks := make([]*diag.Memory, opts.Workers)
	var workers sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		sink := diag.NewMemory()
		sinks[w] = sink
		workers.Add(1)
		go func() {
			defer workers.Done()
			for j := range jobs {
				store, err := annotateSentence(j.sent, opts, sink)
				select {
				case results <- done{index: j.index, store: store, err: err, sent: j.sent}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		producer.Wait()
		workers.Wait()
		close(results)
	}()

	res := &Result{}
	pending := make(map[int]done)
	next := 0
	flush := func() error {
		for {
			d, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			next++
			if d.err != nil {
				if ferr := r.skipOrFail(d.sent, opts, r.Sink, d.err); ferr != nil {
					return ferr
				}
				res.Skipped++
				continue
			}
			if err := writer.WriteSentence(d.store); err != nil {
				return err
			}
			res.Sentences++
		}
	}

	var runErr error
	for d := range results {
		if runErr != nil {
			continue // drain so producer and workers can exit
		}
		pending[d.index] = d
		if err := flush(); err != nil {
			runErr = err
			cancel()
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	if readErr != nil {
		return nil, readErr
	}

	r.Sink.Merge(readerSink)
	for _, sink := range sinks {
		r.Sink.Merge(sink)
	}
	return res, nil
}
