package pas

import (
	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/graph"
)

// Options configures the per-sentence annotator.
type Options struct {
	// VerbUPOS is the set of part-of-speech tags treated as the verb
	// category. Nil or empty defaults to {VERB}.
	VerbUPOS map[string]bool
}

// DefaultVerbUPOS returns the standard verb category set.
func DefaultVerbUPOS() map[string]bool { return map[string]bool{"VERB": true} }

func (o *Options) verbs() map[string]bool {
	if len(o.VerbUPOS) == 0 {
		return DefaultVerbUPOS()
	}
	return o.VerbUPOS
}

// Annotate runs predicate identification and role assignment over every node
// of a fully linked sentence, in id order. Non-candidates receive the
// explicit NoPredicate marker; candidates get their identifier, role slots
// and argument pattern, and the corresponding frequency counters on the
// sink. The root sentinel is never visited and never a predicate.
func Annotate(store *graph.Store, opts Options, sink diag.Sink) {
	if sink == nil {
		sink = diag.Nop{}
	}
	verbs := opts.verbs()

	for n := range store.OrderedNodes() {
		if !IsCandidate(n, verbs) {
			n.PredicateID = NoPredicate
			continue
		}

		n.PredicateID = Identify(store, n)
		sink.Count(diag.TablePredicates, n.PredicateID)

		filtered := FilteredOut(store, n)
		AssignRoles(store, n, filtered, sink)

		n.ArgumentPattern = ArgumentPattern(filtered)
		sink.Count(diag.TablePatterns, n.ArgumentPattern)
	}
}
