// Package graph holds the per-sentence dependency graph model: nodes with
// their CoNLL-U columns, the id-keyed store, the single-headed basic tree,
// and the multi-headed enhanced edge index.
//
// A [Store] and its nodes live exactly as long as one sentence: they are
// populated from the input block, linked, annotated, serialized, and
// discarded. Nothing in this package is safe for concurrent use; sentences
// are independent, so callers shard whole sentences instead.
package graph

// Edge is one enhanced-graph edge endpoint record. A node's Out edges point
// at its dependents, its In edges at its heads; the index keeps the two
// views symmetric.
type Edge struct {
	Other    ID     // the node on the far end
	Relation string // dependency relation label, e.g. "nsubj", "obl:agent"
}

// Argument links a predicate to the nodes filling one of its semantic roles.
// Targets is an ordered set: every coordinated conjunct of a role filler is
// attributed, in id order, even when only one counted toward diagnostics.
type Argument struct {
	Role    string
	Targets []ID
}

// Node is a single treebank entity: a word, an enhanced-graph empty node, or
// a multiword token range. All columns are kept so a sentence re-serializes
// without loss; annotation only ever appends to PredicateID, Arguments and
// ArgumentPattern.
type Node struct {
	ID    ID
	Form  string
	Lemma string
	UPOS  string
	XPOS  string
	Feats map[string]string // feature name -> value, unordered
	Misc  []string          // opaque MISC tokens, order preserved

	// Basic tree. BasicParent is nil for the root sentinel and for lines
	// without a usable head (multiword ranges); BasicRelation is still set
	// explicitly in that case so the output column is never undefined.
	BasicParent   *ID
	BasicRelation string
	BasicChildren []ID

	// Enhanced graph, symmetric across the sentence.
	In  []Edge
	Out []Edge

	// Predicate-argument annotation.
	PredicateID     string
	Arguments       []Argument
	ArgumentPattern string
}

// HasIncoming reports whether the node already records an incoming edge from
// head with the given relation label.
func (n *Node) HasIncoming(head ID, relation string) bool {
	for _, e := range n.In {
		if e.Other == head && e.Relation == relation {
			return true
		}
	}
	return false
}

// OutTargets returns the ids of all outgoing-edge targets, in edge order.
func (n *Node) OutTargets() []ID {
	ids := make([]ID, len(n.Out))
	for i, e := range n.Out {
		ids[i] = e.Other
	}
	return ids
}

// AddArgument appends a role with its target id set. Duplicate target ids
// are collapsed, preserving first-seen order.
func (n *Node) AddArgument(role string, targets []ID) {
	arg := Argument{Role: role}
	for _, t := range targets {
		seen := false
		for _, have := range arg.Targets {
			if have == t {
				seen = true
				break
			}
		}
		if !seen {
			arg.Targets = append(arg.Targets, t)
		}
	}
	n.Arguments = append(n.Arguments, arg)
}
