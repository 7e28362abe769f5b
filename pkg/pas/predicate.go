package pas

import (
	"strings"

	"github.com/mrijkeboer/udpas/pkg/graph"
)

// NoPredicate marks nodes that are not predicates. The field is always set
// so the output column is never undefined.
const NoPredicate = "_"

// IsCandidate reports whether n can be a predicate: its UPOS is in the verb
// category set, its lemma is defined, and it is not itself the dependent of
// a compound-family relation (basic or enhanced). A verb serving as the
// dependent half of a verb-verb compound contributes to its head's predicate
// identity instead of being one.
func IsCandidate(n *graph.Node, verbUPOS map[string]bool) bool {
	if !verbUPOS[n.UPOS] || n.Lemma == "" {
		return false
	}
	if Classify(n.BasicRelation) == FamilyCompound {
		return false
	}
	for _, e := range n.In {
		if Classify(e.Relation) == FamilyCompound {
			return false
		}
	}
	return true
}

// Identify synthesizes the predicate identifier for a candidate node: the
// lemma, followed by the lowercased surface form of every outgoing expl:pv
// (inherent reflexive) or compound-family target, in edge order, space
// separated. A reflexive Romanian verb comes out as "spăla se", a Dutch
// light-verb compound as "laten zien".
func Identify(store *graph.Store, n *graph.Node) string {
	parts := []string{n.Lemma}
	for _, e := range n.Out {
		switch Classify(e.Relation) {
		case FamilyExplPV, FamilyCompound:
			if t, ok := store.Node(e.Other); ok && t.Form != "" {
				parts = append(parts, strings.ToLower(t.Form))
			}
		}
	}
	return strings.Join(parts, " ")
}
