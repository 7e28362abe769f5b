package pas

import "github.com/mrijkeboer/udpas/pkg/graph"

// FilteredOut returns the outgoing edges of n that are not coordination
// propagations. Enhanced graphs copy a dependency to every member of a
// coordinated set; an edge to target T is considered propagated when T has
// an incoming coordination edge from a node Z that is itself among n's
// outgoing targets - the edge to the first conjunct Z is the one that
// counts.
//
// The filtered view drives counting, diathesis and the argument pattern.
// Role target attribution still uses the unfiltered edge set, so every
// conjunct ends up attached to its role.
func FilteredOut(store *graph.Store, n *graph.Node) []graph.Edge {
	targets := make(map[graph.ID]bool, len(n.Out))
	for _, e := range n.Out {
		targets[e.Other] = true
	}

	filtered := make([]graph.Edge, 0, len(n.Out))
	for _, e := range n.Out {
		t, ok := store.Node(e.Other)
		if !ok {
			continue
		}
		propagated := false
		for _, in := range t.In {
			if Classify(in.Relation) == FamilyCoordination && in.Other != n.ID && targets[in.Other] {
				propagated = true
				break
			}
		}
		if !propagated {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
