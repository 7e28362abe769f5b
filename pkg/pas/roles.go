package pas

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/graph"
)

// Diathesis is the voice classification of a predicate's clause. It is
// decided once per predicate, before any slot is filled, and never revised.
type Diathesis int

const (
	Active Diathesis = iota
	Passive
)

func (d Diathesis) String() string {
	if d == Passive {
		return "passive"
	}
	return "active"
}

// Role tags used in the DEEP:ARGS column. Slot numbering is fixed:
// slot 1 agent, slot 2 subject, slot 3 object, slot 4 indirect object or
// open clausal complement, with diathesis deciding which families land where.
const (
	RoleAgent = "agent"
	RoleSubj  = "subj"
	RoleObj   = "obj"
	RoleIObj  = "iobj"
	RoleXComp = "xcomp"
)

// NoArgument is the pattern value for predicates without argument-like
// dependents. A distinguished token, never the empty string, keeps pattern
// frequency tables unambiguous.
const NoArgument = "NOARG"

// ClassifyDiathesis returns Passive iff the coordination-filtered outgoing
// edges contain a passive-subject family relation.
func ClassifyDiathesis(filtered []graph.Edge) Diathesis {
	for _, e := range filtered {
		if Classify(e.Relation) == FamilySubjectPassive {
			return Passive
		}
	}
	return Active
}

// AssignRoles fills the predicate's role slots from its outgoing edges and
// returns the clause diathesis.
//
// Counting and anomaly detection use the filtered edge view; target
// attribution uses the full view, so every coordinated conjunct is attached
// to its role while only the first conjunct counts toward the "more than one
// instance" diagnostics. Anomalies are counted, never fatal: all matching
// candidates are still attributed despite them.
func AssignRoles(store *graph.Store, n *graph.Node, filtered []graph.Edge, sink diag.Sink) Diathesis {
	d := ClassifyDiathesis(filtered)

	counts := make(map[Family]int)
	for _, e := range filtered {
		counts[Classify(e.Relation)]++
	}
	for _, f := range []Family{FamilySubject, FamilySubjectPassive, FamilyObject,
		FamilyIObj, FamilyObliqueAgent, FamilyXComp} {
		if counts[f] > 1 {
			sink.Warn(diag.WarnMultipleRole,
				fmt.Sprintf("%d %s edges on %s", counts[f], f, n.ID))
		}
	}

	if d == Passive {
		assignPassive(n, counts, sink)
	} else {
		assignActive(n, counts, sink)
	}

	for _, a := range n.Arguments {
		sink.Count(diag.TableRoles, a.Role)
	}
	sink.Count(diag.TableDiathesis, d.String())
	return d
}

// assignActive fills slots for an active clause: subject, then direct object
// or clausal complement, then indirect object. xcomp shares the last slot
// with iobj; when both occur the indirect object wins and the conflict is
// counted as an annotation-error signal.
func assignActive(n *graph.Node, counts map[Family]int, sink diag.Sink) {
	addRole(n, RoleSubj, FamilySubject)
	addRole(n, RoleObj, FamilyObject, FamilyCComp)
	switch {
	case counts[FamilyIObj] > 0:
		addRole(n, RoleIObj, FamilyIObj)
		if counts[FamilyXComp] > 0 {
			sink.Warn(diag.WarnSlotConflict,
				fmt.Sprintf("iobj and xcomp on %s", n.ID))
		}
	case counts[FamilyXComp] > 0:
		addRole(n, RoleXComp, FamilyXComp)
	}
}

// assignPassive fills slots for a passive clause: oblique agent, passive
// subject, indirect object, open clausal complement. A non-passive subject
// or a direct object alongside the passive marker is a recognized
// inconsistency; both are counted and otherwise ignored.
func assignPassive(n *graph.Node, counts map[Family]int, sink diag.Sink) {
	addRole(n, RoleAgent, FamilyObliqueAgent)
	addRole(n, RoleSubj, FamilySubjectPassive)
	addRole(n, RoleIObj, FamilyIObj)
	addRole(n, RoleXComp, FamilyXComp)

	if counts[FamilySubject] > 0 {
		sink.Warn(diag.WarnActiveInPassive,
			fmt.Sprintf("non-passive subject on %s", n.ID))
	}
	if counts[FamilyObject] > 0 {
		sink.Warn(diag.WarnObjectInPassive,
			fmt.Sprintf("direct object on %s", n.ID))
	}
}

// addRole attributes every unfiltered outgoing edge of the given families to
// the role, in edge order. Nothing is added when no edge matches, so the
// slot stays empty rather than rendering an empty target list.
func addRole(n *graph.Node, role string, families ...Family) {
	var targets []graph.ID
	for _, e := range n.Out {
		if slices.Contains(families, Classify(e.Relation)) {
			targets = append(targets, e.Other)
		}
	}
	if len(targets) > 0 {
		n.AddArgument(role, targets)
	}
}

// ArgumentPattern builds the canonical pattern string from the filtered
// edges: argument-like labels with enhanced suffixes stripped, sorted
// lexicographically and space-joined. An empty result is the NoArgument
// token.
func ArgumentPattern(filtered []graph.Edge) string {
	var labels []string
	for _, e := range filtered {
		label := NormalizeLabel(e.Relation)
		if argumentLike(Classify(label)) {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return NoArgument
	}
	slices.Sort(labels)
	return strings.Join(labels, " ")
}
