// Package pas implements the shallow predicate-argument annotation engine:
// relation-family classification, coordination-propagation filtering,
// predicate identification, and the diathesis-driven role assigner.
//
// The engine operates on one fully linked [graph.Store] at a time and never
// mutates anything but the PredicateID, Arguments and ArgumentPattern fields
// of its nodes. Anomalies go to a [diag.Sink]; only structurally corrupt
// sentences produce errors, and those are raised while building the store,
// not here.
package pas

import "strings"

// Family is the closed set of relation-label families the engine reacts to.
// Classification is an explicit mapping rather than regular expression
// matching, so subtype handling is visible and unit-testable.
type Family int

const (
	FamilyOther Family = iota
	FamilySubject
	FamilySubjectPassive
	FamilyObject
	FamilyIObj
	FamilyCComp
	FamilyXComp
	FamilyObliqueAgent
	FamilyObliqueArg
	FamilyCoordination
	FamilyCompound
	FamilyExplPV
)

// String returns the family tag used in diagnostics.
func (f Family) String() string {
	switch f {
	case FamilySubject:
		return "subject"
	case FamilySubjectPassive:
		return "subject-passive"
	case FamilyObject:
		return "object"
	case FamilyIObj:
		return "iobj"
	case FamilyCComp:
		return "ccomp"
	case FamilyXComp:
		return "xcomp"
	case FamilyObliqueAgent:
		return "oblique-agent"
	case FamilyObliqueArg:
		return "oblique-arg"
	case FamilyCoordination:
		return "coordination"
	case FamilyCompound:
		return "compound"
	case FamilyExplPV:
		return "expl-pv"
	default:
		return "other"
	}
}

// Classify maps a dependency relation label to its family. Subtypes follow
// their base label ("conj:and" is coordination, "compound:prt" is compound)
// except where the subtype itself decides the family: a "pass" subtype turns
// a subject passive, and "obl" is only argument-like as "obl:agent" or
// "obl:arg".
func Classify(label string) Family {
	base, rest, _ := strings.Cut(label, ":")
	switch base {
	case "nsubj", "csubj":
		if hasSubtype(rest, "pass") {
			return FamilySubjectPassive
		}
		return FamilySubject
	case "obj":
		return FamilyObject
	case "iobj":
		return FamilyIObj
	case "ccomp":
		return FamilyCComp
	case "xcomp":
		return FamilyXComp
	case "obl":
		switch rest {
		case "agent":
			return FamilyObliqueAgent
		case "arg":
			return FamilyObliqueArg
		}
		return FamilyOther
	case "conj":
		return FamilyCoordination
	case "compound":
		return FamilyCompound
	case "expl":
		if rest == "pv" {
			return FamilyExplPV
		}
		return FamilyOther
	default:
		return FamilyOther
	}
}

// hasSubtype reports whether the colon-delimited subtype chain contains sub.
func hasSubtype(rest, sub string) bool {
	for rest != "" {
		var head string
		head, rest, _ = strings.Cut(rest, ":")
		if head == sub {
			return true
		}
	}
	return false
}

// enhancedSuffixes are enhanced-graph subtype markers that do not change the
// argument identity of a label and are stripped before pattern comparison.
var enhancedSuffixes = []string{":xsubj", ":relsubj", ":relobj"}

// NormalizeLabel strips enhanced subtype suffixes from a relation label, so
// "nsubj:xsubj" and "nsubj" count as the same pattern element.
func NormalizeLabel(label string) string {
	for _, suffix := range enhancedSuffixes {
		label = strings.TrimSuffix(label, suffix)
	}
	return label
}

// argumentLike reports whether a family participates in the argument
// pattern: subjects of either diathesis, objects, indirect objects, clausal
// complements, and the argument-marked obliques.
func argumentLike(f Family) bool {
	switch f {
	case FamilySubject, FamilySubjectPassive, FamilyObject, FamilyIObj,
		FamilyCComp, FamilyXComp, FamilyObliqueAgent, FamilyObliqueArg:
		return true
	default:
		return false
	}
}
