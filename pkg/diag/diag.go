// Package diag collects the annotation run's diagnostics: recoverable
// anomaly warnings and frequency counters for predicates, argument patterns,
// diathesis and role fills.
//
// The core annotation code only ever talks to the [Sink] interface; backends
// decide whether counters live in memory (single process), in Redis (sharded
// corpus runs), or nowhere. Per-occurrence output is deliberately avoided:
// anomalies are aggregated into tables so large corpora stay usable.
package diag

// Counter table names used by the annotator.
const (
	TablePredicates = "predicates" // predicate identifier frequencies
	TablePatterns   = "patterns"   // argument pattern frequencies
	TableDiathesis  = "diathesis"  // active/passive clause counts
	TableRoles      = "roles"      // filled role slot counts
	TableWarnings   = "warnings"   // anomaly counts by kind
)

// Kind names a recoverable anomaly. New kinds may be added freely; sinks
// treat them as opaque keys.
type Kind string

const (
	WarnDuplicateDep    Kind = "deps-duplicate"    // identical enhanced edge submitted twice
	WarnBadFeature      Kind = "feats-unparsable"  // FEATS pair failed validation
	WarnMultipleRole    Kind = "role-multiple"     // >1 filtered instance of a role in one clause
	WarnActiveInPassive Kind = "passive-active"    // non-passive subject under a passive marker
	WarnObjectInPassive Kind = "passive-object"    // direct object under a passive marker
	WarnSlotConflict    Kind = "slot-conflict"     // iobj and xcomp compete for the same slot
	WarnSentenceSkipped Kind = "sentence-skipped"  // structural error, sentence dropped
)

// Sink receives warnings and counter increments. Implementations must accept
// calls from a single goroutine at a time; the pipeline gives each worker its
// own sink and merges afterwards.
type Sink interface {
	// Warn records one occurrence of an anomaly, with free-text context
	// (sentence id, offending labels). Context is advisory: sinks may keep
	// only the count.
	Warn(kind Kind, context string)

	// Count increments the key in the named frequency table.
	Count(table, key string)
}

// Nop is a Sink that discards everything.
type Nop struct{}

func (Nop) Warn(Kind, string)   {}
func (Nop) Count(string, string) {}
