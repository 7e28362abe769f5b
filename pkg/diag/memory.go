package diag

import (
	"maps"
	"slices"
)

// Memory is an in-process Sink backed by plain maps. It additionally keeps
// the most recent context line per warning kind, which is enough for the
// end-of-run report without storing per-occurrence detail.
//
// Memory is not safe for concurrent use; the pipeline gives each worker its
// own instance and merges them with [Memory.Merge].
type Memory struct {
	tables   map[string]map[string]int64
	contexts map[Kind]string
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{
		tables:   make(map[string]map[string]int64),
		contexts: make(map[Kind]string),
	}
}

// Warn implements Sink.
func (m *Memory) Warn(kind Kind, context string) {
	m.Count(TableWarnings, string(kind))
	if context != "" {
		m.contexts[kind] = context
	}
}

// Count implements Sink.
func (m *Memory) Count(table, key string) {
	t, ok := m.tables[table]
	if !ok {
		t = make(map[string]int64)
		m.tables[table] = t
	}
	t[key]++
}

// Merge adds every counter of other into m. Merging is commutative per key,
// so shard sinks can be folded in any order.
func (m *Memory) Merge(other *Memory) {
	for table, keys := range other.tables {
		for key, count := range keys {
			t, ok := m.tables[table]
			if !ok {
				t = make(map[string]int64)
				m.tables[table] = t
			}
			t[key] += count
		}
	}
	for kind, ctx := range other.contexts {
		m.contexts[kind] = ctx
	}
}

// Table returns a copy of the named frequency table.
func (m *Memory) Table(table string) map[string]int64 {
	t, ok := m.tables[table]
	if !ok {
		return nil
	}
	return maps.Clone(t)
}

// Tables returns the table names that hold at least one counter, sorted.
func (m *Memory) Tables() []string {
	names := slices.Collect(maps.Keys(m.tables))
	slices.Sort(names)
	return names
}

// Context returns the most recent warning context for a kind, or "".
func (m *Memory) Context(kind Kind) string { return m.contexts[kind] }

// Total sums all counters of a table.
func (m *Memory) Total(table string) int64 {
	var sum int64
	for _, c := range m.tables[table] {
		sum += c
	}
	return sum
}
