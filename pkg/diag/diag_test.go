package diag

import (
	"strings"
	"testing"
)

func TestMemoryCountsAndContexts(t *testing.T) {
	m := NewMemory()
	m.Count(TablePredicates, "give")
	m.Count(TablePredicates, "give")
	m.Warn(WarnSlotConflict, "iobj and xcomp on 2")

	if got := m.Table(TablePredicates)["give"]; got != 2 {
		t.Errorf("give = %d, want 2", got)
	}
	if got := m.Table(TableWarnings)[string(WarnSlotConflict)]; got != 1 {
		t.Errorf("warning count = %d, want 1", got)
	}
	if got := m.Context(WarnSlotConflict); got != "iobj and xcomp on 2" {
		t.Errorf("context = %q", got)
	}
	if m.Table("nonexistent") != nil {
		t.Error("unknown table should be nil")
	}
}

func TestTablesSorted(t *testing.T) {
	m := NewMemory()
	m.Count(TableRoles, "subj")
	m.Count(TableDiathesis, "active")
	m.Count(TablePatterns, "nsubj")

	got := m.Tables()
	want := []string{TableDiathesis, TablePatterns, TableRoles}
	if len(got) != len(want) {
		t.Fatalf("tables = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tables = %v, want %v", got, want)
		}
	}
}

func TestReportRendersTables(t *testing.T) {
	m := NewMemory()
	m.Count(TablePredicates, "give")
	m.Count(TablePredicates, "give")
	m.Count(TablePredicates, "open")

	out := Report(m, ReportOptions{})
	if !strings.Contains(out, TablePredicates) {
		t.Errorf("report missing table title:\n%s", out)
	}
	if !strings.Contains(out, "give") || !strings.Contains(out, "open") {
		t.Errorf("report missing keys:\n%s", out)
	}
	// The most frequent key renders before the less frequent one.
	if strings.Index(out, "give") > strings.Index(out, "open") {
		t.Errorf("report not sorted by count:\n%s", out)
	}
}

func TestReportTopLimit(t *testing.T) {
	m := NewMemory()
	m.Count(TablePatterns, "nsubj")
	m.Count(TablePatterns, "nsubj")
	m.Count(TablePatterns, "nsubj obj")

	out := Report(m, ReportOptions{Top: 1})
	if !strings.Contains(out, "nsubj") {
		t.Errorf("top entry missing:\n%s", out)
	}
	if strings.Contains(out, "nsubj obj") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestNopSink(t *testing.T) {
	var s Sink = Nop{}
	s.Warn(WarnBadFeature, "x")
	s.Count(TablePredicates, "y") // must not panic
}
