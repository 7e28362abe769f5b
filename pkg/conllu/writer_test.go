package conllu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mrijkeboer/udpas/pkg/graph"
)

func annotatedStore(t *testing.T) *graph.Store {
	t.Helper()
	sent, err := NewReader(strings.NewReader(tinySentence)).Next()
	if err != nil {
		t.Fatal(err)
	}
	store, err := BuildStore(sent, nil)
	if err != nil {
		t.Fatal(err)
	}
	for n := range store.OrderedNodes() {
		n.PredicateID = "_"
	}
	gives, _ := store.Node(graph.MustParseID("2"))
	gives.PredicateID = "give"
	gives.ArgumentPattern = "iobj nsubj obj"
	gives.AddArgument("subj", []graph.ID{graph.MustParseID("1")})
	gives.AddArgument("obj", []graph.ID{graph.MustParseID("4")})
	gives.AddArgument("iobj", []graph.ID{graph.MustParseID("3")})
	return store
}

func TestWriterRoundTrip(t *testing.T) {
	store := annotatedStore(t)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteSentence(store); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != Header {
		t.Errorf("first line = %q, want header", lines[0])
	}
	if lines[1] != "# sent_id = demo-1" {
		t.Errorf("comment not preserved: %q", lines[1])
	}

	// Node lines start after the two comments.
	nodeLines := lines[3:]
	if len(nodeLines) != 5 {
		t.Fatalf("node lines = %d", len(nodeLines))
	}
	gives := strings.Split(nodeLines[1], "\t")
	if len(gives) != 12 {
		t.Fatalf("column count = %d, want 12", len(gives))
	}
	if gives[10] != "give" {
		t.Errorf("DEEP:PRED = %q", gives[10])
	}
	if gives[11] != "subj:1|obj:4|iobj:3" {
		t.Errorf("DEEP:ARGS = %q", gives[11])
	}
	she := strings.Split(nodeLines[0], "\t")
	if she[5] != "Case=Nom|Number=Sing" {
		t.Errorf("FEATS round trip = %q", she[5])
	}
	if she[10] != "_" || she[11] != "_" {
		t.Errorf("non-predicate columns = %q/%q", she[10], she[11])
	}
}

func TestWriterHeaderOnlyOnce(t *testing.T) {
	store := annotatedStore(t)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteSentence(store); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSentence(store); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), Header); got != 1 {
		t.Errorf("header emitted %d times", got)
	}
}

func TestWriterDebugAddsPatternColumn(t *testing.T) {
	store := annotatedStore(t)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Debug = true
	if err := w.WriteSentence(store); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	gives := strings.Split(lines[4], "\t")
	if len(gives) != 13 {
		t.Fatalf("debug column count = %d, want 13", len(gives))
	}
	if got := strings.TrimRight(gives[12], " "); got != "iobj nsubj obj" {
		t.Errorf("pattern column = %q", gives[12])
	}
	// FORM is padded to the widest form of the sentence ("apples").
	if gives[1] != "gives " {
		t.Errorf("padded FORM = %q", gives[1])
	}
}

func TestFormatArgs(t *testing.T) {
	if got := FormatArgs(nil); got != Empty {
		t.Errorf("empty = %q", got)
	}
	args := []graph.Argument{
		{Role: "subj", Targets: []graph.ID{{Major: 1}, {Major: 3}}},
		{Role: "obj", Targets: []graph.ID{{Major: 4}}},
	}
	if got := FormatArgs(args); got != "subj:1,3|obj:4" {
		t.Errorf("FormatArgs = %q", got)
	}
}
