package graph

import (
	"errors"
	"testing"
)

func word(major int) *Node {
	return &Node{ID: ID{Major: major}, Form: "w", Lemma: "w", UPOS: "NOUN"}
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	s := NewStore()
	if err := s.AddNode(word(1)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := s.AddNode(word(1))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate add: got %v, want ErrDuplicateID", err)
	}
	if err := s.AddNode(&Node{ID: Root}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("re-adding root: got %v, want ErrDuplicateID", err)
	}
}

func TestOrderedNodesExcludesRootAndRestarts(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"2", "1-2", "1", "2.1"} {
		if err := s.AddNode(&Node{ID: MustParseID(id)}); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"1-2", "1", "2", "2.1"}

	seq := s.OrderedNodes()
	for pass := 0; pass < 2; pass++ { // restartable
		var got []string
		for n := range seq {
			got = append(got, n.ID.String())
		}
		if len(got) != len(want) {
			t.Fatalf("pass %d: got %v, want %v", pass, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("pass %d: got %v, want %v", pass, got, want)
			}
		}
	}
}

func TestAttachBasic(t *testing.T) {
	s := NewStore()
	n1, n2, n3 := word(1), word(2), word(3)
	for _, n := range []*Node{n1, n2, n3} {
		if err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}

	if err := AttachBasic(s, n2, Root, "root"); err != nil {
		t.Fatalf("attach 2->0: %v", err)
	}
	if err := AttachBasic(s, n1, n2.ID, "nsubj"); err != nil {
		t.Fatalf("attach 1->2: %v", err)
	}
	if err := AttachBasic(s, n3, n1.ID, "nmod"); err != nil {
		t.Fatalf("attach 3->1: %v", err)
	}

	if n1.BasicParent == nil || *n1.BasicParent != n2.ID || n1.BasicRelation != "nsubj" {
		t.Errorf("node 1 parent = %v/%q", n1.BasicParent, n1.BasicRelation)
	}
	if len(n2.BasicChildren) != 1 || n2.BasicChildren[0] != n1.ID {
		t.Errorf("node 2 children = %v", n2.BasicChildren)
	}

	// Self attachment always fails.
	if err := AttachBasic(s, n2, n2.ID, "conj"); !errors.Is(err, ErrSelfAttach) {
		t.Errorf("self attach: got %v, want ErrSelfAttach", err)
	}
	// Unknown head fails.
	if err := AttachBasic(s, n2, ID{Major: 9}, "dep"); !errors.Is(err, ErrUnknownHead) {
		t.Errorf("unknown head: got %v, want ErrUnknownHead", err)
	}
	// 3 transitively depends on 2 via 1, so 2 cannot attach under 3.
	n2.BasicParent = nil
	if err := AttachBasic(s, n2, n3.ID, "conj"); !errors.Is(err, ErrCycle) {
		t.Errorf("cycle attach: got %v, want ErrCycle", err)
	}
}

func TestIndexEnhancedSymmetryAndDedup(t *testing.T) {
	s := NewStore()
	n2, n3, n5 := word(2), word(3), word(5)
	for _, n := range []*Node{n2, n3, n5} {
		if err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}

	deps := []Dep{{Head: n2.ID, Relation: "obj"}, {Head: n5.ID, Relation: "advmod"}}
	var dups int
	warn := func(ID, string) { dups++ }

	if err := IndexEnhanced(s, n3, deps, warn); err != nil {
		t.Fatalf("index: %v", err)
	}
	if !n3.HasIncoming(n2.ID, "obj") || !n3.HasIncoming(n5.ID, "advmod") {
		t.Errorf("node 3 incoming = %v", n3.In)
	}
	if len(n2.Out) != 1 || n2.Out[0] != (Edge{Other: n3.ID, Relation: "obj"}) {
		t.Errorf("node 2 outgoing = %v", n2.Out)
	}
	if len(n5.Out) != 1 || n5.Out[0] != (Edge{Other: n3.ID, Relation: "advmod"}) {
		t.Errorf("node 5 outgoing = %v", n5.Out)
	}

	// Resubmitting the identical pairs drops both and warns once per pair.
	if err := IndexEnhanced(s, n3, deps, warn); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if len(n3.In) != 2 {
		t.Errorf("edge count after duplicate submit = %d, want 2", len(n3.In))
	}
	if dups != 2 {
		t.Errorf("duplicate warnings = %d, want 2", dups)
	}

	// Unknown head aborts the sentence.
	err := IndexEnhanced(s, n3, []Dep{{Head: ID{Major: 9}, Relation: "obj"}}, nil)
	if !errors.Is(err, ErrUnknownHead) {
		t.Errorf("unknown enhanced head: got %v, want ErrUnknownHead", err)
	}
}
