package pas

import (
	"testing"

	"github.com/mrijkeboer/udpas/pkg/diag"
	"github.com/mrijkeboer/udpas/pkg/graph"
)

// testNode describes one word for buildSentence.
type testNode struct {
	id    string
	form  string
	lemma string
	upos  string
}

// testEdge is one enhanced edge head -> dependent.
type testEdge struct {
	head, dep, rel string
}

// buildSentence assembles a linked store from word specs and enhanced edges.
func buildSentence(t *testing.T, nodes []testNode, edges []testEdge) *graph.Store {
	t.Helper()
	store := graph.NewStore()
	for _, tn := range nodes {
		n := &graph.Node{
			ID:    graph.MustParseID(tn.id),
			Form:  tn.form,
			Lemma: tn.lemma,
			UPOS:  tn.upos,
		}
		if err := store.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		dep, ok := store.Node(graph.MustParseID(e.dep))
		if !ok {
			t.Fatalf("unknown dependent %s", e.dep)
		}
		deps := []graph.Dep{{Head: graph.MustParseID(e.head), Relation: e.rel}}
		if err := graph.IndexEnhanced(store, dep, deps, nil); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func mustNode(t *testing.T, store *graph.Store, id string) *graph.Node {
	t.Helper()
	n, ok := store.Node(graph.MustParseID(id))
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n
}

func argByRole(n *graph.Node, role string) (graph.Argument, bool) {
	for _, a := range n.Arguments {
		if a.Role == role {
			return a, true
		}
	}
	return graph.Argument{}, false
}

func TestClassify(t *testing.T) {
	cases := []struct {
		label string
		want  Family
	}{
		{"nsubj", FamilySubject},
		{"csubj", FamilySubject},
		{"nsubj:pass", FamilySubjectPassive},
		{"csubj:pass", FamilySubjectPassive},
		{"nsubj:outer", FamilySubject},
		{"obj", FamilyObject},
		{"iobj", FamilyIObj},
		{"ccomp", FamilyCComp},
		{"xcomp", FamilyXComp},
		{"obl:agent", FamilyObliqueAgent},
		{"obl:arg", FamilyObliqueArg},
		{"obl", FamilyOther},
		{"obl:tmod", FamilyOther},
		{"conj", FamilyCoordination},
		{"conj:and", FamilyCoordination},
		{"compound", FamilyCompound},
		{"compound:prt", FamilyCompound},
		{"expl:pv", FamilyExplPV},
		{"expl", FamilyOther},
		{"advmod", FamilyOther},
		{"nsubjx", FamilyOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.label); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.label, got, tc.want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"nsubj:xsubj":   "nsubj",
		"nsubj:relsubj": "nsubj",
		"obj:relobj":    "obj",
		"nsubj:pass":    "nsubj:pass",
		"obj":           "obj",
	}
	for in, want := range cases {
		if got := NormalizeLabel(in); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPredicateIdentityReflexive(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "washes", "wash", "VERB"},
			{"2", "Se", "se", "PRON"},
		},
		[]testEdge{{head: "1", dep: "2", rel: "expl:pv"}},
	)
	n := mustNode(t, store, "1")
	if !IsCandidate(n, DefaultVerbUPOS()) {
		t.Fatal("verb with lemma should be a candidate")
	}
	if got := Identify(store, n); got != "wash se" {
		t.Errorf("Identify = %q, want %q", got, "wash se")
	}
}

func TestPredicateIdentityLightVerbCompound(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "laten", "laten", "VERB"},
			{"2", "Zien", "zien", "VERB"},
		},
		[]testEdge{{head: "1", dep: "2", rel: "compound:svc"}},
	)
	head := mustNode(t, store, "1")
	dep := mustNode(t, store, "2")

	if got := Identify(store, head); got != "laten zien" {
		t.Errorf("Identify = %q, want %q", got, "laten zien")
	}
	// The dependent half of a verb-verb compound is not its own predicate.
	if IsCandidate(dep, DefaultVerbUPOS()) {
		t.Error("compound dependent should not be a candidate")
	}
}

func TestIsCandidateRequiresVerbAndLemma(t *testing.T) {
	noun := &graph.Node{ID: graph.ID{Major: 1}, Lemma: "dog", UPOS: "NOUN"}
	if IsCandidate(noun, DefaultVerbUPOS()) {
		t.Error("NOUN should not be a candidate")
	}
	bare := &graph.Node{ID: graph.ID{Major: 2}, UPOS: "VERB"}
	if IsCandidate(bare, DefaultVerbUPOS()) {
		t.Error("verb without lemma should not be a candidate")
	}
}

func TestActiveClause(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "she", "she", "PRON"},  // A
			{"2", "gives", "give", "VERB"},
			{"3", "apples", "apple", "NOUN"}, // B
			{"4", "him", "he", "PRON"},       // C
		},
		[]testEdge{
			{head: "2", dep: "1", rel: "nsubj"},
			{head: "2", dep: "3", rel: "obj"},
			{head: "2", dep: "4", rel: "iobj"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	pred := mustNode(t, store, "2")
	if pred.PredicateID != "give" {
		t.Errorf("predicate id = %q", pred.PredicateID)
	}
	checkRole(t, pred, RoleSubj, "1")
	checkRole(t, pred, RoleObj, "3")
	checkRole(t, pred, RoleIObj, "4")
	if _, ok := argByRole(pred, RoleAgent); ok {
		t.Error("active clause must not fill the agent slot")
	}
	if pred.ArgumentPattern != "iobj nsubj obj" {
		t.Errorf("pattern = %q, want %q", pred.ArgumentPattern, "iobj nsubj obj")
	}
	if got := sink.Table(diag.TableDiathesis)["active"]; got != 1 {
		t.Errorf("active count = %d, want 1", got)
	}
	if warnings := sink.Total(diag.TableWarnings); warnings != 0 {
		t.Errorf("unexpected warnings: %v", sink.Table(diag.TableWarnings))
	}
}

func TestPassiveClause(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "door", "door", "NOUN"}, // A: passive subject
			{"2", "opened", "open", "VERB"},
			{"3", "wind", "wind", "NOUN"}, // B: agent
		},
		[]testEdge{
			{head: "2", dep: "1", rel: "nsubj:pass"},
			{head: "2", dep: "3", rel: "obl:agent"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	pred := mustNode(t, store, "2")
	checkRole(t, pred, RoleAgent, "3")
	checkRole(t, pred, RoleSubj, "1")
	if got := sink.Table(diag.TableDiathesis)["passive"]; got != 1 {
		t.Errorf("passive count = %d, want 1", got)
	}
}

func TestCoordinatedSubjects(t *testing.T) {
	// "Anna and Ben sleep": the enhanced graph propagates nsubj to both
	// conjuncts; Ben also carries a conj edge from Anna.
	store := buildSentence(t,
		[]testNode{
			{"1", "Anna", "Anna", "PROPN"}, // A
			{"2", "and", "and", "CCONJ"},
			{"3", "Ben", "Ben", "PROPN"}, // B
			{"4", "sleep", "sleep", "VERB"},
		},
		[]testEdge{
			{head: "4", dep: "1", rel: "nsubj"},
			{head: "4", dep: "3", rel: "nsubj"},
			{head: "1", dep: "3", rel: "conj:and"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	pred := mustNode(t, store, "4")

	// Only the edge to the first conjunct counts...
	filtered := FilteredOut(store, pred)
	subjects := 0
	for _, e := range filtered {
		if Classify(e.Relation) == FamilySubject {
			subjects++
		}
	}
	if subjects != 1 {
		t.Errorf("filtered subject count = %d, want 1", subjects)
	}
	if got := sink.Table(diag.TableWarnings)[string(diag.WarnMultipleRole)]; got != 0 {
		t.Errorf("coordination must not trigger the multiple-role warning, got %d", got)
	}

	// ...but both conjuncts are attributed to the role.
	checkRole(t, pred, RoleSubj, "1", "3")
	if pred.ArgumentPattern != "nsubj" {
		t.Errorf("pattern = %q, want %q", pred.ArgumentPattern, "nsubj")
	}
}

func TestMultipleSubjectsWarn(t *testing.T) {
	// Two subjects without coordination is an annotation anomaly.
	store := buildSentence(t,
		[]testNode{
			{"1", "a", "a", "NOUN"},
			{"2", "b", "b", "NOUN"},
			{"3", "runs", "run", "VERB"},
		},
		[]testEdge{
			{head: "3", dep: "1", rel: "nsubj"},
			{head: "3", dep: "2", rel: "nsubj"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	if got := sink.Table(diag.TableWarnings)[string(diag.WarnMultipleRole)]; got != 1 {
		t.Errorf("multiple-role warnings = %d, want 1", got)
	}
	// Both candidates are still attributed despite the anomaly.
	checkRole(t, mustNode(t, store, "3"), RoleSubj, "1", "2")
}

func TestSlotConflictIobjWins(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "him", "he", "PRON"},
			{"2", "promised", "promise", "VERB"},
			{"3", "leave", "leave", "VERB"},
		},
		[]testEdge{
			{head: "2", dep: "1", rel: "iobj"},
			{head: "2", dep: "3", rel: "xcomp"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	pred := mustNode(t, store, "2")
	checkRole(t, pred, RoleIObj, "1")
	if _, ok := argByRole(pred, RoleXComp); ok {
		t.Error("xcomp must lose the shared slot to iobj")
	}
	if got := sink.Table(diag.TableWarnings)[string(diag.WarnSlotConflict)]; got != 1 {
		t.Errorf("slot-conflict warnings = %d, want 1", got)
	}
	// The conflict still shows up in the pattern.
	if pred.ArgumentPattern != "iobj xcomp" {
		t.Errorf("pattern = %q, want %q", pred.ArgumentPattern, "iobj xcomp")
	}
}

func TestPassiveInconsistencies(t *testing.T) {
	store := buildSentence(t,
		[]testNode{
			{"1", "it", "it", "PRON"},
			{"2", "was", "be", "AUX"},
			{"3", "seen", "see", "VERB"},
			{"4", "thing", "thing", "NOUN"},
			{"5", "who", "who", "PRON"},
		},
		[]testEdge{
			{head: "3", dep: "1", rel: "nsubj:pass"},
			{head: "3", dep: "4", rel: "obj"},
			{head: "3", dep: "5", rel: "nsubj"},
		},
	)
	sink := diag.NewMemory()
	Annotate(store, Options{}, sink)

	warnings := sink.Table(diag.TableWarnings)
	if warnings[string(diag.WarnObjectInPassive)] != 1 {
		t.Errorf("object-in-passive = %d, want 1", warnings[string(diag.WarnObjectInPassive)])
	}
	if warnings[string(diag.WarnActiveInPassive)] != 1 {
		t.Errorf("active-in-passive = %d, want 1", warnings[string(diag.WarnActiveInPassive)])
	}
}

func TestNoArgumentPattern(t *testing.T) {
	store := buildSentence(t,
		[]testNode{{"1", "rains", "rain", "VERB"}},
		nil,
	)
	Annotate(store, Options{}, diag.NewMemory())
	if got := mustNode(t, store, "1").ArgumentPattern; got != NoArgument {
		t.Errorf("pattern = %q, want %q", got, NoArgument)
	}
}

func TestNonPredicateMarker(t *testing.T) {
	store := buildSentence(t,
		[]testNode{{"1", "dog", "dog", "NOUN"}},
		nil,
	)
	Annotate(store, Options{}, nil)
	if got := mustNode(t, store, "1").PredicateID; got != NoPredicate {
		t.Errorf("non-predicate marker = %q, want %q", got, NoPredicate)
	}
}

func checkRole(t *testing.T, n *graph.Node, role string, wantIDs ...string) {
	t.Helper()
	arg, ok := argByRole(n, role)
	if !ok {
		t.Fatalf("role %s not filled on %s (have %v)", role, n.ID, n.Arguments)
	}
	if len(arg.Targets) != len(wantIDs) {
		t.Fatalf("role %s targets = %v, want %v", role, arg.Targets, wantIDs)
	}
	for i, want := range wantIDs {
		if arg.Targets[i].String() != want {
			t.Fatalf("role %s targets = %v, want %v", role, arg.Targets, wantIDs)
		}
	}
}
