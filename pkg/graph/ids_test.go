package graph

import (
	"slices"
	"testing"
)

func TestParseIDRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want ID
	}{
		{"0", ID{}},
		{"7", ID{Major: 7}},
		{"7.2", ID{Major: 7, Minor: 2}},
		{"7-8", ID{Major: 7, Major2: 8}},
		{"12-15", ID{Major: 12, Major2: 15}},
	}
	for _, tc := range cases {
		got, err := ParseID(tc.in)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseID(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("ParseID(%q).String() = %q", tc.in, got.String())
		}
	}
}

func TestParseIDRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "x", "-1", "3.", "3.0", ".5", "4-4", "5-3", "3-", "a-b", "1.2.3"} {
		if _, err := ParseID(in); err == nil {
			t.Errorf("ParseID(%q): expected error", in)
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	// Sorted reference order: a range sorts before the word opening it,
	// empty nodes sort after their anchor word by minor.
	ordered := []string{"0", "1", "2", "3-4", "3", "3.1", "3.2", "4", "5", "10"}
	ids := make([]ID, len(ordered))
	for i, s := range ordered {
		ids[i] = MustParseID(s)
	}
	for i, a := range ids {
		for j, b := range ids {
			got := a.Compare(b)
			switch {
			case i < j && got >= 0:
				t.Errorf("Compare(%s, %s) = %d, want < 0", a, b, got)
			case i > j && got <= 0:
				t.Errorf("Compare(%s, %s) = %d, want > 0", a, b, got)
			case i == j && got != 0:
				t.Errorf("Compare(%s, %s) = %d, want 0", a, b, got)
			}
			// Antisymmetry: exactly one of <, ==, > holds both ways.
			if got != -b.Compare(a) {
				t.Errorf("Compare(%s, %s) not antisymmetric", a, b)
			}
		}
	}
}

func TestCompareSortsShuffledSentence(t *testing.T) {
	shuffled := []string{"4", "3.2", "1", "3", "3-4", "2", "3.1"}
	want := []string{"1", "2", "3-4", "3", "3.1", "3.2", "4"}

	ids := make([]ID, len(shuffled))
	for i, s := range shuffled {
		ids[i] = MustParseID(s)
	}
	slices.SortFunc(ids, CompareIDs)

	for i, id := range ids {
		if id.String() != want[i] {
			t.Fatalf("sorted[%d] = %s, want %s (full: %v)", i, id, want[i], ids)
		}
	}
}

func TestFormatIDs(t *testing.T) {
	if got := FormatIDs([]ID{{Major: 3}}); got != "3" {
		t.Errorf("singleton = %q, want %q", got, "3")
	}
	if got := FormatIDs([]ID{{Major: 3}, {Major: 5, Minor: 1}}); got != "3,5.1" {
		t.Errorf("pair = %q, want %q", got, "3,5.1")
	}
}
