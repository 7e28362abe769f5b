package graph

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a node within one sentence. CoNLL-U uses three id shapes:
//
//   - plain words: "7" (Major=7)
//   - empty nodes: "7.2" (Major=7, Minor=2, Minor > 0)
//   - multiword token ranges: "7-8" (Major=7, Major2=8)
//
// The zero value is the sentinel root id "0".
type ID struct {
	Major  int // word index, 0 for the root
	Minor  int // empty-node index, 0 for non-empty-node ids
	Major2 int // end of a multiword range, 0 when not a range
}

// Root is the sentinel root id. It owns the tree heads of a sentence but is
// never iterated and never bears a predicate.
var Root = ID{}

// ParseID parses a CoNLL-U id column value.
// It returns ErrBadID for anything that is not a word id, an empty-node id
// with a positive minor part, or a multiword range with end > start.
func ParseID(s string) (ID, error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		major, err1 := strconv.Atoi(s[:i])
		major2, err2 := strconv.Atoi(s[i+1:])
		if err1 != nil || err2 != nil || major < 1 || major2 <= major {
			return ID{}, fmt.Errorf("%w: %q", ErrBadID, s)
		}
		return ID{Major: major, Major2: major2}, nil
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		major, err1 := strconv.Atoi(s[:i])
		minor, err2 := strconv.Atoi(s[i+1:])
		if err1 != nil || err2 != nil || major < 0 || minor < 1 {
			return ID{}, fmt.Errorf("%w: %q", ErrBadID, s)
		}
		return ID{Major: major, Minor: minor}, nil
	}
	major, err := strconv.Atoi(s)
	if err != nil || major < 0 {
		return ID{}, fmt.Errorf("%w: %q", ErrBadID, s)
	}
	return ID{Major: major}, nil
}

// MustParseID is ParseID for static ids in tests and examples; it panics on
// malformed input.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String renders the id in its CoNLL-U column form.
func (id ID) String() string {
	switch {
	case id.Major2 > 0:
		return strconv.Itoa(id.Major) + "-" + strconv.Itoa(id.Major2)
	case id.Minor > 0:
		return strconv.Itoa(id.Major) + "." + strconv.Itoa(id.Minor)
	default:
		return strconv.Itoa(id.Major)
	}
}

// IsRoot reports whether the id is the sentinel root.
func (id ID) IsRoot() bool { return id == Root }

// IsEmptyNode reports whether the id denotes an enhanced-graph empty node.
func (id ID) IsEmptyNode() bool { return id.Minor > 0 }

// IsMultiword reports whether the id denotes a multiword token range.
func (id ID) IsMultiword() bool { return id.Major2 > 0 }

// Compare orders ids the way they appear in a sentence. The order is total:
// primary by Major, secondary by Minor (0 for non-empty-node ids), and a
// multiword range sorts strictly before any non-range id with the same
// Major. So "3-4" < "3" < "3.1" < "3.2" < "4".
func (id ID) Compare(other ID) int {
	if id.Major != other.Major {
		if id.Major < other.Major {
			return -1
		}
		return 1
	}
	if id.Minor != other.Minor {
		if id.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if id.IsMultiword() != other.IsMultiword() {
		if id.IsMultiword() {
			return -1
		}
		return 1
	}
	// Distinct ranges starting at the same word cannot coexist in a valid
	// sentence, but the order must stay total regardless.
	switch {
	case id.Major2 < other.Major2:
		return -1
	case id.Major2 > other.Major2:
		return 1
	default:
		return 0
	}
}

// CompareIDs is a cmp function for use with the slices package.
func CompareIDs(a, b ID) int { return a.Compare(b) }

// FormatIDs renders a set of target ids: a singleton collapses to the bare
// id, multiple ids are comma-joined in order.
func FormatIDs(ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
