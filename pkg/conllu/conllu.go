// Package conllu reads and writes the CoNLL-U treebank format: blank-line
// separated sentence blocks of ten tab-separated columns, preceded by
// verbatim "#" comment lines.
//
// See https://universaldependencies.org/format.html for the column contract.
// On output two trailing columns are added, DEEP:PRED and DEEP:ARGS, carrying
// the predicate-argument annotation.
package conllu

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mrijkeboer/udpas/pkg/graph"
)

const (
	// Empty is the CoNLL-U empty-column marker.
	Empty = "_"

	fieldSeparator = "\t"
	listSeparator  = "|"
	numFields      = 10
)

// Header is the comment line emitted before the first output sentence,
// declaring the extended column order.
const Header = "# global.columns = ID FORM LEMMA UPOS XPOS FEATS HEAD DEPREL DEPS MISC DEEP:PRED DEEP:ARGS"

var (
	// ErrColumnCount is returned for node lines that do not have exactly ten
	// tab-separated columns.
	ErrColumnCount = errors.New("node line must have 10 columns")

	// ErrBadDeps is returned for DEPS entries that are not head:relation.
	ErrBadDeps = errors.New("malformed DEPS entry")
)

// featName and featValue validate FEATS pairs. Pairs failing either side are
// warned about and dropped rather than aborting the sentence.
var (
	featName  = regexp.MustCompile(`^[A-Za-z\[\]]+$`)
	featValue = regexp.MustCompile(`^[A-Za-z0-9,]+$`)
)

// Row is one parsed node line. Head is nil for lines without a usable head
// reference (multiword token ranges).
type Row struct {
	ID    graph.ID
	Form  string
	Lemma string
	UPOS  string
	XPOS  string
	Feats map[string]string
	Head  *graph.ID
	Rel   string
	Deps  []graph.Dep
	Misc  []string
}

// Sentence is one parsed block: its comment lines, preserved verbatim, and
// its node rows in input order.
type Sentence struct {
	Comments []string
	Rows     []Row
}

// SentID extracts the "# sent_id = ..." comment value, or "" if absent.
// It is used to identify sentences in error messages and reports.
func (s *Sentence) SentID() string {
	for _, c := range s.Comments {
		rest, ok := strings.CutPrefix(c, "# sent_id")
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
		return rest
	}
	return ""
}

// parseValue maps the empty marker to "".
func parseValue(col string) string {
	if col == Empty {
		return ""
	}
	return col
}

// formatValue maps "" back to the empty marker.
func formatValue(v string) string {
	if v == "" {
		return Empty
	}
	return v
}

// ParseFeats parses a FEATS column into a feature map. Unparsable pairs are
// reported through warn (if non-nil) and dropped. A duplicate feature name
// keeps the last value, matching a plain map write.
func ParseFeats(col string, warn func(pair string)) map[string]string {
	if col == Empty || col == "" {
		return nil
	}
	feats := make(map[string]string)
	for _, pair := range strings.Split(col, listSeparator) {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || !featName.MatchString(name) || !featValue.MatchString(value) {
			if warn != nil {
				warn(pair)
			}
			continue
		}
		feats[name] = value
	}
	if len(feats) == 0 {
		return nil
	}
	return feats
}

// FormatFeats serializes a feature map, case-insensitively sorted by name.
func FormatFeats(feats map[string]string) string {
	if len(feats) == 0 {
		return Empty
	}
	pairs := make([]string, 0, len(feats))
	for name, value := range feats {
		pairs = append(pairs, name+"="+value)
	}
	sortCaseInsensitive(pairs)
	return strings.Join(pairs, listSeparator)
}

// ParseDeps parses a DEPS column into enhanced head references.
func ParseDeps(col string) ([]graph.Dep, error) {
	if col == Empty || col == "" {
		return nil, nil
	}
	entries := strings.Split(col, listSeparator)
	deps := make([]graph.Dep, 0, len(entries))
	for _, entry := range entries {
		headStr, rel, ok := strings.Cut(entry, ":")
		if !ok || rel == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadDeps, entry)
		}
		head, err := graph.ParseID(headStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadDeps, entry, err)
		}
		deps = append(deps, graph.Dep{Head: head, Relation: rel})
	}
	return deps, nil
}

// FormatDeps serializes the incoming enhanced edges of a node in edge order.
func FormatDeps(in []graph.Edge) string {
	if len(in) == 0 {
		return Empty
	}
	parts := make([]string, len(in))
	for i, e := range in {
		parts[i] = e.Other.String() + ":" + e.Relation
	}
	return strings.Join(parts, listSeparator)
}

// ParseMisc splits a MISC column into opaque tokens, order preserved.
func ParseMisc(col string) []string {
	if col == Empty || col == "" {
		return nil
	}
	return strings.Split(col, listSeparator)
}

// FormatMisc joins MISC tokens back into the column form.
func FormatMisc(misc []string) string {
	if len(misc) == 0 {
		return Empty
	}
	return strings.Join(misc, listSeparator)
}

// sortCaseInsensitive sorts in place by lowercased value, with the original
// value as tiebreaker so the order stays deterministic.
func sortCaseInsensitive(ss []string) {
	slices.SortFunc(ss, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
}
