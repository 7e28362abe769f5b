package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mrijkeboer/udpas/pkg/graph"
)

// Reader scans blank-line separated sentence blocks from a CoNLL-U stream.
//
// Recoverable anomalies (unparsable FEATS pairs) are reported through Warn
// and dropped; structural problems (wrong column count, malformed ids or
// DEPS) fail the Next call for that sentence.
type Reader struct {
	scanner *bufio.Scanner
	line    int

	// Warn, if non-nil, receives recoverable anomalies as (kind, context)
	// pairs, e.g. ("feats-unparsable", "line 12: Foo~Bar").
	Warn func(kind, context string)
}

// NewReader wraps r. Lines up to one megabyte are supported, which is far
// beyond any treebank line in practice.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next sentence block, or io.EOF after the last one.
// A parse error aborts only the offending sentence: the reader has already
// consumed the whole block, so the caller may skip it and call Next again.
func (r *Reader) Next() (*Sentence, error) {
	sent := &Sentence{}
	var parseErr error
	inBlock := false

	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if inBlock {
				break // end of block; keep draining errors below
			}
			continue // leading blank lines between sentences
		}
		inBlock = true
		if strings.HasPrefix(line, "#") {
			sent.Comments = append(sent.Comments, line)
			continue
		}
		if parseErr != nil {
			continue // drain the rest of a broken block
		}
		row, err := r.parseRow(line)
		if err != nil {
			parseErr = err
			continue
		}
		sent.Rows = append(sent.Rows, row)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if parseErr != nil {
		return sent, parseErr
	}
	if !inBlock {
		return nil, io.EOF
	}
	return sent, nil
}

// Line returns the number of the last input line consumed, for error context.
func (r *Reader) Line() int { return r.line }

func (r *Reader) parseRow(line string) (Row, error) {
	cols := strings.Split(line, fieldSeparator)
	if len(cols) != numFields {
		return Row{}, fmt.Errorf("line %d: %w (got %d)", r.line, ErrColumnCount, len(cols))
	}

	id, err := graph.ParseID(cols[0])
	if err != nil {
		return Row{}, fmt.Errorf("line %d: %w", r.line, err)
	}

	row := Row{
		ID:    id,
		Form:  parseValue(cols[1]),
		Lemma: parseValue(cols[2]),
		UPOS:  parseValue(cols[3]),
		XPOS:  parseValue(cols[4]),
		Rel:   parseValue(cols[7]),
		Misc:  ParseMisc(cols[9]),
	}

	row.Feats = ParseFeats(cols[5], func(pair string) {
		if r.Warn != nil {
			r.Warn("feats-unparsable", fmt.Sprintf("line %d: %s", r.line, pair))
		}
	})

	if cols[6] != Empty && cols[6] != "" {
		head, err := graph.ParseID(cols[6])
		if err != nil {
			return Row{}, fmt.Errorf("line %d: head: %w", r.line, err)
		}
		row.Head = &head
	}

	row.Deps, err = ParseDeps(cols[8])
	if err != nil {
		return Row{}, fmt.Errorf("line %d: %w", r.line, err)
	}

	return row, nil
}

// BuildStore turns a parsed sentence into a linked graph store: all nodes
// added first, then the basic tree, then the enhanced edge index. Duplicate
// enhanced edges are dropped and reported through warn; structural errors
// (duplicate ids, unknown heads, self-attachment, cycles) abort with the
// offending ids in the message.
func BuildStore(sent *Sentence, warn func(kind, context string)) (*graph.Store, error) {
	store := graph.NewStore()
	store.Comments = sent.Comments

	nodes := make([]*graph.Node, len(sent.Rows))
	for i, row := range sent.Rows {
		n := &graph.Node{
			ID:    row.ID,
			Form:  row.Form,
			Lemma: row.Lemma,
			UPOS:  row.UPOS,
			XPOS:  row.XPOS,
			Feats: row.Feats,
			Misc:  row.Misc,
		}
		if err := store.AddNode(n); err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	for i, row := range sent.Rows {
		if row.Head == nil {
			graph.DetachedBasic(nodes[i], Empty)
			continue
		}
		if err := graph.AttachBasic(store, nodes[i], *row.Head, row.Rel); err != nil {
			return nil, err
		}
	}

	for i, row := range sent.Rows {
		onDup := func(head graph.ID, relation string) {
			if warn != nil {
				warn("deps-duplicate", fmt.Sprintf("%s:%s on %s", head, relation, row.ID))
			}
		}
		if err := graph.IndexEnhanced(store, nodes[i], row.Deps, onDup); err != nil {
			return nil, err
		}
	}

	return store, nil
}
