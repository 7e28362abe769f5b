package conllu

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mrijkeboer/udpas/pkg/graph"
)

// Writer serializes annotated sentences back to CoNLL-U, with the DEEP:PRED
// and DEEP:ARGS columns appended to every node line. The first sentence is
// preceded by a header comment declaring the extended column order.
type Writer struct {
	w *bufio.Writer

	// Debug switches to the wide diagnostic rendering: the argument pattern
	// gets its own trailing column and FORM, LEMMA and DEEP:PRED are
	// right-padded per sentence for fixed-width alignment. The logical
	// content is unchanged.
	Debug bool

	wroteHeader bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteSentence emits one sentence block followed by a blank line.
func (w *Writer) WriteSentence(store *graph.Store) error {
	if !w.wroteHeader {
		if _, err := fmt.Fprintln(w.w, Header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	for _, c := range store.Comments {
		if _, err := fmt.Fprintln(w.w, c); err != nil {
			return err
		}
	}

	var pad padWidths
	if w.Debug {
		pad = measure(store)
	}
	for n := range store.OrderedNodes() {
		if _, err := fmt.Fprintln(w.w, w.formatNode(n, pad)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w.w)
	return err
}

// Flush writes any buffered output to the underlying writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// padWidths holds per-sentence column widths for the debug rendering.
type padWidths struct{ form, lemma, pred int }

func measure(store *graph.Store) padWidths {
	var p padWidths
	for n := range store.OrderedNodes() {
		p.form = max(p.form, len(formatValue(n.Form)))
		p.lemma = max(p.lemma, len(formatValue(n.Lemma)))
		p.pred = max(p.pred, len(formatValue(n.PredicateID)))
	}
	return p
}

func rightPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (w *Writer) formatNode(n *graph.Node, pad padWidths) string {
	head := Empty
	if n.BasicParent != nil {
		head = n.BasicParent.String()
	}

	form := formatValue(n.Form)
	lemma := formatValue(n.Lemma)
	pred := formatValue(n.PredicateID)
	if w.Debug {
		form = rightPad(form, pad.form)
		lemma = rightPad(lemma, pad.lemma)
		pred = rightPad(pred, pad.pred)
	}

	cols := []string{
		n.ID.String(),
		form,
		lemma,
		formatValue(n.UPOS),
		formatValue(n.XPOS),
		FormatFeats(n.Feats),
		head,
		formatValue(n.BasicRelation),
		FormatDeps(n.In),
		FormatMisc(n.Misc),
		pred,
		FormatArgs(n.Arguments),
	}
	if w.Debug {
		cols = append(cols, formatValue(n.ArgumentPattern))
	}
	return strings.Join(cols, fieldSeparator)
}

// FormatArgs renders the DEEP:ARGS column: each argument as role:id (a
// singleton target set collapses to a bare id, larger sets are comma-joined),
// arguments joined by "|", or the empty marker when there are none.
func FormatArgs(args []graph.Argument) string {
	if len(args) == 0 {
		return Empty
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Role + ":" + graph.FormatIDs(a.Targets)
	}
	return strings.Join(parts, listSeparator)
}
