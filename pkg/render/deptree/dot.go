// Package deptree renders annotated sentence graphs as Graphviz diagrams.
//
// The basic tree is drawn with solid edges, enhanced edges that are not part
// of the tree are dashed, and assigned argument roles are overlaid in color.
package deptree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mrijkeboer/udpas/pkg/graph"
	"github.com/mrijkeboer/udpas/pkg/pas"
)

// Options configures dependency diagram rendering.
type Options struct {
	// ShowEnhanced draws enhanced edges that have no basic-tree counterpart.
	ShowEnhanced bool
	// ShowArguments overlays predicate-to-argument role edges.
	ShowArguments bool
}

// ToDOT converts an annotated sentence graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(store *graph.Store, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	buf.WriteString("  \"0\" [label=\"ROOT\", fillcolor=lightgrey];\n")
	for n := range store.OrderedNodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for n := range store.OrderedNodes() {
		if n.BasicParent != nil {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
				n.BasicParent.String(), n.ID.String(), n.BasicRelation)
		}
		if opts.ShowEnhanced {
			for _, e := range n.In {
				if isBasic(n, e) {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed, color=grey40, fontcolor=grey40];\n",
					e.Other.String(), n.ID.String(), e.Relation)
			}
		}
	}

	if opts.ShowArguments {
		buf.WriteString("\n")
		for n := range store.OrderedNodes() {
			for _, a := range n.Arguments {
				for _, t := range a.Targets {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=firebrick, fontcolor=firebrick, constraint=false];\n",
						n.ID.String(), t.String(), a.Role)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *graph.Node) []string {
	label := n.Form
	if n.UPOS != "" {
		label += "\n" + n.UPOS
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.PredicateID != "" && n.PredicateID != pas.NoPredicate {
		attrs = append(attrs, "fillcolor=lightyellow", fmt.Sprintf("xlabel=%q", n.PredicateID))
	}
	return attrs
}

// isBasic reports whether the enhanced edge mirrors the basic attachment.
func isBasic(n *graph.Node, e graph.Edge) bool {
	return n.BasicParent != nil && *n.BasicParent == e.Other && n.BasicRelation == e.Relation
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
