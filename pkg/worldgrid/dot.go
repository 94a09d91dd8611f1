package worldgrid

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the anchor graph.
//
// Tiles become nodes and anchors become directed edges. Global-frame tiles
// are drawn as filled boxes so the sinks of the graph stand out; everything
// else is an ellipse. Nodes are emitted in sorted key order so the output is
// deterministic and diffable.
//
// The DOT text can be rendered with Graphviz tools (dot, neato, ...) or
// programmatically with [Transformer.RenderSVG].
func (t *Transformer) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph anchors {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12];\n\n")

	keys := make([]TileKey, 0, len(t.anchors))
	seen := make(map[TileKey]bool, len(t.anchors))
	for k := range t.anchors {
		keys = append(keys, k)
		seen[k] = true
	}
	// Destination-only tiles still need node declarations.
	for _, list := range t.anchors {
		for _, a := range list {
			if !seen[a.Dst] {
				seen[a.Dst] = true
				keys = append(keys, a.Dst)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].MapID() < keys[j].MapID() })

	for _, k := range keys {
		if k.IsGlobal() {
			fmt.Fprintf(&buf, "  %q [shape=box, style=filled, fillcolor=lightblue];\n", k.String())
		} else {
			fmt.Fprintf(&buf, "  %q [shape=ellipse];\n", k.String())
		}
	}
	buf.WriteString("\n")

	for _, k := range keys {
		for _, a := range t.anchors[k] {
			fmt.Fprintf(&buf, "  %q -> %q;\n", k.String(), a.Dst.String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the anchor graph as an SVG image via Graphviz.
//
// RenderSVG requires the Graphviz library (github.com/goccy/go-graphviz).
// Errors are returned if Graphviz cannot initialize, the DOT is malformed,
// or rendering fails; all are wrapped with %w for errors.Is/Unwrap.
func (t *Transformer) RenderSVG(ctx context.Context) ([]byte, error) {
	dot := t.ToDOT()

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
