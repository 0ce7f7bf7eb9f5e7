/*
Package graphviz renders trees as graphs with graphviz, to inspect
the splits a tree was grown with.
*/
package graphviz

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gv "github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pbanos/cart/tree"
)

var formats = map[string]gv.Format{
	"dot": gv.XDOT,
	"png": gv.PNG,
	"svg": gv.SVG,
	"jpg": gv.JPG,
}

// FormatFor takes a format name or a file path and returns the
// graphviz format for it, based on the extension for paths.
func FormatFor(name string) (gv.Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		ext = name
	}
	f, ok := formats[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("unknown graph format %q", ext)
	}
	return f, nil
}

/*
Draw takes a context and a tree and returns a graphviz graph with a
node for every node on the tree. Leaves are drawn as boxes and edges
are labeled with the outcome of the split rule they follow.
Callers must close both the returned graph and graphviz.
*/
func Draw(ctx context.Context, t *tree.Tree) (*gv.Graphviz, *cgraph.Graph, error) {
	g := gv.New()
	graph, err := g.Graph()
	if err != nil {
		g.Close()
		return nil, nil, err
	}
	err = drawNode(ctx, graph, t, tree.RootID, nil, "")
	if err != nil {
		graph.Close()
		g.Close()
		return nil, nil, err
	}
	return g, graph, nil
}

/*
Render takes a context, a tree, a format name (dot, png, svg or jpg)
and an io.Writer, and writes the tree drawn by Draw onto the writer
in the given format.
*/
func Render(ctx context.Context, t *tree.Tree, format string, w io.Writer) error {
	f, err := FormatFor(format)
	if err != nil {
		return err
	}
	g, graph, err := Draw(ctx, t)
	if err != nil {
		return err
	}
	defer g.Close()
	defer graph.Close()
	return g.Render(graph, f, w)
}

// RenderFile renders the tree onto the file at the given path in the
// format given by its extension.
func RenderFile(ctx context.Context, t *tree.Tree, path string) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	g, graph, err := Draw(ctx, t)
	if err != nil {
		return err
	}
	defer g.Close()
	defer graph.Close()
	return g.RenderFilename(graph, f, path)
}

func drawNode(ctx context.Context, graph *cgraph.Graph, t *tree.Tree, id tree.NodeID, parent *cgraph.Node, edgeLabel string) error {
	n, err := t.Get(ctx, id)
	if err != nil {
		return err
	}
	current, err := graph.CreateNode(fmt.Sprint(id))
	if err != nil {
		return err
	}
	if parent != nil {
		e, err := graph.CreateEdge("", parent, current)
		if err != nil {
			return err
		}
		e.SetLabel(edgeLabel)
	}
	if n.IsLeaf() {
		current.Set("label", fmt.Sprintf("class=%d\nsamples=%d", n.Data.MajorityClass, n.Data.Samples))
		current.Set("shape", "box")
		return nil
	}
	current.Set("label", fmt.Sprintf("%s > %g\nimpurity=%.3f\nclass=%d\nsamples=%d", columnName(t, n.Data.Column), n.Data.Threshold, n.Data.Impurity, n.Data.MajorityClass, n.Data.Samples))
	if n.TrueChild != nil {
		err = drawNode(ctx, graph, t, *n.TrueChild, current, "true")
		if err != nil {
			return err
		}
	}
	if n.FalseChild != nil {
		return drawNode(ctx, graph, t, *n.FalseChild, current, "false")
	}
	return nil
}

func columnName(t *tree.Tree, col int) string {
	if col < len(t.Columns) && t.Columns[col] != "" {
		return t.Columns[col]
	}
	return fmt.Sprintf("x[%d]", col)
}
