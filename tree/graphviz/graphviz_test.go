package graphviz

import (
	"bytes"
	"context"
	"testing"

	gv "github.com/goccy/go-graphviz"
	"github.com/pbanos/cart/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("tree.svg")
	require.NoError(t, err)
	assert.Equal(t, gv.SVG, f)
	f, err = FormatFor("PNG")
	require.NoError(t, err)
	assert.Equal(t, gv.PNG, f)
	_, err = FormatFor("tree.gif")
	assert.Error(t, err)
}

func TestRenderDot(t *testing.T) {
	ctx := context.Background()
	tr := tree.New(tree.NewMemoryNodeStore())
	root, err := tr.Allocate(ctx, tree.NodeData{Column: 0, Threshold: 2, MajorityClass: 0, Samples: 3}, nil, tree.NoSlot)
	require.NoError(t, err)
	_, err = tr.Allocate(ctx, tree.NodeData{Kind: tree.Leaf, MajorityClass: 1, Samples: 1}, &root, tree.TrueSlot)
	require.NoError(t, err)
	tr.Columns = []string{"petal_length"}

	buf := &bytes.Buffer{}
	require.NoError(t, Render(ctx, tr, "dot", buf))
	assert.Contains(t, buf.String(), "petal_length > 2")
	assert.Contains(t, buf.String(), "class=1")
}
