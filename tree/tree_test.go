package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree returns the tree
//
//	[0] x[0] > 2 (class 0)
//	 |__ true  [1] x[1] > 10 (class 1)
//	 |          |__ true [2] leaf class 2
//	 |__ false [3] leaf class 3
func buildTree(t *testing.T) *Tree {
	t.Helper()
	ctx := context.Background()
	tr := New(NewMemoryNodeStore())
	allocate := func(data NodeData, parent *NodeID, slot ChildSlot) NodeID {
		id, err := tr.Allocate(ctx, data, parent, slot)
		require.NoError(t, err)
		return id
	}
	root := allocate(NodeData{Column: 0, Threshold: 2, MajorityClass: 0, Samples: 10}, nil, NoSlot)
	branch := allocate(NodeData{Column: 1, Threshold: 10, MajorityClass: 1, Samples: 6}, idPtr(root), TrueSlot)
	allocate(NodeData{Kind: Leaf, MajorityClass: 2, Samples: 2}, idPtr(branch), TrueSlot)
	allocate(NodeData{Kind: Leaf, MajorityClass: 3, Samples: 4}, idPtr(root), FalseSlot)
	tr.Label = "class"
	tr.Columns = []string{"a", "b"}
	return tr
}

func TestTraverse(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)
	var topdown, bottomup []NodeID
	require.NoError(t, tr.Traverse(ctx, false, func(ctx context.Context, n *Node) error {
		topdown = append(topdown, n.ID)
		return nil
	}))
	require.NoError(t, tr.Traverse(ctx, true, func(ctx context.Context, n *Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	}))
	assert.Equal(t, []NodeID{0, 1, 2, 3}, topdown)
	assert.Equal(t, []NodeID{2, 1, 3, 0}, bottomup)

	depth, err := tr.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src := buildTree(t)
	dst := NewMemoryNodeStore()
	copied, err := Copy(ctx, dst, src)
	require.NoError(t, err)
	assert.Equal(t, 4, copied)
	for i := 0; i < copied; i++ {
		expected, err := src.Get(ctx, NodeID(i))
		require.NoError(t, err)
		got, err := dst.Get(ctx, NodeID(i))
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}

	_, err = Copy(ctx, dst, src)
	assert.Error(t, err, "copying onto a non empty store must fail")
}

func TestString(t *testing.T) {
	s := buildTree(t).String()
	assert.True(t, strings.HasPrefix(s, "[0]\n{ {x[0] > 2 "), s)
	assert.Contains(t, s, "[1] true")
	assert.Contains(t, s, "[3] false")
	assert.Contains(t, s, "{leaf class=2 ")
}
