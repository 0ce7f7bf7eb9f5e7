package tree

import (
	"context"
	"fmt"
	"strings"
)

// RootID is the ID of the root node of every tree.
const RootID NodeID = 0

// Tree represents a binary classification tree. It is
// composed of the NodeStore where all its nodes are stored
// (the root node is always the one with RootID), the name
// of the label it predicts and the names of the columns
// of the rows it classifies.
type Tree struct {
	NodeStore
	Label   string
	Columns []string
}

// New takes a NodeStore and returns a tree composed of the nodes
// in it connected to the node with RootID.
func New(nodeStore NodeStore) *Tree {
	return &Tree{NodeStore: nodeStore}
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. The true
// child is always visited before the false one.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.NodeStore.Get(ctx, RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	for _, c := range []*NodeID{n.TrueChild, n.FalseChild} {
		if c == nil {
			continue
		}
		cn, err := t.NodeStore.Get(ctx, *c)
		if err != nil {
			return err
		}
		err = t.traverse(ctx, cn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Depth returns the number of edges on the longest path from the
// root to a node.
func (t *Tree) Depth(ctx context.Context) (int, error) {
	depths := make(map[NodeID]int)
	var max int
	err := t.Traverse(ctx, false, func(ctx context.Context, n *Node) error {
		if n.Parent != nil {
			depths[n.ID] = depths[*n.Parent] + 1
		}
		if depths[n.ID] > max {
			max = depths[n.ID]
		}
		return nil
	})
	return max, err
}

/*
Copy takes a context, a source and a destination NodeStore and
allocates every node of the source into the destination in ID
order. Since a child always has a greater ID than its parent, a
destination that starts empty ends up holding the same nodes under
the same IDs. It returns the number of copied nodes or an error.
*/
func Copy(ctx context.Context, dst, src NodeStore) (int, error) {
	l, err := src.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("copying tree: %w", err)
	}
	for i := 0; i < l; i++ {
		n, err := src.Get(ctx, NodeID(i))
		if err != nil {
			return i, fmt.Errorf("copying tree: %w", err)
		}
		slot := NoSlot
		if n.Parent != nil {
			p, err := src.Get(ctx, *n.Parent)
			if err != nil {
				return i, fmt.Errorf("copying tree: %w", err)
			}
			switch {
			case p.TrueChild != nil && *p.TrueChild == n.ID:
				slot = TrueSlot
			case p.FalseChild != nil && *p.FalseChild == n.ID:
				slot = FalseSlot
			default:
				return i, fmt.Errorf("copying tree: node %d is not linked from its parent %d", n.ID, *n.Parent)
			}
		}
		id, err := dst.Allocate(ctx, n.Data, n.Parent, slot)
		if err != nil {
			return i, fmt.Errorf("copying tree: %w", err)
		}
		if id != n.ID {
			return i + 1, fmt.Errorf("copying tree: node %d stored as %d, destination store was not empty", n.ID, id)
		}
	}
	return l, nil
}

func (t *Tree) String() string {
	return t.subtreeString(RootID, "")
}

func (t *Tree) subtreeString(nodeID NodeID, label string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	result := fmt.Sprintf("[%d]%s\n{ %v }\n", nodeID, label, n)
	children := []struct {
		id    *NodeID
		label string
	}{{n.TrueChild, " true"}, {n.FalseChild, " false"}}
	var present int
	for _, c := range children {
		if c.id != nil {
			present++
		}
	}
	if present > 0 {
		result = fmt.Sprintf("%s|\n", result)
	}
	for _, c := range children {
		if c.id == nil {
			continue
		}
		present--
		for j, line := range strings.Split(t.subtreeString(*c.id, c.label), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else if present == 0 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
	}
	return result
}
