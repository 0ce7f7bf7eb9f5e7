package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/cart/tree"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
a NodeEncodeDecoder and an io.Writer and serializes the given tree
as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "label": a string with the name of the label the tree predicts
* "columns": an array with the names of the columns of classified rows
* "nodes": an array containing the nodes of the tree in ID order
  serialized by the given NodeEncodeDecoder.
An error is returned if the nodes cannot be retrieved, serialized or
written onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, w io.Writer) error {
	err := marshalJSONTreeHeader(ctx, t, w)
	if err != nil {
		return err
	}
	l, err := t.Len(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < l; i++ {
		n, err := t.Get(ctx, tree.NodeID(i))
		if err != nil {
			return err
		}
		err = writeNode(ctx, i, n, ned, w)
		if err != nil {
			return err
		}
	}
	return marshalJSONTreeFooter(ctx, t, w)
}

/*
ReadJSONTree takes a context.Context, a pointer to a tree.Tree with
an empty NodeStore, a NodeEncodeDecoder and an io.Reader and
unmarshals the contents of the io.Reader onto the given tree.
The JSON is expected to be in the format produced by WriteJSONTree.
Nodes are allocated on the tree's NodeStore in ID order, so an error
is returned if the IDs are not consecutive from 0 or a node does not
reference a parent that links back to it.
*/
func ReadJSONTree(ctx context.Context, t *tree.Tree, ned NodeEncodeDecoder, r io.Reader) error {
	dec := json.NewDecoder(r)
	jt := &struct {
		Label   string             `json:"label"`
		Columns []string           `json:"columns"`
		Nodes   []*json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return err
	}
	if len(jt.Nodes) == 0 {
		return fmt.Errorf("no nodes available")
	}
	nodes := make([]*tree.Node, 0, len(jt.Nodes))
	for i, jn := range jt.Nodes {
		if jn == nil {
			return fmt.Errorf("node %d is null", i)
		}
		n, err := ned.Decode(*jn)
		if err != nil {
			return fmt.Errorf("decoding node %d: %v", i, err)
		}
		if int(n.ID) != i {
			return fmt.Errorf("node at position %d has id %d", i, n.ID)
		}
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		slot := tree.NoSlot
		if n.Parent != nil {
			if int(*n.Parent) >= int(n.ID) || *n.Parent < 0 {
				return fmt.Errorf("node %d has invalid parent %d", n.ID, *n.Parent)
			}
			p := nodes[*n.Parent]
			switch {
			case p.TrueChild != nil && *p.TrueChild == n.ID:
				slot = tree.TrueSlot
			case p.FalseChild != nil && *p.FalseChild == n.ID:
				slot = tree.FalseSlot
			default:
				return fmt.Errorf("node %d is not linked from its parent %d", n.ID, *n.Parent)
			}
		} else if n.ID != tree.RootID {
			return fmt.Errorf("node %d has no parent", n.ID)
		}
		id, err := t.Allocate(ctx, n.Data, n.Parent, slot)
		if err != nil {
			return err
		}
		if id != n.ID {
			return fmt.Errorf("node %d stored as %d", n.ID, id)
		}
	}
	t.Label = jt.Label
	t.Columns = jt.Columns
	return nil
}

func marshalJSONTreeHeader(ctx context.Context, t *tree.Tree, w io.Writer) error {
	jLabel, err := json.Marshal(t.Label)
	if err != nil {
		return err
	}
	columns := t.Columns
	if columns == nil {
		columns = []string{}
	}
	jColumns, err := json.Marshal(columns)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"label":%s,"columns":%s,"nodes":[`, jLabel, jColumns)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(ctx context.Context, i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

func marshalJSONTreeFooter(ctx context.Context, t *tree.Tree, w io.Writer) error {
	_, err := w.Write([]byte("]}\n"))
	return err
}
