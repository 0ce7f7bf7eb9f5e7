package tree

import "fmt"

// NodeID identifies a node inside a NodeStore. IDs are assigned
// sequentially starting at 0 for the root and are never reused.
type NodeID int

// ChildSlot names one of the two child positions of a node.
type ChildSlot int

const (
	// NoSlot is used when allocating a node that has no parent.
	NoSlot ChildSlot = iota
	// TrueSlot holds the child for rows whose value on the node's
	// column is greater than the node's threshold.
	TrueSlot
	// FalseSlot holds the child for every other row.
	FalseSlot
)

func (cs ChildSlot) String() string {
	switch cs {
	case TrueSlot:
		return "true"
	case FalseSlot:
		return "false"
	}
	return "none"
}

// Kind tells leaves apart from branches.
type Kind int

const (
	// Branch nodes were split and may have children.
	Branch Kind = iota
	// Leaf nodes terminate traversal.
	Leaf
)

func (k Kind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "branch"
}

/*
NodeData is the payload of a node.

MajorityClass is always set, on branches too, so that any node
lacking the child a row would follow can answer for it.
*/
type NodeData struct {
	Kind Kind
	// Column and Threshold define the split rule row[Column] > Threshold
	Column    int
	Threshold float64
	// Impurity is the weighted impurity achieved by the split, or
	// the impurity of the node's own rows when it was not split.
	Impurity      float64
	MajorityClass int
	// Samples is the number of training rows that reached the node
	Samples int
}

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID NodeID
	// The ID of the parent of the node, nil for the root
	Parent *NodeID
	// The ID of the node followed by rows satisfying the split rule
	TrueChild *NodeID
	// The ID of the node followed by rows not satisfying the split rule
	FalseChild *NodeID
	Data       NodeData
}

// IsLeaf returns whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Data.Kind == Leaf
}

// Child returns the ID held in the given slot, or nil.
func (n *Node) Child(slot ChildSlot) *NodeID {
	switch slot {
	case TrueSlot:
		return n.TrueChild
	case FalseSlot:
		return n.FalseChild
	}
	return nil
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("{leaf class=%d impurity=%.4f samples=%d}", n.Data.MajorityClass, n.Data.Impurity, n.Data.Samples)
	}
	return fmt.Sprintf("{x[%d] > %g impurity=%.4f class=%d samples=%d}", n.Data.Column, n.Data.Threshold, n.Data.Impurity, n.Data.MajorityClass, n.Data.Samples)
}

func idPtr(id NodeID) *NodeID {
	return &id
}
