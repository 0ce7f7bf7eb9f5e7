package queue

import (
	"fmt"

	"github.com/pbanos/cart/tree"
)

// Task represents a node to be grown on a tree.
type Task struct {
	// The parent the grown node will hang from,
	// nil for the root
	Parent *tree.NodeID
	// The slot of the parent the grown node will take
	Slot tree.ChildSlot
	// The positions of the training rows that reach
	// the node, nil meaning all of them
	Filter []int
	// The number of edges between the root and the node
	Depth int
	// The majority class of the parent, used to skip
	// leaves that would predict the same as it
	ParentClass int

	id string
}

// ID returns a string that identifies the
// task, assigned when first pushed to a queue.
func (t *Task) ID() string {
	return t.id
}

func (t *Task) String() string {
	if t.Parent == nil {
		return fmt.Sprintf("{Task %s root rows:%s}", t.id, t.rows())
	}
	return fmt.Sprintf("{Task %s %s child of %d depth:%d rows:%s}", t.id, t.Slot, *t.Parent, t.Depth, t.rows())
}

func (t *Task) rows() string {
	if t.Filter == nil {
		return "all"
	}
	return fmt.Sprint(len(t.Filter))
}
