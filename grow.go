package cart

import (
	"context"
	"fmt"

	"github.com/pbanos/cart/feature"
	"github.com/pbanos/cart/queue"
	"github.com/pbanos/cart/tree"
	"go.uber.org/zap"
)

// grower holds everything needed to grow a tree out of a
// training matrix.
type grower struct {
	cfg        Config
	rows       [][]float64
	targets    []int
	candidates []feature.Candidate
	stopper    Stopper
	t          *tree.Tree
	logger     *zap.Logger
}

// seed pushes the task to grow the root of the tree to the queue.
func (g *grower) seed(ctx context.Context, q queue.Queue) error {
	return q.Push(ctx, &queue.Task{Slot: tree.NoSlot})
}

/*
branchOut takes a context and a task and grows the node in the task
on the grower's tree. It returns the tasks to grow the children of
the node, the false child task first, or an error.

The node becomes a leaf when the grower's stopper says so or when
the best split leaves one of its branches without rows. A leaf
predicting the same class as its parent is not stored, since
classification falls back to the parent's class when a child is
missing.
*/
func (g *grower) branchOut(ctx context.Context, task *queue.Task) ([]*queue.Task, error) {
	positions := subset(task.Filter, len(g.rows))
	labels := labelsAt(g.targets, positions)
	data := tree.NodeData{
		Kind:          tree.Leaf,
		Impurity:      g.cfg.Loss.Impurity(labels),
		MajorityClass: MajorityClass(labels),
		Samples:       len(labels),
	}
	var split *EvaluatedSplit
	if !g.stopper.Stop(task.Depth, labels) {
		candidates := g.candidates
		if g.cfg.Candidates == PerNodeCandidates {
			var err error
			candidates, err = feature.CandidatesFor(g.rows, task.Filter, g.cfg.candidateOptions())
			if err != nil {
				return nil, err
			}
		}
		var err error
		split, err = PickBest(ctx, candidates, g.rows, g.targets, task.Filter, g.cfg.Loss, g.cfg.Concurrency)
		if err != nil {
			return nil, err
		}
		if split == nil {
			return nil, fmt.Errorf("growing %v from %d candidates: %w", task, len(candidates), ErrInsufficientData)
		}
		if split.Degenerate() {
			g.logger.Debug("best split leaves a branch empty", zap.Stringer("task", task), zap.Stringer("split", split))
			split = nil
		} else {
			data.Kind = tree.Branch
			data.Column = split.Column
			data.Threshold = split.Threshold
			data.Impurity = split.Impurity
			data.MajorityClass = split.MajorityClass
		}
	}
	if split == nil && task.Parent != nil && data.MajorityClass == task.ParentClass {
		g.logger.Debug("skipping leaf with parent class", zap.Stringer("task", task), zap.Int("class", data.MajorityClass))
		return nil, nil
	}
	id, err := g.t.Allocate(ctx, data, task.Parent, task.Slot)
	if err != nil {
		return nil, fmt.Errorf("storing node for %v: %w", task, err)
	}
	nodesAllocated.Inc()
	if split == nil {
		g.logger.Debug("grown leaf", zap.Int("id", int(id)), zap.Int("class", data.MajorityClass), zap.Int("samples", data.Samples))
		return nil, nil
	}
	g.logger.Debug("grown branch", zap.Int("id", int(id)), zap.Stringer("split", split))
	childTask := func(slot tree.ChildSlot, filter []int) *queue.Task {
		parent := id
		return &queue.Task{
			Parent:      &parent,
			Slot:        slot,
			Filter:      filter,
			Depth:       task.Depth + 1,
			ParentClass: data.MajorityClass,
		}
	}
	return []*queue.Task{
		childTask(tree.FalseSlot, split.FalseRows),
		childTask(tree.TrueSlot, split.TrueRows),
	}, nil
}

/*
work takes a context and a queue and enters a loop in which it:
  * pulls a task from the queue
  * branches its node out using branchOut
  * pushes the tasks for the children into the queue
  * marks the task as completed on the queue

Since the queue hands out the last pushed task first, the true child
of a node and all its descendants are grown before its false child.
work returns when no tasks are left, or with an error if the context
is done or a task cannot be processed.
*/
func (g *grower) work(ctx context.Context, q queue.Queue) error {
	for {
		task, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			return nil
		}
		err = g.workTask(ctx, task, q)
		if err != nil {
			return err
		}
	}
}

func (g *grower) workTask(ctx context.Context, task *queue.Task, q queue.Queue) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	tasks, err := g.branchOut(ctx, task)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}
