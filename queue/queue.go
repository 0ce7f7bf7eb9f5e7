package queue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Queue represents a queue where tasks to grow tree
// nodes can be pushed and pulled. The idea is a worker
// will use the Pull method to obtain a task. It will
// start processing it and will then either complete it
// or drop it halfway.
//
// All its methods have a context.Context as first
// parameter that implementations may use to allow
// timeouts and cancellations on the Queue operations.
type Queue interface {
	// Push takes a task and stores it in the queue or
	// returns an error. The task will count as pending.
	Push(context.Context, *Task) error
	// Pull returns a task or an error. The pulled task
	// will be counted as running from then on.
	// If there are no tasks to pull, implementations
	// should not return an error, but 2 nil values.
	Pull(context.Context) (*Task, error)
	// Drop takes the ID for a task an makes it available
	// for pulling from the Queue again, unless it has
	// been previously completed.
	Drop(context.Context, string) error
	// Complete takes the ID for a task. Implementations
	// should remove the task from the running state.
	Complete(context.Context, string) error
	// Count returns the number of
	// pending and running tasks in the queue
	// or an error
	Count(context.Context) (int, int, error)
}

type memStack struct {
	pendingTasks []*Task
	runningTasks map[string]*Task
	lastID       int
	lock         *sync.Mutex
}

// New returns a queue backed only by the process memory
// that returns pending tasks in last in, first out order.
func New() Queue {
	return &memStack{
		runningTasks: make(map[string]*Task),
		lock:         &sync.Mutex{},
	}
}

func (ms *memStack) Push(ctx context.Context, t *Task) error {
	if t == nil {
		return fmt.Errorf("pushing nil task")
	}
	return ms.withLock(ctx, func(ctx context.Context) error {
		if t.id == "" {
			ms.lastID++
			t.id = strconv.Itoa(ms.lastID)
		}
		ms.pendingTasks = append(ms.pendingTasks, t)
		return nil
	})
}

func (ms *memStack) Pull(ctx context.Context) (*Task, error) {
	var task *Task
	err := ms.withLock(ctx, func(ctx context.Context) error {
		last := len(ms.pendingTasks) - 1
		if last < 0 {
			return nil
		}
		task = ms.pendingTasks[last]
		ms.pendingTasks[last] = nil
		ms.pendingTasks = ms.pendingTasks[:last]
		ms.runningTasks[task.id] = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (ms *memStack) Drop(ctx context.Context, id string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		t, ok := ms.runningTasks[id]
		if !ok {
			return nil
		}
		delete(ms.runningTasks, id)
		ms.pendingTasks = append(ms.pendingTasks, t)
		return nil
	})
}

func (ms *memStack) Complete(ctx context.Context, id string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.runningTasks, id)
		return nil
	})
}

func (ms *memStack) Count(ctx context.Context) (int, int, error) {
	var pending, running int
	err := ms.withLock(ctx, func(ctx context.Context) error {
		pending = len(ms.pendingTasks)
		running = len(ms.runningTasks)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return pending, running, nil
}

func (ms *memStack) String() string {
	return fmt.Sprintf("{Queue pending: %d running: %d}", len(ms.pendingTasks), len(ms.runningTasks))
}

func (ms *memStack) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	return f(ctx)
}
