package tree

import (
	"context"
	"fmt"
	"sync"
)

/*
NodeStore is an interface to manage an append-only
store of nodes addressed by their NodeID.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type NodeStore interface {
	// Allocate takes the data for a new node, the ID of its
	// parent (nil for the root) and the slot of the parent the
	// node occupies. It stores the node at the next free ID,
	// links it from its parent and returns the ID. It returns
	// an error if the parent does not exist or the slot is
	// already taken, in which case nothing is stored.
	Allocate(ctx context.Context, data NodeData, parent *NodeID, slot ChildSlot) (NodeID, error)
	// Get takes an id and returns the node in the
	// store with that id or ErrNodeNotFound, or an
	// error if the store cannot be queried
	Get(ctx context.Context, id NodeID) (*Node, error)
	// Len returns the number of nodes in the store
	Len(ctx context.Context) (int, error)
	// Close closes the store, implementations should
	// free any resources in use. It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

// StoreError represents an error returned by a NodeStore
type StoreError string

const (
	// ErrNodeNotFound is returned when a node ID is not in the store
	ErrNodeNotFound = StoreError("node not found")
	// ErrSlotTaken is returned when allocating into an occupied child slot
	ErrSlotTaken = StoreError("child slot already taken")
	// ErrInvalidSlot is returned when a child is allocated without a slot
	ErrInvalidSlot = StoreError("invalid child slot")
)

func (se StoreError) Error() string {
	return string(se)
}

type memoryNodeStore struct {
	nodes []Node
	lock  *sync.RWMutex
}

// NewMemoryNodeStore returns an implementation
// of NodeStore with the process memory space
// as underlying backend
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{
		lock: &sync.RWMutex{},
	}
}

func (mns *memoryNodeStore) Allocate(ctx context.Context, data NodeData, parent *NodeID, slot ChildSlot) (NodeID, error) {
	var id NodeID
	err := mns.withLock(ctx, func(ctx context.Context) error {
		var p *Node
		if parent != nil {
			if *parent < 0 || int(*parent) >= len(mns.nodes) {
				return fmt.Errorf("allocating child of %d: %w", *parent, ErrNodeNotFound)
			}
			p = &mns.nodes[*parent]
			switch slot {
			case TrueSlot, FalseSlot:
			default:
				return fmt.Errorf("allocating child of %d: %w", *parent, ErrInvalidSlot)
			}
			if p.Child(slot) != nil {
				return fmt.Errorf("allocating %s child of %d: %w", slot, *parent, ErrSlotTaken)
			}
		}
		id = NodeID(len(mns.nodes))
		n := Node{ID: id, Data: data}
		if parent != nil {
			n.Parent = idPtr(*parent)
		}
		mns.nodes = append(mns.nodes, n)
		if parent != nil {
			// the append may have moved the backing array
			p = &mns.nodes[*parent]
			if slot == TrueSlot {
				p.TrueChild = idPtr(id)
			} else {
				p.FalseChild = idPtr(id)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (mns *memoryNodeStore) Get(ctx context.Context, id NodeID) (*Node, error) {
	var n *Node
	err := mns.withRLock(ctx, func(ctx context.Context) error {
		if id < 0 || int(id) >= len(mns.nodes) {
			return fmt.Errorf("retrieving node %d: %w", id, ErrNodeNotFound)
		}
		cp := mns.nodes[id]
		n = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (mns *memoryNodeStore) Len(ctx context.Context) (int, error) {
	var l int
	err := mns.withRLock(ctx, func(ctx context.Context) error {
		l = len(mns.nodes)
		return nil
	})
	return l, err
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}

func (mns *memoryNodeStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ctx.Done() == nil {
		mns.lock.Lock()
		defer mns.lock.Unlock()
		return f(ctx)
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.Lock()
		select {
		case <-ctx.Done():
			mns.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.Unlock()
	}
	return f(ctx)
}

func (mns *memoryNodeStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ctx.Done() == nil {
		mns.lock.RLock()
		defer mns.lock.RUnlock()
		return f(ctx)
	}
	gotLock := make(chan struct{})
	go func() {
		mns.lock.RLock()
		select {
		case <-ctx.Done():
			mns.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.RUnlock()
	}
	return f(ctx)
}
