/*
Package redisstore provides an implementation of tree.NodeStore
backed by a redis DB, so that trees grown in one process can be
published for others to classify with.
*/
package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pbanos/cart/tree"
	redis "gopkg.in/redis.v5"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	// and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

// allocateScript stores a node (KEYS[2]) and optionally its updated
// parent (KEYS[3]) only if the node count (KEYS[1]) still equals
// the ID chosen for the node, incrementing the count afterwards.
const allocateScript = `
if tonumber(redis.call("GET", KEYS[1]) or "0") ~= tonumber(ARGV[1]) then
    return 0
end
redis.call("SET", KEYS[2], ARGV[2])
if #KEYS == 3 then
    redis.call("SET", KEYS[3], ARGV[3])
end
redis.call("INCR", KEYS[1])
return 1
`

// Store is a tree.NodeStore that keeps every node of a tree
// under a common key prefix on a redis DB:
//   * prefix:len holds the number of nodes
//   * prefix:node:ID holds the node with the given ID encoded
//     with the store's NodeEncodeDecoder
//
// Allocations are atomic: a node and the link from its parent
// are written by a single script, or not at all.
type Store struct {
	rc      *redis.Client
	prefix  string
	nencdec NodeEncodeDecoder
}

// New builds a tree.NodeStore backed by a redis DB
func New(rc *redis.Client, prefix string, nencdec NodeEncodeDecoder) *Store {
	return &Store{rc, prefix, nencdec}
}

// Allocate stores a new node at the next free ID and links it from
// its parent.
func (rs *Store) Allocate(ctx context.Context, data tree.NodeData, parent *tree.NodeID, slot tree.ChildSlot) (tree.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l, err := rs.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocating node: %v", err)
	}
	id := tree.NodeID(l)
	n := &tree.Node{ID: id, Data: data}
	keys := []string{rs.lenKey(), rs.keyFor(id)}
	var pdata []byte
	if parent != nil {
		p, err := rs.Get(ctx, *parent)
		if err != nil {
			return 0, fmt.Errorf("allocating child of %d: %w", *parent, err)
		}
		pid := *parent
		n.Parent = &pid
		switch slot {
		case tree.TrueSlot:
			if p.TrueChild != nil {
				return 0, fmt.Errorf("allocating %s child of %d: %w", slot, pid, tree.ErrSlotTaken)
			}
			p.TrueChild = &id
		case tree.FalseSlot:
			if p.FalseChild != nil {
				return 0, fmt.Errorf("allocating %s child of %d: %w", slot, pid, tree.ErrSlotTaken)
			}
			p.FalseChild = &id
		default:
			return 0, fmt.Errorf("allocating child of %d: %w", pid, tree.ErrInvalidSlot)
		}
		pdata, err = rs.nencdec.Encode(p)
		if err != nil {
			return 0, fmt.Errorf("allocating node: encoding parent %d: %v", pid, err)
		}
		keys = append(keys, rs.keyFor(pid))
	}
	data2, err := rs.nencdec.Encode(n)
	if err != nil {
		return 0, fmt.Errorf("allocating node: encoding node: %v", err)
	}
	args := []interface{}{int64(id), string(data2)}
	if pdata != nil {
		args = append(args, string(pdata))
	}
	res, err := rs.rc.Eval(allocateScript, keys, args...).Result()
	if err != nil {
		return 0, fmt.Errorf("allocating node %d in redis: %v", id, err)
	}
	if ok, _ := res.(int64); ok != 1 {
		return 0, fmt.Errorf("allocating node %d in redis: concurrent modification of %q", id, rs.lenKey())
	}
	return id, nil
}

// Get returns the node with the given ID or tree.ErrNodeNotFound.
func (rs *Store) Get(ctx context.Context, id tree.NodeID) (*tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("retrieving node %d: %w", id, tree.ErrNodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving node %d: %v", id, err)
	}
	n, err := rs.nencdec.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("retrieving node %d: decoding %q: %v", id, data, err)
	}
	return n, nil
}

// Len returns the number of nodes stored under the prefix.
func (rs *Store) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v, err := rs.rc.Get(rs.lenKey()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting nodes in redis: %v", err)
	}
	l, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("counting nodes in redis: parsing %q: %v", v, err)
	}
	return l, nil
}

// Reset deletes every node stored under the prefix, leaving the
// store empty for a new tree.
func (rs *Store) Reset(ctx context.Context) error {
	l, err := rs.Len(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, l+1)
	for i := 0; i < l; i++ {
		keys = append(keys, rs.keyFor(tree.NodeID(i)))
	}
	keys = append(keys, rs.lenKey())
	_, err = rs.rc.Del(keys...).Result()
	if err != nil {
		return fmt.Errorf("deleting nodes from redis: %v", err)
	}
	return nil
}

// Close does nothing, the redis client belongs to the caller.
func (rs *Store) Close(ctx context.Context) error {
	return nil
}

func (rs *Store) keyFor(id tree.NodeID) string {
	return fmt.Sprintf("%s:node:%d", rs.prefix, id)
}

func (rs *Store) lenKey() string {
	return fmt.Sprintf("%s:len", rs.prefix)
}
