package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pbanos/cart/tree"
	"github.com/pbanos/cart/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redis "gopkg.in/redis.v5"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("CART_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CART_TEST_REDIS_ADDR not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rc.Close() })
	require.NoError(t, rc.Ping().Err())
	prefix := fmt.Sprintf("cart-test-%d", time.Now().UnixNano())
	s := New(rc, prefix, json.NewNodeEncodeDecoder())
	t.Cleanup(func() { s.Reset(context.Background()) })
	return s
}

func TestStoreAllocateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	l, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, l)
	_, err = s.Get(ctx, tree.RootID)
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)

	root, err := s.Allocate(ctx, tree.NodeData{Column: 2, Threshold: 1.5}, nil, tree.NoSlot)
	require.NoError(t, err)
	assert.Equal(t, tree.RootID, root)
	child, err := s.Allocate(ctx, tree.NodeData{Kind: tree.Leaf, MajorityClass: 4}, &root, tree.FalseSlot)
	require.NoError(t, err)
	assert.Equal(t, tree.NodeID(1), child)
	_, err = s.Allocate(ctx, tree.NodeData{}, &root, tree.FalseSlot)
	assert.ErrorIs(t, err, tree.ErrSlotTaken)

	n, err := s.Get(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, n.FalseChild)
	assert.Equal(t, child, *n.FalseChild)
	assert.Nil(t, n.TrueChild)

	class, err := tree.New(s).Classify(ctx, []float64{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 4, class)

	require.NoError(t, s.Reset(ctx))
	l, err = s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, l)
}

func TestCopyTreeToStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	src := tree.NewMemoryNodeStore()
	root, err := src.Allocate(ctx, tree.NodeData{Column: 0, Threshold: 1}, nil, tree.NoSlot)
	require.NoError(t, err)
	_, err = src.Allocate(ctx, tree.NodeData{Kind: tree.Leaf, MajorityClass: 1}, &root, tree.TrueSlot)
	require.NoError(t, err)

	copied, err := tree.Copy(ctx, s, src)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	class, err := tree.New(s).Classify(ctx, []float64{2})
	require.NoError(t, err)
	assert.Equal(t, 1, class)
}
