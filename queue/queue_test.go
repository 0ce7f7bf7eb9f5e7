package queue

import (
	"context"
	"testing"

	"github.com/pbanos/cart/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullReturnsLastPushedTask(t *testing.T) {
	ctx := context.Background()
	q := New()
	root := tree.RootID
	first := &Task{Parent: &root, Slot: tree.FalseSlot, Depth: 1}
	second := &Task{Parent: &root, Slot: tree.TrueSlot, Depth: 1}
	require.NoError(t, q.Push(ctx, first))
	require.NoError(t, q.Push(ctx, second))
	assert.NotEqual(t, first.ID(), second.ID())

	got, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Same(t, second, got)

	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, running)

	require.NoError(t, q.Complete(ctx, got.ID()))
	got, err = q.Pull(ctx)
	require.NoError(t, err)
	assert.Same(t, first, got)
	require.NoError(t, q.Complete(ctx, got.ID()))

	got, err = q.Pull(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Zero(t, running)
}

func TestDropMakesTaskPullableAgain(t *testing.T) {
	ctx := context.Background()
	q := New()
	task := &Task{}
	require.NoError(t, q.Push(ctx, task))
	got, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Drop(ctx, got.ID()))

	again, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Same(t, task, again)

	require.NoError(t, q.Complete(ctx, again.ID()))
	require.NoError(t, q.Drop(ctx, again.ID()))
	pending, _, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := New()
	assert.ErrorIs(t, q.Push(ctx, &Task{}), context.Canceled)
	_, err := q.Pull(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
