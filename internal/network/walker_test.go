package network

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource map[uuid.UUID]*uuid.UUID

func (f fakeSource) ReferrerOf(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	return f[id], nil
}

func TestUpline(t *testing.T) {
	ctx := context.Background()
	root := uuid.New()
	mid := uuid.New()
	leaf := uuid.New()

	t.Run("root has empty upline", func(t *testing.T) {
		src := fakeSource{root: nil}
		chain, err := Upline(ctx, src, root, 0)
		require.NoError(t, err)
		assert.Empty(t, chain)
	})

	t.Run("chain returns ancestors child to root", func(t *testing.T) {
		src := fakeSource{leaf: &mid, mid: &root, root: nil}
		chain, err := Upline(ctx, src, leaf, 0)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mid, root}, chain)
	})

	t.Run("max depth truncates the walk", func(t *testing.T) {
		src := fakeSource{leaf: &mid, mid: &root, root: nil}
		chain, err := Upline(ctx, src, leaf, 1)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{mid}, chain)
	})

	t.Run("cycle ends the walk instead of looping", func(t *testing.T) {
		a := uuid.New()
		b := uuid.New()
		src := fakeSource{a: &b, b: &a}
		chain, err := Upline(ctx, src, a, 0)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b}, chain)
	})

	t.Run("self reference is ignored", func(t *testing.T) {
		a := uuid.New()
		src := fakeSource{a: &a}
		chain, err := Upline(ctx, src, a, 0)
		require.NoError(t, err)
		assert.Empty(t, chain)
	})
}
