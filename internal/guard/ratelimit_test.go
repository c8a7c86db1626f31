package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)
		for i := 0; i < 3; i++ {
			assert.True(t, rl.Check(ctx, "k").Allowed)
		}
		res := rl.Check(ctx, "k")
		assert.False(t, res.Allowed)
		assert.Equal(t, "rate_limiter", res.Guard)
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		assert.True(t, rl.Check(ctx, "a").Allowed)
		assert.True(t, rl.Check(ctx, "b").Allowed)
		assert.False(t, rl.Check(ctx, "a").Allowed)
	})

	t.Run("window expiry frees capacity", func(t *testing.T) {
		rl := NewRateLimiter(1, 10*time.Millisecond)
		assert.True(t, rl.Check(ctx, "k").Allowed)
		assert.False(t, rl.Check(ctx, "k").Allowed)
		time.Sleep(20 * time.Millisecond)
		assert.True(t, rl.Check(ctx, "k").Allowed)
	})
}
