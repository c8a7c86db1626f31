package guard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLoginLockout_Knobs(t *testing.T) {
	t.Run("non-positive knobs fall back to defaults", func(t *testing.T) {
		l := NewLoginLockout(nil, 0, 0)
		assert.Equal(t, DefaultMaxLoginAttempts, l.maxAttempts)
		assert.Equal(t, DefaultLockoutWindow, l.window)
	})

	t.Run("explicit knobs are kept", func(t *testing.T) {
		l := NewLoginLockout(nil, 3, time.Minute)
		assert.Equal(t, 3, l.maxAttempts)
		assert.Equal(t, time.Minute, l.window)
	})
}
