package policy

import (
	"testing"

	"github.com/partnerlink/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWalletWithdrawal(t *testing.T) {
	p := PayoutPolicy{MinWalletWithdrawal: 100_000}

	t.Run("at the minimum passes", func(t *testing.T) {
		assert.NoError(t, p.ValidateWalletWithdrawal(100_000))
	})

	t.Run("above the minimum passes", func(t *testing.T) {
		assert.NoError(t, p.ValidateWalletWithdrawal(250_000))
	})

	t.Run("below the minimum is rejected", func(t *testing.T) {
		err := p.ValidateWalletWithdrawal(99_999)
		require.Error(t, err)
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "MIN_WITHDRAWAL", appErr.Code)
	})

	t.Run("zero and negative are validation errors", func(t *testing.T) {
		for _, amount := range []int64{0, -1} {
			err := p.ValidateWalletWithdrawal(amount)
			require.Error(t, err)
			var appErr *domain.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		}
	})
}
