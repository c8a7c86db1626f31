package infra

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericToInt64_RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 500_000, 10_000_000_000} {
		got, err := NumericToInt64(Int64ToNumeric(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestNumericToInt64_Null(t *testing.T) {
	_, err := NumericToInt64(pgtype.Numeric{Valid: false})
	assert.Error(t, err)
}

func TestNumericToInt64_PositiveExponent(t *testing.T) {
	// 5 * 10^3 = 5000
	n := pgtype.Numeric{Int: big.NewInt(5), Exp: 3, Valid: true}
	got, err := NumericToInt64(n)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), got)
}

func TestNumericToInt64_Overflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, err := NumericToInt64(pgtype.Numeric{Int: huge, Exp: 0, Valid: true})
	assert.Error(t, err)
}
