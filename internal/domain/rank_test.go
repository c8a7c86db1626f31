package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextQualifiedRank_BelowFirstThreshold(t *testing.T) {
	_, ok := NextQualifiedRank(RankLadder, RankStarter, 99)
	assert.False(t, ok)
}

func TestNextQualifiedRank_ExactThreshold(t *testing.T) {
	step, ok := NextQualifiedRank(RankLadder, RankStarter, 100)
	assert.True(t, ok)
	assert.Equal(t, RankAchiever, step.Rank)
	assert.Equal(t, int64(1_000_000), step.Bonus)
	assert.Equal(t, int64(0), step.Insurance)
}

func TestNextQualifiedRank_SingleStepPerCall(t *testing.T) {
	// Volume qualifies for leader, but a starter advances one rung at a time.
	step, ok := NextQualifiedRank(RankLadder, RankStarter, 5_000)
	assert.True(t, ok)
	assert.Equal(t, RankAchiever, step.Rank)

	// The following call promotes again.
	step, ok = NextQualifiedRank(RankLadder, RankAchiever, 5_000)
	assert.True(t, ok)
	assert.Equal(t, RankLeader, step.Rank)
	assert.Equal(t, int64(10_000_000), step.Insurance)
}

func TestNextQualifiedRank_AlreadyAtQualifiedRank(t *testing.T) {
	_, ok := NextQualifiedRank(RankLadder, RankAchiever, 500)
	assert.False(t, ok)
}

func TestNextQualifiedRank_TopOfLadder(t *testing.T) {
	_, ok := NextQualifiedRank(RankLadder, RankLegend, 100_000_000)
	assert.False(t, ok)
}

func TestLadderWithThresholds_Overrides(t *testing.T) {
	ladder, err := LadderWithThresholds([]int64{50, 500, 5_000, 50_000, 500_000})
	require.NoError(t, err)

	// Thresholds move, bonus and insurance stay per rank.
	assert.Equal(t, int64(50), ladder[0].ThresholdUnits)
	assert.Equal(t, int64(1_000_000), ladder[0].Bonus)
	assert.Equal(t, int64(500_000), ladder[4].ThresholdUnits)
	assert.Equal(t, int64(10_000_000_000), ladder[4].Insurance)

	// The default ladder is untouched.
	assert.Equal(t, int64(100), RankLadder[0].ThresholdUnits)

	step, ok := NextQualifiedRank(ladder, RankStarter, 50)
	assert.True(t, ok)
	assert.Equal(t, RankAchiever, step.Rank)
}

func TestLadderWithThresholds_RejectsBadInput(t *testing.T) {
	_, err := LadderWithThresholds([]int64{100, 1_000})
	assert.Error(t, err) // wrong rung count

	_, err = LadderWithThresholds([]int64{100, 1_000, 1_000, 100_000, 1_000_000})
	assert.Error(t, err) // not strictly ascending

	_, err = LadderWithThresholds([]int64{0, 1_000, 10_000, 100_000, 1_000_000})
	assert.Error(t, err) // non-positive first rung
}

func TestRankIndex(t *testing.T) {
	assert.Equal(t, 0, RankStarter.Index())
	assert.Equal(t, 5, RankLegend.Index())
	assert.Equal(t, -1, Rank("bogus").Index())
}
