package infra

import (
	"testing"

	"github.com/partnerlink/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLadder_Default(t *testing.T) {
	cfg := &Config{RankThresholds: "100,1000,10000,100000,1000000"}

	ladder, err := cfg.Ladder()
	require.NoError(t, err)
	assert.Equal(t, domain.RankLadder, ladder)
}

func TestConfigLadder_Override(t *testing.T) {
	cfg := &Config{RankThresholds: "10, 20, 30, 40, 50"} // spaces tolerated

	ladder, err := cfg.Ladder()
	require.NoError(t, err)
	assert.Equal(t, int64(10), ladder[0].ThresholdUnits)
	assert.Equal(t, int64(50), ladder[4].ThresholdUnits)
	assert.Equal(t, domain.RankAchiever, ladder[0].Rank)
}

func TestConfigLadder_Invalid(t *testing.T) {
	for _, bad := range []string{"", "abc", "100,1000", "100,90,10000,100000,1000000"} {
		cfg := &Config{RankThresholds: bad}
		_, err := cfg.Ladder()
		assert.Error(t, err, "thresholds %q", bad)
	}
}
