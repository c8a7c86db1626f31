package domain

import "fmt"

// RankStep is one rung of the promotion ladder. Thresholds are cumulative
// sales units (direct + team); bonus and insurance are minor currency units.
type RankStep struct {
	Rank           Rank
	ThresholdUnits int64
	Bonus          int64
	Insurance      int64
}

// RankLadder lists the awardable ranks in ascending order. Starter is the
// entry rank and is never awarded.
var RankLadder = []RankStep{
	{Rank: RankAchiever, ThresholdUnits: 100, Bonus: 1_000_000, Insurance: 0},
	{Rank: RankLeader, ThresholdUnits: 1_000, Bonus: 10_000_000, Insurance: 10_000_000},
	{Rank: RankProLeader, ThresholdUnits: 10_000, Bonus: 100_000_000, Insurance: 100_000_000},
	{Rank: RankChampion, ThresholdUnits: 100_000, Bonus: 1_000_000_000, Insurance: 1_000_000_000},
	{Rank: RankLegend, ThresholdUnits: 1_000_000, Bonus: 10_000_000_000, Insurance: 10_000_000_000},
}

// LadderWithThresholds returns a copy of RankLadder with overridden unit
// thresholds, one per rung in ascending order. Bonus and insurance amounts
// are fixed per rank and do not vary with the thresholds.
func LadderWithThresholds(thresholds []int64) ([]RankStep, error) {
	if len(thresholds) != len(RankLadder) {
		return nil, fmt.Errorf("rank ladder needs %d thresholds, got %d", len(RankLadder), len(thresholds))
	}
	ladder := make([]RankStep, len(RankLadder))
	copy(ladder, RankLadder)
	var prev int64
	for i, units := range thresholds {
		if units <= prev {
			return nil, fmt.Errorf("rank thresholds must be positive and ascending: %d at rung %d", units, i+1)
		}
		ladder[i].ThresholdUnits = units
		prev = units
	}
	return ladder, nil
}

// NextQualifiedRank returns the single next ladder step above current that
// totalUnits qualifies for. A partner whose volume jumped several thresholds
// still advances one step per call; later purchases advance the rest.
func NextQualifiedRank(ladder []RankStep, current Rank, totalUnits int64) (RankStep, bool) {
	currentIdx := current.Index()
	for _, step := range ladder {
		if step.Rank.Index() <= currentIdx {
			continue
		}
		if totalUnits >= step.ThresholdUnits {
			return step, true
		}
		// Ladder is ascending; nothing further can qualify.
		break
	}
	return RankStep{}, false
}
