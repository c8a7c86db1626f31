package domain

// Plan holds the compensation plan parameters. All money values are minor
// currency units; rates are basis points so commission arithmetic stays
// exact integer math.
type Plan struct {
	// UnitPrice is the fixed price of one sales unit.
	UnitPrice int64
	// ReferralBonusBP is the instant bonus to the immediate referrer,
	// applied to the order amount.
	ReferralBonusBP int64
	// Tier boundaries are inclusive: team units <= Tier1MaxUnits earn
	// Tier1BP, <= Tier2MaxUnits earn Tier2BP, everything above Tier3BP.
	Tier1MaxUnits int64
	Tier2MaxUnits int64
	Tier1BP       int64
	Tier2BP       int64
	Tier3BP       int64
}

// DefaultPlan returns the standard plan: 5 000 currency units per sales unit,
// 20% referral bonus, 2%/1%/0.1% tiered team commission.
func DefaultPlan() Plan {
	return Plan{
		UnitPrice:       500_000,
		ReferralBonusBP: 2_000,
		Tier1MaxUnits:   1_000,
		Tier2MaxUnits:   10_000,
		Tier1BP:         200,
		Tier2BP:         100,
		Tier3BP:         10,
	}
}

// SalesUnits normalises an order amount to whole sales units, minimum 1.
func (p Plan) SalesUnits(amount int64) int64 {
	units := amount / p.UnitPrice
	if units < 1 {
		return 1
	}
	return units
}

// RateBP returns the tiered commission rate for an upline member with the
// given cumulative team sales units. Boundaries are inclusive.
func (p Plan) RateBP(teamUnits int64) int64 {
	switch {
	case teamUnits <= p.Tier1MaxUnits:
		return p.Tier1BP
	case teamUnits <= p.Tier2MaxUnits:
		return p.Tier2BP
	default:
		return p.Tier3BP
	}
}

// CommissionAmount computes the queued team commission for a sale of the
// given units, rated by the upline member's team units before this sale.
func (p Plan) CommissionAmount(saleUnits, uplineTeamUnits int64) int64 {
	return saleUnits * p.UnitPrice * p.RateBP(uplineTeamUnits) / 10_000
}

// ReferralBonus computes the instant direct-referral bonus on an order amount.
func (p Plan) ReferralBonus(orderAmount int64) int64 {
	return orderAmount * p.ReferralBonusBP / 10_000
}
