package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rank enumerates the partner rank ladder, lowest first.
type Rank string

const (
	RankStarter   Rank = "starter"
	RankAchiever  Rank = "achiever"
	RankLeader    Rank = "leader"
	RankProLeader Rank = "pro_leader"
	RankChampion  Rank = "champion"
	RankLegend    Rank = "legend"
)

var rankOrder = []Rank{RankStarter, RankAchiever, RankLeader, RankProLeader, RankChampion, RankLegend}

// Index returns the position of the rank in the ladder, or -1 for unknown ranks.
func (r Rank) Index() int {
	for i, candidate := range rankOrder {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Role enumerates account roles.
type Role string

const (
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Partner represents a partners row. Referrer links form a forest; sales
// counters and earnings are monotonically non-decreasing, wallet_balance and
// insurance_amount are not.
type Partner struct {
	ID               uuid.UUID  `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	ReferralCode     string     `json:"referral_code"`
	ReferrerID       *uuid.UUID `json:"referrer_id,omitempty"`
	Role             Role       `json:"role"`
	Rank             Rank       `json:"rank"`
	DirectSalesUnits int64      `json:"direct_sales_units"`
	TeamSalesUnits   int64      `json:"team_sales_units"`
	TotalEarnings    int64      `json:"total_earnings"`
	WalletBalance    int64      `json:"wallet_balance"`
	InsuranceAmount  int64      `json:"insurance_amount"`
	DirectReferrals  int64      `json:"direct_referrals"`
	LastSaleAt       *time.Time `json:"last_sale_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TotalSalesUnits is the rank-qualifying volume: personal plus downline units.
func (p *Partner) TotalSalesUnits() int64 {
	return p.DirectSalesUnits + p.TeamSalesUnits
}

// WalletDelta describes a partner balance mutation applied by the ledger
// engine. Wallet may be negative (payout reserve); Earnings only grows.
type WalletDelta struct {
	Wallet   int64
	Earnings int64
}

// HasWalletDelta returns true if the wallet balance changes.
func (d WalletDelta) HasWalletDelta() bool { return d.Wallet != 0 }

// HasEarningsDelta returns true if lifetime earnings change.
func (d WalletDelta) HasEarningsDelta() bool { return d.Earnings != 0 }
