package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind enumerates ledger entry kinds.
type EntryKind string

const (
	EntryDirectReferral EntryKind = "direct_referral"
	EntryTeamCommission EntryKind = "team_commission"
	EntryRankBonus      EntryKind = "rank_bonus"
	EntryPayout         EntryKind = "payout"
)

// IsCredit reports whether the kind credits the wallet at creation.
func (k EntryKind) IsCredit() bool {
	return k == EntryDirectReferral || k == EntryTeamCommission || k == EntryRankBonus
}

// EntryStatus enumerates ledger entry states. Credits are approved at
// creation; payouts start pending.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusApproved  EntryStatus = "approved"
	EntryStatusCancelled EntryStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s EntryStatus) Terminal() bool {
	return s == EntryStatusApproved || s == EntryStatusCancelled
}

// LedgerEntry is a single money-moving record, the only legal way to change
// a partner's wallet or earnings. Amount is positive for credits and negative
// for payouts, in minor currency units.
type LedgerEntry struct {
	ID          uuid.UUID   `json:"id"`
	PartnerID   uuid.UUID   `json:"partner_id"`
	Kind        EntryKind   `json:"kind"`
	Amount      int64       `json:"amount"`
	Description string      `json:"description"`
	ReferenceID *uuid.UUID  `json:"reference_id,omitempty"`
	Status      EntryStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
}

// CreditParams is the input to Engine.RecordCredit.
type CreditParams struct {
	PartnerID   uuid.UUID
	Kind        EntryKind
	Amount      int64
	Description string
	ReferenceID *uuid.UUID
}

// PayoutParams is the input to Engine.RecordPayout. Amount is the positive
// withdrawal amount; the stored entry carries its negation.
type PayoutParams struct {
	PartnerID   uuid.UUID
	Amount      int64
	Description string
}

// CompensationSummary is the read model behind GET /compensation/summary.
type CompensationSummary struct {
	TotalEarnings            int64 `json:"total_earnings"`
	WalletBalance            int64 `json:"wallet_balance"`
	PendingPayouts           int64 `json:"pending_payouts"`
	DirectReferralBonus      int64 `json:"direct_referral_bonus"`
	TeamCommission           int64 `json:"team_commission"`
	RankBonuses              int64 `json:"rank_bonuses"`
	PendingWeeklyCommissions int64 `json:"pending_weekly_commissions"`
}
