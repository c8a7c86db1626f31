package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/repository"
)

// ReplayedBalances is the wallet state derived purely from a partner's
// ledger entries.
type ReplayedBalances struct {
	WalletBalance int64 `json:"wallet_balance"`
	TotalEarnings int64 `json:"total_earnings"`
	EntryCount    int   `json:"entry_count"`
}

// InvariantCheck records a single reconciliation validation.
type InvariantCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// ReconcileResult is the outcome of replaying a partner's ledger against
// their stored row.
type ReconcileResult struct {
	PartnerID uuid.UUID          `json:"partner_id"`
	Replayed  ReplayedBalances   `json:"replayed"`
	Stored    domain.WalletDelta `json:"stored"`
	Checks    []InvariantCheck   `json:"checks"`
	AllPassed bool               `json:"all_passed"`
}

// Replay folds a partner's entries into the balances they imply. Cancelled
// payouts contribute nothing: the reservation and its refund cancel out.
// Credits with approved status add to both wallet and earnings; pending and
// approved payouts subtract their (negative) amount from the wallet only.
func Replay(entries []domain.LedgerEntry) ReplayedBalances {
	var r ReplayedBalances
	for _, e := range entries {
		r.EntryCount++
		switch {
		case e.Kind.IsCredit():
			if e.Status == domain.EntryStatusApproved {
				r.WalletBalance += e.Amount
				r.TotalEarnings += e.Amount
			}
		case e.Kind == domain.EntryPayout:
			if e.Status != domain.EntryStatusCancelled {
				r.WalletBalance += e.Amount
			}
		}
	}
	return r
}

// Reconcile replays every entry of a partner and compares the result with
// the stored partner row. Used by the admin reconciliation endpoint to catch
// drift between the ledger and the materialized balances.
func (e *Engine) Reconcile(ctx context.Context, db repository.DBTX, partnerID uuid.UUID) (*ReconcileResult, error) {
	partner, err := e.partners.FindByID(ctx, db, partnerID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound("partner", partnerID.String())
	}

	var all []domain.LedgerEntry
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		page, err := e.entries.ListByPartner(ctx, db, partnerID, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("reconcile list entries: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
	}

	replayed := Replay(all)
	checks := []InvariantCheck{
		{
			Name:   "wallet_matches_ledger",
			Passed: replayed.WalletBalance == partner.WalletBalance,
			Detail: fmt.Sprintf("replayed=%d stored=%d", replayed.WalletBalance, partner.WalletBalance),
		},
		{
			Name:   "earnings_match_ledger",
			Passed: replayed.TotalEarnings == partner.TotalEarnings,
			Detail: fmt.Sprintf("replayed=%d stored=%d", replayed.TotalEarnings, partner.TotalEarnings),
		},
		{
			Name:   "wallet_non_negative",
			Passed: partner.WalletBalance >= 0,
			Detail: fmt.Sprintf("wallet=%d", partner.WalletBalance),
		},
	}

	allPassed := true
	for _, c := range checks {
		if !c.Passed {
			allPassed = false
		}
	}

	return &ReconcileResult{
		PartnerID: partnerID,
		Replayed:  replayed,
		Stored:    domain.WalletDelta{Wallet: partner.WalletBalance, Earnings: partner.TotalEarnings},
		Checks:    checks,
		AllPassed: allPassed,
	}, nil
}
