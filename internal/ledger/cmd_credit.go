package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partnerlink/platform/internal/domain"
)

// RecordCredit posts a compensation credit (direct referral bonus, team
// commission, or rank bonus). Credits are approved at creation and raise both
// wallet_balance and total_earnings by the full amount.
//
// A non-positive amount is a no-op: the returned entry is synthetic, nothing
// is persisted, and the partner's balances do not move.
func (e *Engine) RecordCredit(ctx context.Context, tx pgx.Tx, params domain.CreditParams) (*Result, error) {
	if !params.Kind.IsCredit() {
		return nil, domain.ErrValidation("entry kind is not a credit: " + string(params.Kind))
	}

	partner, err := e.LockPartnerForUpdate(ctx, tx, params.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}

	now := time.Now()
	if params.Amount <= 0 {
		return &Result{
			Entry: &domain.LedgerEntry{
				ID:          uuid.New(),
				PartnerID:   params.PartnerID,
				Kind:        params.Kind,
				Amount:      0,
				Description: params.Description,
				ReferenceID: params.ReferenceID,
				Status:      domain.EntryStatusApproved,
				CreatedAt:   now,
				ProcessedAt: &now,
			},
			Partner: partner,
		}, nil
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		PartnerID:   params.PartnerID,
		Kind:        params.Kind,
		Amount:      params.Amount,
		Description: params.Description,
		ReferenceID: params.ReferenceID,
		Status:      domain.EntryStatusApproved,
		CreatedAt:   now,
		ProcessedAt: &now,
	}

	result, err := e.postEntry(ctx, tx, entry, domain.WalletDelta{
		Wallet:   params.Amount,
		Earnings: params.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("credit post: %w", err)
	}
	return result, nil
}
