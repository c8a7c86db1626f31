package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partnerlink/platform/internal/domain"
)

// RecordPayout reserves a wallet withdrawal. The entry is stored pending with
// a negative amount; the wallet drops immediately so the funds cannot be
// spent twice while an admin reviews the request. Lifetime earnings do not
// change.
func (e *Engine) RecordPayout(ctx context.Context, tx pgx.Tx, params domain.PayoutParams) (*Result, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	partner, err := e.LockPartnerForUpdate(ctx, tx, params.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("payout: %w", err)
	}

	// Balance check after the lock so concurrent requests serialize.
	if partner.WalletBalance < params.Amount {
		return nil, domain.ErrInsufficientFunds()
	}

	entry := &domain.LedgerEntry{
		ID:          uuid.New(),
		PartnerID:   params.PartnerID,
		Kind:        domain.EntryPayout,
		Amount:      -params.Amount,
		Description: params.Description,
		Status:      domain.EntryStatusPending,
		CreatedAt:   time.Now(),
	}

	result, err := e.postEntry(ctx, tx, entry, domain.WalletDelta{Wallet: -params.Amount})
	if err != nil {
		return nil, fmt.Errorf("payout post: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewPayoutRequestedEvent(entry)); err != nil {
		return nil, fmt.Errorf("payout event: %w", err)
	}
	return result, nil
}
