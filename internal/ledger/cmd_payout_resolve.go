package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partnerlink/platform/internal/domain"
)

// ApprovePayout marks a pending payout approved. The wallet already dropped
// at request time, so approval only stamps the terminal status.
func (e *Engine) ApprovePayout(ctx context.Context, tx pgx.Tx, entryID uuid.UUID) (*Result, error) {
	entry, err := e.lockPendingPayout(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	// Lock order: partner row first elsewhere, but approval touches only the
	// entry and never the balance, so locking just the entry is safe.
	now := time.Now()
	if err := e.entries.ResolveStatus(ctx, tx, entryID, domain.EntryStatusApproved, now); err != nil {
		return nil, fmt.Errorf("approve payout: %w", err)
	}
	entry.Status = domain.EntryStatusApproved
	entry.ProcessedAt = &now

	if err := e.outbox.Insert(ctx, tx, domain.NewPayoutResolvedEvent(entry)); err != nil {
		return nil, fmt.Errorf("approve payout event: %w", err)
	}
	return &Result{Entry: entry}, nil
}

// RejectPayout cancels a pending payout and refunds the reserved amount to
// the wallet. Lifetime earnings stay untouched, as they were at request time.
func (e *Engine) RejectPayout(ctx context.Context, tx pgx.Tx, entryID uuid.UUID) (*Result, error) {
	entry, err := e.lockPendingPayout(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	if _, err := e.LockPartnerForUpdate(ctx, tx, entry.PartnerID); err != nil {
		return nil, fmt.Errorf("reject payout: %w", err)
	}

	now := time.Now()
	if err := e.entries.ResolveStatus(ctx, tx, entryID, domain.EntryStatusCancelled, now); err != nil {
		return nil, fmt.Errorf("reject payout: %w", err)
	}
	entry.Status = domain.EntryStatusCancelled
	entry.ProcessedAt = &now

	// entry.Amount is negative; refund is its negation.
	partner, err := e.partners.ApplyWalletDelta(ctx, tx, entry.PartnerID, domain.WalletDelta{Wallet: -entry.Amount})
	if err != nil {
		return nil, fmt.Errorf("refund payout: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewPayoutResolvedEvent(entry)); err != nil {
		return nil, fmt.Errorf("reject payout event: %w", err)
	}
	return &Result{Entry: entry, Partner: partner}, nil
}

// lockPendingPayout locks the entry row and checks it is a payout still open
// for resolution.
func (e *Engine) lockPendingPayout(ctx context.Context, tx pgx.Tx, entryID uuid.UUID) (*domain.LedgerEntry, error) {
	entry, err := e.entries.LockForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("lock entry: %w", err)
	}
	if entry == nil {
		return nil, domain.ErrNotFound("ledger entry", entryID.String())
	}
	if entry.Kind != domain.EntryPayout {
		return nil, domain.ErrConflict("entry is not a payout")
	}
	if entry.Status.Terminal() {
		return nil, domain.ErrConflict("payout is already " + string(entry.Status))
	}
	return entry, nil
}
