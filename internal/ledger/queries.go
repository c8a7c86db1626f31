package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/repository"
)

// SumByKind totals a partner's approved entries of one kind.
func (e *Engine) SumByKind(ctx context.Context, db repository.DBTX, partnerID uuid.UUID, kind domain.EntryKind) (int64, error) {
	sum, err := e.entries.SumByKind(ctx, db, partnerID, kind)
	if err != nil {
		return 0, fmt.Errorf("sum by kind: %w", err)
	}
	return sum, nil
}

// SumPendingPayouts totals the amount a partner has locked in pending
// withdrawals, as a positive number.
func (e *Engine) SumPendingPayouts(ctx context.Context, db repository.DBTX, partnerID uuid.UUID) (int64, error) {
	sum, err := e.entries.SumPendingPayouts(ctx, db, partnerID)
	if err != nil {
		return 0, fmt.Errorf("sum pending payouts: %w", err)
	}
	return sum, nil
}

// Feed returns a partner's recent ledger entries, newest first.
func (e *Engine) Feed(ctx context.Context, db repository.DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error) {
	entries, err := e.entries.ListByPartner(ctx, db, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("entry feed: %w", err)
	}
	return entries, nil
}
