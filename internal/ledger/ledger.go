package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/repository"
)

// Engine provides the foundational ledger operations:
//  1. LockPartnerForUpdate — row-level pessimistic lock
//  2. postEntry — atomic wallet update + append-only insert + outbox event
//
// Every wallet or earnings change in the system goes through postEntry, so
// replaying a partner's entries always reproduces their balances.
type Engine struct {
	partners repository.PartnerRepository
	entries  repository.EntryRepository
	outbox   repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	partners repository.PartnerRepository,
	entries repository.EntryRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		partners: partners,
		entries:  entries,
		outbox:   outbox,
	}
}

// Result is what each ledger command returns: the entry written and the
// partner's state after the write.
type Result struct {
	Entry   *domain.LedgerEntry
	Partner *domain.Partner
}

// LockPartnerForUpdate acquires a row-level lock and returns the partner.
// Must be called within a transaction.
func (e *Engine) LockPartnerForUpdate(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID) (*domain.Partner, error) {
	partner, err := e.partners.LockForUpdate(ctx, tx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("lock partner: %w", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound("partner", partnerID.String())
	}
	return partner, nil
}

// postEntry atomically applies the wallet delta and appends the entry.
//
// Steps:
//  1. Update partner balances using server-side arithmetic
//  2. Insert the ledger entry
//  3. Insert the outbox event
//
// All 3 steps run within the caller's transaction. The caller must already
// hold the partner row lock.
func (e *Engine) postEntry(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry, delta domain.WalletDelta) (*Result, error) {
	partner, err := e.partners.ApplyWalletDelta(ctx, tx, entry.PartnerID, delta)
	if err != nil {
		return nil, fmt.Errorf("apply wallet delta: %w", err)
	}

	if err := e.entries.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewEntryPostedEvent(entry)); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return &Result{Entry: entry, Partner: partner}, nil
}
