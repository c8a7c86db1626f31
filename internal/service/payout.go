package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/policy"
	"github.com/partnerlink/platform/internal/repository"
)

// PayoutService handles withdrawal requests and their admin resolution.
type PayoutService struct {
	pool    *pgxpool.Pool
	entries repository.EntryRepository
	engine  *ledger.Engine
	policy  policy.PayoutPolicy
	logger  *slog.Logger
}

// NewPayoutService creates a PayoutService.
func NewPayoutService(pool *pgxpool.Pool, entries repository.EntryRepository, engine *ledger.Engine, p policy.PayoutPolicy, logger *slog.Logger) *PayoutService {
	return &PayoutService{pool: pool, entries: entries, engine: engine, policy: p, logger: logger}
}

// Request reserves a withdrawal: the wallet drops now, the entry stays
// pending until an admin resolves it.
func (s *PayoutService) Request(ctx context.Context, partnerID uuid.UUID, amount int64) (*domain.LedgerEntry, error) {
	if err := s.policy.ValidateWalletWithdrawal(amount); err != nil {
		return nil, err
	}

	var result *ledger.Result
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		var err error
		result, err = s.engine.RecordPayout(ctx, tx, domain.PayoutParams{
			PartnerID:   partnerID,
			Amount:      amount,
			Description: "Wallet withdrawal request",
		})
		return err
	})
	if err != nil {
		return nil, wrapTxErr("request payout", err)
	}

	s.logger.Info("payout requested", "partner_id", partnerID, "amount", amount, "entry_id", result.Entry.ID)
	return result.Entry, nil
}

// Approve marks a pending payout approved. The reservation already happened
// at request time, so no balance moves.
func (s *PayoutService) Approve(ctx context.Context, entryID uuid.UUID) (*domain.LedgerEntry, error) {
	var result *ledger.Result
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		var err error
		result, err = s.engine.ApprovePayout(ctx, tx, entryID)
		return err
	})
	if err != nil {
		return nil, wrapTxErr("approve payout", err)
	}

	s.logger.Info("payout approved", "entry_id", entryID)
	return result.Entry, nil
}

// Reject cancels a pending payout and refunds the reserved amount.
func (s *PayoutService) Reject(ctx context.Context, entryID uuid.UUID) (*domain.LedgerEntry, error) {
	var result *ledger.Result
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		var err error
		result, err = s.engine.RejectPayout(ctx, tx, entryID)
		return err
	})
	if err != nil {
		return nil, wrapTxErr("reject payout", err)
	}

	s.logger.Info("payout rejected", "entry_id", entryID, "refund", -result.Entry.Amount)
	return result.Entry, nil
}

// PendingQueue lists pending payout requests for the admin review screen.
func (s *PayoutService) PendingQueue(ctx context.Context, limit, offset int) ([]domain.LedgerEntry, error) {
	entries, err := s.entries.ListPendingPayouts(ctx, s.pool, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("list pending payouts", err)
	}
	return entries, nil
}
