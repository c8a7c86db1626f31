package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/repository"
)

// CompensationService serves the earnings read models.
type CompensationService struct {
	pool     *pgxpool.Pool
	partners repository.PartnerRepository
	queue    repository.CommissionQueueRepository
	engine   *ledger.Engine
	logger   *slog.Logger
}

// NewCompensationService creates a CompensationService.
func NewCompensationService(
	pool *pgxpool.Pool,
	partners repository.PartnerRepository,
	queue repository.CommissionQueueRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *CompensationService {
	return &CompensationService{
		pool:     pool,
		partners: partners,
		queue:    queue,
		engine:   engine,
		logger:   logger,
	}
}

// Summary assembles a partner's earnings overview. The per-kind fields sum
// approved entries only; pending weekly commissions come from the queue.
func (s *CompensationService) Summary(ctx context.Context, partnerID uuid.UUID) (*domain.CompensationSummary, error) {
	partner, err := s.partners.FindByID(ctx, s.pool, partnerID)
	if err != nil {
		return nil, domain.ErrInternal("lookup partner", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound("partner", partnerID.String())
	}

	summary := &domain.CompensationSummary{
		TotalEarnings: partner.TotalEarnings,
		WalletBalance: partner.WalletBalance,
	}

	if summary.PendingPayouts, err = s.engine.SumPendingPayouts(ctx, s.pool, partnerID); err != nil {
		return nil, domain.ErrInternal("sum pending payouts", err)
	}
	if summary.DirectReferralBonus, err = s.engine.SumByKind(ctx, s.pool, partnerID, domain.EntryDirectReferral); err != nil {
		return nil, domain.ErrInternal("sum referral bonuses", err)
	}
	if summary.TeamCommission, err = s.engine.SumByKind(ctx, s.pool, partnerID, domain.EntryTeamCommission); err != nil {
		return nil, domain.ErrInternal("sum team commissions", err)
	}
	if summary.RankBonuses, err = s.engine.SumByKind(ctx, s.pool, partnerID, domain.EntryRankBonus); err != nil {
		return nil, domain.ErrInternal("sum rank bonuses", err)
	}
	if summary.PendingWeeklyCommissions, err = s.queue.SumPendingByPartner(ctx, s.pool, partnerID); err != nil {
		return nil, domain.ErrInternal("sum pending commissions", err)
	}

	return summary, nil
}

// Feed returns a partner's most recent ledger entries.
func (s *CompensationService) Feed(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error) {
	entries, err := s.engine.Feed(ctx, s.pool, partnerID, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("entry feed", err)
	}
	return entries, nil
}

// QueuedCommissions returns a partner's commission queue rows.
func (s *CompensationService) QueuedCommissions(ctx context.Context, partnerID uuid.UUID, limit, offset int) ([]domain.QueuedCommission, error) {
	rows, err := s.queue.ListByPartner(ctx, s.pool, partnerID, limit, offset)
	if err != nil {
		return nil, domain.ErrInternal("list queued commissions", err)
	}
	return rows, nil
}

// Reconcile replays a partner's ledger against their stored balances.
func (s *CompensationService) Reconcile(ctx context.Context, partnerID uuid.UUID) (*ledger.ReconcileResult, error) {
	result, err := s.engine.Reconcile(ctx, s.pool, partnerID)
	if err != nil {
		return nil, err
	}
	if !result.AllPassed {
		s.logger.Warn("ledger reconciliation mismatch", "partner_id", partnerID)
	}
	return result, nil
}
