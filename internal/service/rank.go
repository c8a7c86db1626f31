package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/repository"
)

// RankService runs the promotion ladder after a purchase.
type RankService struct {
	partners  repository.PartnerRepository
	insurance repository.InsuranceRepository
	outbox    repository.OutboxRepository
	engine    *ledger.Engine
	ladder    []domain.RankStep
	logger    *slog.Logger
}

// NewRankService creates a RankService. A nil ladder means the default.
func NewRankService(
	partners repository.PartnerRepository,
	insurance repository.InsuranceRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	ladder []domain.RankStep,
	logger *slog.Logger,
) *RankService {
	if ladder == nil {
		ladder = domain.RankLadder
	}
	return &RankService{
		partners:  partners,
		insurance: insurance,
		outbox:    outbox,
		engine:    engine,
		ladder:    ladder,
		logger:    logger,
	}
}

// EvaluateAfterPurchase checks the buyer against the rank ladder and, on a
// promotion, posts the rank bonus, records the insurance assignment, and
// updates the partner row. Runs inside the caller's ingest transaction; a
// call promotes at most one step.
func (s *RankService) EvaluateAfterPurchase(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID) error {
	// Re-read inside the transaction: the ingest has already bumped the
	// buyer's counters, and the caller holds the row lock.
	partner, err := s.partners.FindByID(ctx, tx, partnerID)
	if err != nil {
		return fmt.Errorf("rank evaluation: %w", err)
	}
	if partner == nil {
		return domain.ErrNotFound("partner", partnerID.String())
	}

	totalUnits := partner.TotalSalesUnits()
	step, ok := domain.NextQualifiedRank(s.ladder, partner.Rank, totalUnits)
	if !ok {
		return nil
	}

	if _, err := s.engine.RecordCredit(ctx, tx, domain.CreditParams{
		PartnerID:   partner.ID,
		Kind:        domain.EntryRankBonus,
		Amount:      step.Bonus,
		Description: fmt.Sprintf("Rank bonus: promoted to %s at %d units", step.Rank, totalUnits),
	}); err != nil {
		return fmt.Errorf("rank bonus: %w", err)
	}

	insuranceAmount := partner.InsuranceAmount
	if step.Insurance > 0 {
		insuranceAmount = step.Insurance
		if err := s.insurance.Insert(ctx, tx, &domain.InsuranceAssignment{
			ID:         uuid.New(),
			PartnerID:  partner.ID,
			Rank:       step.Rank,
			Amount:     step.Insurance,
			Status:     domain.InsuranceActive,
			AssignedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("insurance assignment: %w", err)
		}
	}

	if err := s.partners.SetRank(ctx, tx, partner.ID, step.Rank, insuranceAmount); err != nil {
		return fmt.Errorf("set rank: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, domain.NewRankAdvancedEvent(partner.ID, partner.Rank, step.Rank, totalUnits)); err != nil {
		return fmt.Errorf("rank event: %w", err)
	}

	s.logger.Info("partner promoted",
		"partner_id", partner.ID,
		"from", partner.Rank,
		"to", step.Rank,
		"total_units", totalUnits)
	return nil
}
