package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/partnerlink/platform/internal/ledger"
	"github.com/partnerlink/platform/internal/repository"
)

// settlementLockID names the advisory lock that keeps two settler instances
// from draining the queue at once.
const settlementLockID = 7_421_001

// SettlerService drains the commission queue into weekly team-commission
// credits, one per partner.
type SettlerService struct {
	pool   *pgxpool.Pool
	queue  repository.CommissionQueueRepository
	outbox repository.OutboxRepository
	engine *ledger.Engine
	logger *slog.Logger

	mu sync.Mutex
}

// NewSettlerService creates a SettlerService.
func NewSettlerService(
	pool *pgxpool.Pool,
	queue repository.CommissionQueueRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *SettlerService {
	return &SettlerService{
		pool:   pool,
		queue:  queue,
		outbox: outbox,
		engine: engine,
		logger: logger,
	}
}

// SettlementStats summarizes one settlement pass.
type SettlementStats struct {
	Partners    int   `json:"partners"`
	RowsSettled int   `json:"rows_settled"`
	TotalAmount int64 `json:"total_amount"`
	Skipped     bool  `json:"skipped"`
}

// SettlePending runs one settlement pass. A second concurrent call, in this
// process or another, returns immediately with Skipped set.
//
// Each partner settles in its own transaction holding the credit and the
// mark-processed together, so a mid-run crash leaves earlier partners fully
// settled and later ones fully pending. Re-running never double-pays: the
// group pins the row IDs it aggregated, and MarkProcessed refuses rows that
// are no longer pending.
func (s *SettlerService) SettlePending(ctx context.Context) error {
	_, err := s.Settle(ctx)
	return err
}

// Settle is SettlePending with the pass statistics, used by the admin
// trigger endpoint.
func (s *SettlerService) Settle(ctx context.Context) (*SettlementStats, error) {
	if !s.mu.TryLock() {
		s.logger.Info("settlement already running in-process, skipping")
		return &SettlementStats{Skipped: true}, nil
	}
	defer s.mu.Unlock()

	// The advisory lock must live on one pinned connection; pool queries
	// would acquire and test it on different sessions.
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, domain.ErrInternal("acquire connection", err)
	}
	defer conn.Release()

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, settlementLockID).Scan(&acquired); err != nil {
		return nil, domain.ErrInternal("advisory lock", err)
	}
	if !acquired {
		s.logger.Info("settlement lock held elsewhere, skipping")
		return &SettlementStats{Skipped: true}, nil
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, settlementLockID)
	}()

	groups, err := s.queue.PendingGroups(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("drain pending commissions", err)
	}

	stats := &SettlementStats{}
	for _, group := range groups {
		if err := s.settleGroup(ctx, group); err != nil {
			// Earlier partners are committed; report and stop so the next
			// run picks up the remainder.
			s.logger.Error("settlement stopped mid-run",
				"partner_id", group.PartnerID, "error", err,
				"partners_settled", stats.Partners)
			return stats, wrapTxErr("settle commissions", err)
		}
		stats.Partners++
		stats.RowsSettled += group.RowCount
		stats.TotalAmount += group.TotalAmount
	}

	if stats.Partners > 0 {
		if err := s.emitCompleted(ctx, stats); err != nil {
			s.logger.Warn("settlement completed event not recorded", "error", err)
		}
	}

	s.logger.Info("settlement pass finished",
		"partners", stats.Partners,
		"rows", stats.RowsSettled,
		"total_amount", stats.TotalAmount)
	return stats, nil
}

func (s *SettlerService) settleGroup(ctx context.Context, group domain.PendingCommissionGroup) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		description := fmt.Sprintf("Weekly team commission: %d units, %d commission(s)",
			group.TotalUnits, group.RowCount)

		if _, err := s.engine.RecordCredit(ctx, tx, domain.CreditParams{
			PartnerID:   group.PartnerID,
			Kind:        domain.EntryTeamCommission,
			Amount:      group.TotalAmount,
			Description: description,
		}); err != nil {
			return err
		}

		return s.queue.MarkProcessed(ctx, tx, group.RowIDs, time.Now())
	})
}

func (s *SettlerService) emitCompleted(ctx context.Context, stats *SettlementStats) error {
	payload, _ := json.Marshal(stats)
	return s.outbox.Insert(ctx, s.pool, domain.OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: domain.AggregateSettlement,
		AggregateID:   uuid.New().String(),
		EventType:     domain.EventSettlementCompleted,
		PartitionKey:  "settlement",
		Payload:       payload,
		OccurredAt:    time.Now(),
	})
}
