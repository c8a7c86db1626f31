package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/partnerlink/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PartnerRepository provides access to partners.
type PartnerRepository interface {
	// FindByID returns a partner by ID, or nil when absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Partner, error)

	// FindByEmail returns a partner by email, or nil when absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.Partner, error)

	// FindByReferralCode returns the partner owning the code, or nil.
	FindByReferralCode(ctx context.Context, db DBTX, code string) (*domain.Partner, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns
	// the partner. Returns nil when the row does not exist.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Partner, error)

	// Create inserts a new partner.
	Create(ctx context.Context, db DBTX, partner *domain.Partner) error

	// ApplyWalletDelta atomically adjusts wallet_balance and total_earnings
	// using server-side arithmetic. The caller must hold the row lock.
	ApplyWalletDelta(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, delta domain.WalletDelta) (*domain.Partner, error)

	// RecordDirectSale bumps direct_sales_units and last_sale_at for the buyer.
	RecordDirectSale(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, units int64, at time.Time) error

	// IncrementTeamSales bumps team_sales_units for an upline partner.
	IncrementTeamSales(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, units int64) error

	// IncrementDirectReferrals bumps the direct referral counter.
	IncrementDirectReferrals(ctx context.Context, db DBTX, partnerID uuid.UUID) error

	// SetRank updates rank and insurance_amount after a promotion.
	SetRank(ctx context.Context, tx pgx.Tx, partnerID uuid.UUID, rank domain.Rank, insuranceAmount int64) error

	// List returns partners ordered by created_at DESC for the admin surface.
	List(ctx context.Context, db DBTX, limit, offset int) ([]domain.Partner, error)
}

// PackageRepository provides access to packages.
type PackageRepository interface {
	// Create inserts a new package.
	Create(ctx context.Context, db DBTX, pkg *domain.Package) error

	// FindByID returns a package by ID, or nil when absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Package, error)

	// ListActive returns purchasable packages ordered by price.
	ListActive(ctx context.Context, db DBTX) ([]domain.Package, error)

	// List returns all packages, active or not, for the admin surface.
	List(ctx context.Context, db DBTX) ([]domain.Package, error)

	// SetActive toggles whether a package can be purchased.
	SetActive(ctx context.Context, db DBTX, id uuid.UUID, active bool) error
}

// OrderRepository provides access to orders.
type OrderRepository interface {
	// Insert creates a new order row.
	Insert(ctx context.Context, db DBTX, order *domain.Order) error

	// FindByID returns an order joined with its package name, or nil.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Order, error)

	// LockForUpdate locks an order row for a status transition.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error)

	// UpdateStatus moves an order to a terminal status, stamping paid_at for
	// paid orders.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.OrderStatus, paidAt *time.Time) error

	// ListByPartner returns a partner's orders, newest first.
	ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.Order, error)

	// List returns all orders for admin reports, newest first.
	List(ctx context.Context, db DBTX, status *domain.OrderStatus, limit, offset int) ([]domain.Order, error)
}

// EntryRepository provides access to ledger_entries.
type EntryRepository interface {
	// Insert appends a ledger entry. Rows are never updated except for the
	// payout status transition.
	Insert(ctx context.Context, db DBTX, entry *domain.LedgerEntry) error

	// FindByID returns an entry by ID, or nil when absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.LedgerEntry, error)

	// LockForUpdate locks an entry row for a payout resolution.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LedgerEntry, error)

	// ResolveStatus stamps a terminal status and processed_at on an entry.
	ResolveStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.EntryStatus, processedAt time.Time) error

	// ListByPartner returns a partner's entries, newest first.
	ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.LedgerEntry, error)

	// ListPendingPayouts returns all pending payout entries for the admin queue.
	ListPendingPayouts(ctx context.Context, db DBTX, limit, offset int) ([]domain.LedgerEntry, error)

	// SumByKind totals approved entry amounts of one kind for a partner.
	SumByKind(ctx context.Context, db DBTX, partnerID uuid.UUID, kind domain.EntryKind) (int64, error)

	// SumPendingPayouts totals the absolute value of a partner's pending
	// payout entries.
	SumPendingPayouts(ctx context.Context, db DBTX, partnerID uuid.UUID) (int64, error)
}

// CommissionQueueRepository provides access to commission_queue.
type CommissionQueueRepository interface {
	// Insert appends a pending commission row.
	Insert(ctx context.Context, db DBTX, c *domain.QueuedCommission) error

	// PendingGroups aggregates pending rows per partner, pinning the exact
	// row IDs so a settlement pass is idempotent.
	PendingGroups(ctx context.Context, db DBTX) ([]domain.PendingCommissionGroup, error)

	// MarkProcessed flips the given rows to processed. Must run in the same
	// transaction as the settlement credit.
	MarkProcessed(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, processedAt time.Time) error

	// SumPendingByPartner totals a partner's unsettled commission amounts.
	SumPendingByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID) (int64, error)

	// ListByPartner returns a partner's queued commissions, newest first.
	ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID, limit, offset int) ([]domain.QueuedCommission, error)
}

// InsuranceRepository provides access to insurance_assignments.
type InsuranceRepository interface {
	// Insert records a new assignment. The partial unique index rejects a
	// second active assignment for the same partner and rank.
	Insert(ctx context.Context, db DBTX, a *domain.InsuranceAssignment) error

	// ListByPartner returns a partner's assignments, newest first.
	ListByPartner(ctx context.Context, db DBTX, partnerID uuid.UUID) ([]domain.InsuranceAssignment, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the same transaction as the state
	// change it describes.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
}
