package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/partnerlink/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func entry(kind domain.EntryKind, amount int64, status domain.EntryStatus) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:        uuid.New(),
		PartnerID: uuid.New(),
		Kind:      kind,
		Amount:    amount,
		Status:    status,
	}
}

func TestReplay(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		r := Replay(nil)
		assert.Equal(t, int64(0), r.WalletBalance)
		assert.Equal(t, int64(0), r.TotalEarnings)
		assert.Equal(t, 0, r.EntryCount)
	})

	t.Run("credits raise wallet and earnings together", func(t *testing.T) {
		r := Replay([]domain.LedgerEntry{
			entry(domain.EntryDirectReferral, 100_000, domain.EntryStatusApproved),
			entry(domain.EntryTeamCommission, 50_000, domain.EntryStatusApproved),
			entry(domain.EntryRankBonus, 1_000_000, domain.EntryStatusApproved),
		})
		assert.Equal(t, int64(1_150_000), r.WalletBalance)
		assert.Equal(t, int64(1_150_000), r.TotalEarnings)
	})

	t.Run("pending payout lowers wallet but not earnings", func(t *testing.T) {
		r := Replay([]domain.LedgerEntry{
			entry(domain.EntryDirectReferral, 500_000, domain.EntryStatusApproved),
			entry(domain.EntryPayout, -200_000, domain.EntryStatusPending),
		})
		assert.Equal(t, int64(300_000), r.WalletBalance)
		assert.Equal(t, int64(500_000), r.TotalEarnings)
	})

	t.Run("approved payout stays deducted", func(t *testing.T) {
		r := Replay([]domain.LedgerEntry{
			entry(domain.EntryDirectReferral, 500_000, domain.EntryStatusApproved),
			entry(domain.EntryPayout, -200_000, domain.EntryStatusApproved),
		})
		assert.Equal(t, int64(300_000), r.WalletBalance)
	})

	t.Run("cancelled payout contributes nothing", func(t *testing.T) {
		r := Replay([]domain.LedgerEntry{
			entry(domain.EntryDirectReferral, 500_000, domain.EntryStatusApproved),
			entry(domain.EntryPayout, -200_000, domain.EntryStatusCancelled),
		})
		assert.Equal(t, int64(500_000), r.WalletBalance)
		assert.Equal(t, int64(500_000), r.TotalEarnings)
	})
}
