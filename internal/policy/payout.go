// Package policy holds the withdrawal rules that sit in front of the ledger.
package policy

import "github.com/partnerlink/platform/internal/domain"

// PayoutPolicy gates withdrawal requests before they reach the ledger.
// Amounts are minor currency units.
type PayoutPolicy struct {
	// MinWalletWithdrawal is the floor for partner-initiated withdrawals.
	MinWalletWithdrawal int64

	// MinWeeklyPayout is the floor the weekly settler would apply if payout
	// batching were enabled. It is carried in config and reported to admins
	// but not enforced: settlement credits of any size post to the wallet.
	MinWeeklyPayout int64
}

// ValidateWalletWithdrawal checks a partner-initiated withdrawal amount.
func (p PayoutPolicy) ValidateWalletWithdrawal(amount int64) error {
	if amount <= 0 {
		return domain.ErrValidation("withdrawal amount must be positive")
	}
	if amount < p.MinWalletWithdrawal {
		return domain.ErrMinWithdrawal(p.MinWalletWithdrawal)
	}
	return nil
}
