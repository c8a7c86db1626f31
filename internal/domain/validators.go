package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	referralCodeRegex = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateReferralCode checks the 8-char uppercase referral code shape.
func ValidateReferralCode(code string) error {
	if !referralCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid referral code format: %s", code)
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (minor units).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidatePositiveUnits checks that a sales unit count is at least 1.
func ValidatePositiveUnits(units int64) error {
	if units < 1 {
		return fmt.Errorf("sales units must be at least 1, got %d", units)
	}
	return nil
}
