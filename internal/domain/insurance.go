package domain

import (
	"time"

	"github.com/google/uuid"
)

// InsuranceStatus enumerates insurance assignment states.
type InsuranceStatus string

const (
	InsuranceActive    InsuranceStatus = "active"
	InsuranceExpired   InsuranceStatus = "expired"
	InsuranceCancelled InsuranceStatus = "cancelled"
)

// InsuranceAssignment records the one-shot insurance entitlement granted on
// a rank promotion. At most one active assignment exists per partner per rank.
type InsuranceAssignment struct {
	ID         uuid.UUID       `json:"id"`
	PartnerID  uuid.UUID       `json:"partner_id"`
	Rank       Rank            `json:"rank"`
	Amount     int64           `json:"amount"`
	Status     InsuranceStatus `json:"status"`
	AssignedAt time.Time       `json:"assigned_at"`
}
