package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewEntryPostedEvent creates the standard ledger event for an entry.
func NewEntryPostedEvent(entry *LedgerEntry) OutboxDraft {
	payload, _ := json.Marshal(entry)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   entry.PartnerID.String(),
		EventType:     EventEntryPosted,
		PartitionKey:  entry.PartnerID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPartnerCreatedEvent creates a partner lifecycle event.
func NewPartnerCreatedEvent(partner *Partner) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"partner_id":    partner.ID.String(),
		"email":         partner.Email,
		"referral_code": partner.ReferralCode,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregatePartner,
		AggregateID:   partner.ID.String(),
		EventType:     EventPartnerCreated,
		PartitionKey:  partner.ID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewOrderPlacedEvent creates an order lifecycle event.
func NewOrderPlacedEvent(order *Order) OutboxDraft {
	payload, _ := json.Marshal(order)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateOrder,
		AggregateID:   order.ID.String(),
		EventType:     EventOrderPlaced,
		PartitionKey:  order.PartnerID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewRankAdvancedEvent creates a promotion event.
func NewRankAdvancedEvent(partnerID uuid.UUID, from, to Rank, totalUnits int64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"partner_id":  partnerID.String(),
		"from_rank":   from,
		"to_rank":     to,
		"total_units": totalUnits,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregatePartner,
		AggregateID:   partnerID.String(),
		EventType:     EventRankAdvanced,
		PartitionKey:  partnerID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPayoutRequestedEvent announces a new pending withdrawal.
func NewPayoutRequestedEvent(entry *LedgerEntry) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"entry_id":   entry.ID.String(),
		"partner_id": entry.PartnerID.String(),
		"amount":     entry.Amount,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   entry.PartnerID.String(),
		EventType:     EventPayoutRequested,
		PartitionKey:  entry.PartnerID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewPayoutResolvedEvent records an admin approve/reject decision.
func NewPayoutResolvedEvent(entry *LedgerEntry) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"entry_id":   entry.ID.String(),
		"partner_id": entry.PartnerID.String(),
		"amount":     entry.Amount,
		"status":     entry.Status,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   entry.PartnerID.String(),
		EventType:     EventPayoutResolved,
		PartitionKey:  entry.PartnerID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
