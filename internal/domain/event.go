package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventPartnerCreated      EventType = "comp.partner.created"
	EventOrderPlaced         EventType = "comp.order.placed"
	EventEntryPosted         EventType = "comp.ledger.entry.posted"
	EventRankAdvanced        EventType = "comp.rank.advanced"
	EventSettlementCompleted EventType = "comp.settlement.completed"
	EventPayoutRequested     EventType = "comp.payout.requested"
	EventPayoutResolved      EventType = "comp.payout.resolved"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregatePartner    AggregateType = "partner"
	AggregateOrder      AggregateType = "order"
	AggregateLedger     AggregateType = "ledger"
	AggregateSettlement AggregateType = "settlement"
)

// OutboxDraft is the payload written to the event_outbox table, in the same
// transaction as the state change it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
