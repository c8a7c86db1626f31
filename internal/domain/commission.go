package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommissionStatus enumerates queued commission row states.
type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "pending"
	CommissionProcessed CommissionStatus = "processed"
	CommissionCancelled CommissionStatus = "cancelled"
)

// QueuedCommission is one per-upline commission row awaiting weekly
// settlement. Rows are append-only and never deleted.
type QueuedCommission struct {
	ID            uuid.UUID        `json:"id"`
	PartnerID     uuid.UUID        `json:"partner_id"`
	SourceOrderID uuid.UUID        `json:"source_order_id"`
	Level         int              `json:"level"`
	SalesUnits    int64            `json:"sales_units"`
	Amount        int64            `json:"amount"`
	WindowStart   time.Time        `json:"window_start"`
	WindowEnd     time.Time        `json:"window_end"`
	Status        CommissionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	ProcessedAt   *time.Time       `json:"processed_at,omitempty"`
}

// WeekWindow returns the aggregation window containing t: Monday 00:00 of
// t's week through the following Monday, in t's location.
func WeekWindow(t time.Time) (start, end time.Time) {
	daysBack := (int(t.Weekday()) - int(time.Monday) + 7) % 7
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -daysBack)
	return start, start.AddDate(0, 0, 7)
}

// PendingCommissionGroup is one partner's pending rows aggregated for a
// settler pass. RowIDs pins the exact set so a re-run cannot double-pay.
type PendingCommissionGroup struct {
	PartnerID   uuid.UUID
	TotalAmount int64
	TotalUnits  int64
	RowCount    int
	RowIDs      []uuid.UUID
}
