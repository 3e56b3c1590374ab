package models

import "time"

// WebhookEvent is the append-only dedup ledger for provider webhook
// deliveries. The unique external event id is the sole idempotency
// signal: a conflicting insert means the event was already processed.
// Rows are immutable once created.
type WebhookEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ExternalEventID string    `gorm:"uniqueIndex;type:varchar(191);not null" json:"external_event_id"`
	ExternalOrderID *string   `gorm:"type:varchar(191);default:null;index" json:"external_order_id,omitempty"`
	EventType       string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	ReceivedAt      time.Time `gorm:"autoCreateTime;index" json:"received_at"`
}
