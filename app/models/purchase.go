package models

import "time"

const (
	PurchaseStatusActive     = "ACTIVE"
	PurchaseStatusRefunded   = "REFUNDED"
	PurchaseStatusChargeback = "CHARGEBACK"
)

// Purchase is one provider-side order. ExternalOrderID is the natural
// key: redelivery of the same order's lifecycle events must update this
// row, never create a second one. Status moves forward through provider
// events only; member-facing code never writes it.
type Purchase struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ExternalOrderID *string   `gorm:"uniqueIndex;type:varchar(191);default:null" json:"external_order_id,omitempty"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	ProductID       uint      `gorm:"not null;index" json:"product_id"`
	Status          string    `gorm:"type:varchar(20);not null;index" json:"status"`
	PaidAt          time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// GrantsAccess reports whether this row currently entitles the buyer.
func (p *Purchase) GrantsAccess() bool {
	return p.Status == PurchaseStatusActive
}
