package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

// SupportTicket is a member support request managed from the admin
// console. UUID is the public reference shown to members.
type SupportTicket struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"uniqueIndex;type:varchar(36);not null" json:"uuid"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Subject   string         `gorm:"type:varchar(200);not null" json:"subject"`
	Status    string         `gorm:"type:varchar(20);default:'open';index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User     User                   `gorm:"foreignKey:UserID" json:"-"`
	Messages []SupportTicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

// SupportTicketMessage is one entry in a ticket conversation.
type SupportTicketMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	FromAdmin bool      `gorm:"default:false" json:"from_admin"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate assigns the public reference.
func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	return nil
}
