package models

import "time"

// PasswordSetupToken backs the one-time definir-senha links. Only the
// sha256 of the raw token is stored. UsedAt transitions nil -> timestamp
// exactly once, inside the same transaction as the password write.
type PasswordSetupToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"uniqueIndex;type:varchar(64);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `gorm:"type:timestamp;default:null" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsExpired treats the expiry instant itself as expired.
func (t *PasswordSetupToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsUsable reports whether the token can still be consumed at now.
func (t *PasswordSetupToken) IsUsable(now time.Time) bool {
	return t.UsedAt == nil && !t.IsExpired(now)
}
