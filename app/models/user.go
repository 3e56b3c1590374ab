package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"
)

// User is a member account. Accounts are provisioned by the checkout
// webhook on first purchase; PasswordHash stays empty until the buyer
// completes the definir-senha flow ("pending first access").
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150)" json:"name"`
	Email        string         `gorm:"uniqueIndex;type:varchar(200)" json:"email"`
	PasswordHash string         `gorm:"type:text" json:"-"`
	Role         string         `gorm:"type:varchar(50);default:'user'" json:"role"`
	Status       string         `gorm:"type:varchar(50);default:'active'" json:"status"`
	LastLoginAt  *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// NormalizeEmail is the canonical email form used as the upsert key
// everywhere (webhook reconciliation, login, recovery).
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// HasPassword reports whether the credential-setup flow has completed.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	if !u.HasPassword() {
		return false
	}
	return CheckPasswordHash(password, u.PasswordHash)
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsAdmin reports whether the user may enter the admin console.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}
