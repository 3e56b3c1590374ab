package token

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/serenadigital/serena/app/models"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a token repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateToken(t *models.PasswordSetupToken) error {
	return r.db.Create(t).Error
}

func (r *gormRepository) FindByHash(tokenHash string) (*models.PasswordSetupToken, error) {
	var t models.PasswordSetupToken
	if err := r.db.Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
		if IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return &t, nil
}

// ConsumeAndSetPassword redeems the token and writes the password in one
// transaction. The guarded update on used_at IS NULL makes the storage
// engine pick exactly one winner among concurrent redeems.
func (r *gormRepository) ConsumeAndSetPassword(tokenHash, passwordHash string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var t models.PasswordSetupToken
		if err := tx.Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
			if IsNotFound(err) {
				return ErrTokenInvalid
			}
			return err
		}
		if !t.IsUsable(now) {
			return ErrTokenInvalid
		}

		res := tx.Model(&models.PasswordSetupToken{}).
			Where("id = ? AND used_at IS NULL", t.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent redeem.
			return ErrTokenInvalid
		}

		return tx.Model(&models.User{}).
			Where("id = ?", t.UserID).
			Update("password_hash", passwordHash).Error
	})
}

// IsNotFound reports whether err is the GORM not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
