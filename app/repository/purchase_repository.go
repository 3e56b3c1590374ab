package repository

import (
	"github.com/serenadigital/serena/app/models"
	"gorm.io/gorm"
)

// purchaseRepository implements the PurchaseRepository interface.
// Purchases are created and transitioned exclusively by the webhook
// pipeline; this repository is read-only on purpose.
type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository instance
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Preload("User").Preload("Product").First(&purchase, id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetByUserID(userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.Preload("Product").Where("user_id = ?", userID).
		Order("paid_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) List(offset, limit int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.Preload("User").Preload("Product").
		Order("paid_at DESC").Offset(offset).Limit(limit).Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).Count(&count).Error
	return count, err
}

func (r *purchaseRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
