package access

import (
	"errors"

	"gorm.io/gorm"

	"github.com/serenadigital/serena/app/models"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an access repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// FindCurrentAccess loads the newest ACTIVE purchase joined to the
// product slug. The query is re-run on every protected request; there is
// deliberately no caching layer in front of it.
func (r *gormRepository) FindCurrentAccess(userID uint, productSlug string) (*models.Purchase, *models.User, *models.Product, error) {
	var purchase models.Purchase
	err := r.db.
		Joins("JOIN products ON products.id = purchases.product_id").
		Where("purchases.user_id = ? AND purchases.status = ? AND products.slug = ?",
			userID, models.PurchaseStatusActive, productSlug).
		Order("purchases.paid_at DESC").
		First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil
		}
		return nil, nil, nil, err
	}

	var user models.User
	if err := r.db.First(&user, purchase.UserID).Error; err != nil {
		return nil, nil, nil, err
	}
	var product models.Product
	if err := r.db.First(&product, purchase.ProductID).Error; err != nil {
		return nil, nil, nil, err
	}

	return &purchase, &user, &product, nil
}
