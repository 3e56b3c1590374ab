package checkout

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/serenadigital/serena/app/models"
)

// Repository provides the DB operations used by the webhook pipeline.
// All writes are idempotent upserts keyed by natural external
// identifiers so concurrent redeliveries converge without locks.
type Repository interface {
	CreateWebhookEventIfNew(event *models.WebhookEvent) (bool, error)
	GetProductByExternalID(externalID string) (*models.Product, error)
	UpsertPrimaryProduct(slug, title, externalID string) (*models.Product, error)
	CreateProductWithOffer(product *models.Product, offer *models.Offer) (*models.Product, error)
	UpsertUserByEmail(email, name string) (*models.User, error)
	UpsertPurchaseByOrderID(orderID string, userID, productID uint, paidAt time.Time) (*models.Purchase, error)
	UpdatePurchaseStatusByOrderID(orderID, status string) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a checkout repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateWebhookEventIfNew is the idempotency gate. The unique index on
// external_event_id picks exactly one winner among concurrent inserts;
// losers see RowsAffected == 0 and report a duplicate.
func (r *gormRepository) CreateWebhookEventIfNew(event *models.WebhookEvent) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) GetProductByExternalID(externalID string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("external_product_id = ?", externalID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertPrimaryProduct resolves the canonical single-SKU product row by
// slug, creating it on first sight and backfilling the external product
// id once the provider starts sending one.
func (r *gormRepository) UpsertPrimaryProduct(slug, title, externalID string) (*models.Product, error) {
	product := &models.Product{
		Slug:   slug,
		Title:  title,
		Active: true,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(product).Error; err != nil {
		return nil, err
	}

	var stored models.Product
	if err := r.db.Where("slug = ?", slug).First(&stored).Error; err != nil {
		return nil, err
	}

	if externalID != "" && stored.ExternalProductID == nil {
		if err := r.db.Model(&stored).Update("external_product_id", externalID).Error; err != nil {
			return nil, err
		}
		stored.ExternalProductID = &externalID
	}
	return &stored, nil
}

// CreateProductWithOffer creates a product keyed by external product id,
// attaching the offer when one accompanies the event. The conflict
// clause absorbs a concurrent create of the same provider product.
func (r *gormRepository) CreateProductWithOffer(product *models.Product, offer *models.Offer) (*models.Product, error) {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_product_id"}},
		DoNothing: true,
	}).Create(product).Error; err != nil {
		return nil, err
	}

	var stored models.Product
	if err := r.db.Where("external_product_id = ?", *product.ExternalProductID).First(&stored).Error; err != nil {
		return nil, err
	}

	if offer != nil {
		offer.ProductID = stored.ID
		if err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_offer_id"}},
			DoNothing: true,
		}).Create(offer).Error; err != nil {
			return nil, err
		}
	}
	return &stored, nil
}

// UpsertUserByEmail creates the user on first sight of a new email and
// refreshes the name when the event carries one.
func (r *gormRepository) UpsertUserByEmail(email, name string) (*models.User, error) {
	user := &models.User{
		Email:  email,
		Name:   name,
		Role:   models.ROLE_USER,
		Status: models.STATUS_ACTIVE,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(user).Error; err != nil {
		return nil, err
	}

	var stored models.User
	if err := r.db.Where("email = ?", email).First(&stored).Error; err != nil {
		return nil, err
	}

	if name != "" && stored.Name != name {
		if err := r.db.Model(&stored).Update("name", name).Error; err != nil {
			return nil, err
		}
		stored.Name = name
	}
	return &stored, nil
}

// UpsertPurchaseByOrderID creates or reactivates the purchase row for an
// external order id. Re-delivery and refund-then-repurchase both land on
// the same row with a fresh paid_at.
func (r *gormRepository) UpsertPurchaseByOrderID(orderID string, userID, productID uint, paidAt time.Time) (*models.Purchase, error) {
	purchase := &models.Purchase{
		ExternalOrderID: &orderID,
		UserID:          userID,
		ProductID:       productID,
		Status:          models.PurchaseStatusActive,
		PaidAt:          paidAt,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"product_id",
			"status",
			"paid_at",
			"updated_at",
		}),
	}).Create(purchase).Error; err != nil {
		return nil, err
	}

	var stored models.Purchase
	if err := r.db.Where("external_order_id = ?", orderID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdatePurchaseStatusByOrderID moves every purchase row for the order
// to the given status and reports how many rows matched. Zero matches is
// a silent no-op for the caller.
func (r *gormRepository) UpdatePurchaseStatusByOrderID(orderID, status string) (int64, error) {
	tx := r.db.Model(&models.Purchase{}).
		Where("external_order_id = ?", orderID).
		Update("status", status)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// IsRecordNotFound reports whether err is the GORM not-found sentinel.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
