package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a sellable digital product. ExternalProductID links it to
// the payment provider's catalog; it is nullable because the primary
// product can predate provider-side registration.
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Slug              string         `gorm:"uniqueIndex;type:varchar(150);not null" json:"slug"`
	Title             string         `gorm:"type:varchar(200);not null" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	ExternalProductID *string        `gorm:"uniqueIndex;type:varchar(191);default:null" json:"external_product_id,omitempty"`
	EbookPath         string         `gorm:"type:varchar(255)" json:"-"`
	CoverURL          string         `gorm:"type:varchar(255)" json:"cover_url"`
	Active            bool           `gorm:"default:true;index" json:"active"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Offers []Offer `gorm:"foreignKey:ProductID" json:"offers,omitempty"`
}

// Offer is a provider-side checkout variant of a product, created
// opportunistically when an offer id accompanies a new product event.
type Offer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ExternalOfferID string    `gorm:"uniqueIndex;type:varchar(191);not null" json:"external_offer_id"`
	ProductID       uint      `gorm:"not null;index" json:"product_id"`
	CheckoutURL     string    `gorm:"type:varchar(255)" json:"checkout_url"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug builds a URL-safe slug from an external product id or title.
func DeriveSlug(s string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}
