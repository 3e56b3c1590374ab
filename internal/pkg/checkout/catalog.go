package checkout

import (
	"errors"
	"strings"

	"github.com/serenadigital/serena/app/models"
)

// ErrMissingProductID signals a provider contract violation: an event
// without a product id that does not route to the primary product.
// There is no recovery; it propagates for operator attention.
var ErrMissingProductID = errors.New("checkout: event carries no product id and no primary product is configured")

// routesToPrimary decides whether an external product id belongs to the
// canonical primary product. A missing id routes to the primary as long
// as one is configured (single-SKU storefront bootstrapped before the
// provider-side catalog existed).
func (p *Pipeline) routesToPrimary(externalID string) bool {
	if p.cfg.PrimaryProductSlug == "" {
		return false
	}
	if externalID == "" {
		return true
	}
	if p.cfg.PrimaryProductID != "" && externalID == p.cfg.PrimaryProductID {
		return true
	}
	if p.cfg.PrimaryProductMatch != "" &&
		strings.Contains(strings.ToLower(externalID), strings.ToLower(p.cfg.PrimaryProductMatch)) {
		return true
	}
	return false
}

// resolveProduct implements the catalog reconciliation policy: primary
// routing first, then unique lookup by external id, then opportunistic
// create with a derived slug and the accompanying offer.
func (p *Pipeline) resolveProduct(ev Event) (*models.Product, error) {
	externalID := ev.ExternalProductID()

	if p.routesToPrimary(externalID) {
		return p.repo.UpsertPrimaryProduct(p.cfg.PrimaryProductSlug, p.cfg.PrimaryProductTitle, externalID)
	}

	if externalID == "" {
		return nil, ErrMissingProductID
	}

	product, err := p.repo.GetProductByExternalID(externalID)
	if err == nil {
		return product, nil
	}
	if !IsRecordNotFound(err) {
		return nil, err
	}

	slug := models.DeriveSlug(externalID)
	newProduct := &models.Product{
		Slug:              slug,
		Title:             externalID,
		ExternalProductID: &externalID,
		Active:            true,
	}

	var offer *models.Offer
	if offerID := ev.ExternalOfferID(); offerID != "" {
		offer = &models.Offer{ExternalOfferID: offerID}
	}

	return p.repo.CreateProductWithOffer(newProduct, offer)
}
