package access

import (
	"github.com/serenadigital/serena/app/models"
)

// Grant carries the minimum claims downstream consumers need: the
// personalizer and progress tracking get ids, never full rows.
type Grant struct {
	UserID      uint
	Email       string
	ProductID   uint
	ProductSlug string
	EbookPath   string
}

// Repository resolves the newest ACTIVE purchase for a user and product
// slug. Implementations return (nil, nil, nil, nil) when no such row
// exists so the guard can deny without leaking why.
type Repository interface {
	FindCurrentAccess(userID uint, productSlug string) (*models.Purchase, *models.User, *models.Product, error)
}

// Guard proves on every protected request that the caller currently
// holds an ACTIVE purchase for the product. Results are never cached: a
// refund takes effect on the purchaser's very next request.
type Guard struct {
	repo Repository
}

// NewGuard creates an access guard on the given repository.
func NewGuard(repo Repository) *Guard {
	return &Guard{repo: repo}
}

// Check returns a grant, or nil when access must be denied. Callers
// cannot tell a missing session, an unknown product and a revoked
// purchase apart.
func (g *Guard) Check(userID uint, productSlug string) (*Grant, error) {
	if userID == 0 || productSlug == "" {
		return nil, nil
	}

	purchase, user, product, err := g.repo.FindCurrentAccess(userID, productSlug)
	if err != nil {
		return nil, err
	}
	if purchase == nil || !purchase.GrantsAccess() {
		return nil, nil
	}

	return &Grant{
		UserID:      user.ID,
		Email:       user.Email,
		ProductID:   product.ID,
		ProductSlug: product.Slug,
		EbookPath:   product.EbookPath,
	}, nil
}
