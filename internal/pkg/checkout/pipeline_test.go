package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/serenadigital/serena/app/models"
)

// fakeRepository mirrors the upsert-by-natural-key semantics of the GORM
// repository in memory so pipeline behavior can be asserted without a DB.
type fakeRepository struct {
	events           map[string]*models.WebhookEvent
	productsBySlug   map[string]*models.Product
	productsByExtID  map[string]*models.Product
	usersByEmail     map[string]*models.User
	purchasesByOrder map[string]*models.Purchase
	offers           []*models.Offer
	nextID           uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		events:           map[string]*models.WebhookEvent{},
		productsBySlug:   map[string]*models.Product{},
		productsByExtID:  map[string]*models.Product{},
		usersByEmail:     map[string]*models.User{},
		purchasesByOrder: map[string]*models.Purchase{},
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) CreateWebhookEventIfNew(event *models.WebhookEvent) (bool, error) {
	if _, exists := f.events[event.ExternalEventID]; exists {
		return false, nil
	}
	event.ID = f.id()
	f.events[event.ExternalEventID] = event
	return true, nil
}

func (f *fakeRepository) GetProductByExternalID(externalID string) (*models.Product, error) {
	if p, ok := f.productsByExtID[externalID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpsertPrimaryProduct(slug, title, externalID string) (*models.Product, error) {
	p, ok := f.productsBySlug[slug]
	if !ok {
		p = &models.Product{ID: f.id(), Slug: slug, Title: title, Active: true}
		f.productsBySlug[slug] = p
	}
	if externalID != "" && p.ExternalProductID == nil {
		extID := externalID
		p.ExternalProductID = &extID
		f.productsByExtID[externalID] = p
	}
	return p, nil
}

func (f *fakeRepository) CreateProductWithOffer(product *models.Product, offer *models.Offer) (*models.Product, error) {
	if existing, ok := f.productsByExtID[*product.ExternalProductID]; ok {
		return existing, nil
	}
	product.ID = f.id()
	f.productsByExtID[*product.ExternalProductID] = product
	f.productsBySlug[product.Slug] = product
	if offer != nil {
		offer.ID = f.id()
		offer.ProductID = product.ID
		f.offers = append(f.offers, offer)
	}
	return product, nil
}

func (f *fakeRepository) UpsertUserByEmail(email, name string) (*models.User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		u = &models.User{ID: f.id(), Email: email, Name: name, Role: models.ROLE_USER, Status: models.STATUS_ACTIVE}
		f.usersByEmail[email] = u
		return u, nil
	}
	if name != "" {
		u.Name = name
	}
	return u, nil
}

func (f *fakeRepository) UpsertPurchaseByOrderID(orderID string, userID, productID uint, paidAt time.Time) (*models.Purchase, error) {
	p, ok := f.purchasesByOrder[orderID]
	if !ok {
		oid := orderID
		p = &models.Purchase{ID: f.id(), ExternalOrderID: &oid}
		f.purchasesByOrder[orderID] = p
	}
	p.UserID = userID
	p.ProductID = productID
	p.Status = models.PurchaseStatusActive
	p.PaidAt = paidAt
	return p, nil
}

func (f *fakeRepository) UpdatePurchaseStatusByOrderID(orderID, status string) (int64, error) {
	p, ok := f.purchasesByOrder[orderID]
	if !ok {
		return 0, nil
	}
	p.Status = status
	return 1, nil
}

type fakeIssuer struct {
	issued []uint
}

func (f *fakeIssuer) Issue(userID uint) (string, error) {
	f.issued = append(f.issued, userID)
	return fmt.Sprintf("raw-token-%d", len(f.issued)), nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return f.err
}

func testConfig() Config {
	return Config{
		Secret:              "shhh",
		PrimaryProductID:    "PROD-PRIMARY",
		PrimaryProductMatch: "ansiedade",
		PrimaryProductSlug:  "ansiedade-sob-controle",
		PrimaryProductTitle: "Ansiedade Sob Controle",
		BaseURL:             "https://serena.example",
	}
}

func newTestPipeline() (*Pipeline, *fakeRepository, *fakeIssuer, *fakeMailer) {
	repo := newFakeRepository()
	issuer := &fakeIssuer{}
	mailer := &fakeMailer{}
	return NewPipeline(testConfig(), repo, issuer, mailer), repo, issuer, mailer
}

func approvedEvent(eventID, orderID, email, name, productID string) Event {
	ev := Event{
		ID:    eventID,
		Event: EventPurchaseApproved,
		Data: EventData{
			ID:       orderID,
			Customer: EventCustomer{Email: email, Name: name},
		},
	}
	if productID != "" {
		ev.Data.Product = &EventProduct{ID: productID}
	}
	return ev
}

func TestProcessFirstPurchase(t *testing.T) {
	pipeline, repo, issuer, mailer := newTestPipeline()

	ev := approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1")
	result, err := pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.False(t, result.Duplicate)

	user, ok := repo.usersByEmail["a@x.com"]
	require.True(t, ok, "user should be created by email")
	assert.Equal(t, "Ana", user.Name)

	// "ansiedade" in the external id routes to the primary product.
	product, ok := repo.productsBySlug["ansiedade-sob-controle"]
	require.True(t, ok, "primary product should be created")
	require.NotNil(t, product.ExternalProductID)
	assert.Equal(t, "ansiedade-prod-1", *product.ExternalProductID)

	purchase, ok := repo.purchasesByOrder["ORDER-1"]
	require.True(t, ok)
	assert.Equal(t, models.PurchaseStatusActive, purchase.Status)
	assert.Equal(t, user.ID, purchase.UserID)
	assert.Equal(t, product.ID, purchase.ProductID)

	require.Len(t, issuer.issued, 1)
	assert.Equal(t, user.ID, issuer.issued[0])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[0].body, "/definir-senha?token=raw-token-1")
}

func TestProcessDuplicateDelivery(t *testing.T) {
	pipeline, repo, issuer, mailer := newTestPipeline()

	ev := approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1")
	_, err := pipeline.Process(context.Background(), ev)
	require.NoError(t, err)

	result, err := pipeline.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.False(t, result.Processed)

	// No new rows or side effects anywhere.
	assert.Len(t, repo.events, 1)
	assert.Len(t, repo.purchasesByOrder, 1)
	assert.Len(t, issuer.issued, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestProcessRefundTransitionsPurchase(t *testing.T) {
	pipeline, repo, _, _ := newTestPipeline()

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	refund := Event{
		ID:    "evt-2",
		Event: EventRefund,
		Data: EventData{
			ID:       "ORDER-1",
			Customer: EventCustomer{Email: "a@x.com"},
		},
	}
	result, err := pipeline.Process(context.Background(), refund)
	require.NoError(t, err)
	assert.True(t, result.Processed)

	assert.Equal(t, models.PurchaseStatusRefunded, repo.purchasesByOrder["ORDER-1"].Status)
	assert.Len(t, repo.purchasesByOrder, 1, "refund must not create rows")
}

func TestProcessChargeback(t *testing.T) {
	pipeline, repo, _, _ := newTestPipeline()

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "", "ansiedade-prod-1"))
	require.NoError(t, err)

	chargeback := Event{
		ID:    "evt-2",
		Event: EventChargeback,
		Data:  EventData{ID: "ORDER-1", Customer: EventCustomer{Email: "a@x.com"}},
	}
	_, err = pipeline.Process(context.Background(), chargeback)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusChargeback, repo.purchasesByOrder["ORDER-1"].Status)
}

func TestProcessRefundUnknownOrderIsNoOp(t *testing.T) {
	pipeline, repo, _, _ := newTestPipeline()

	refund := Event{
		ID:    "evt-9",
		Event: EventRefund,
		Data:  EventData{ID: "ORDER-404", Customer: EventCustomer{Email: "a@x.com"}},
	}
	result, err := pipeline.Process(context.Background(), refund)
	require.NoError(t, err)
	assert.True(t, result.Processed)
	assert.Empty(t, repo.purchasesByOrder)
}

func TestProcessRefundThenRepurchase(t *testing.T) {
	pipeline, repo, _, _ := newTestPipeline()

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	refund := Event{
		ID:    "evt-2",
		Event: EventRefund,
		Data:  EventData{ID: "ORDER-1", Customer: EventCustomer{Email: "a@x.com"}},
	}
	_, err = pipeline.Process(context.Background(), refund)
	require.NoError(t, err)

	_, err = pipeline.Process(context.Background(), approvedEvent("evt-3", "ORDER-2", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	// New order id creates a second row; the refunded one is untouched.
	require.Len(t, repo.purchasesByOrder, 2)
	assert.Equal(t, models.PurchaseStatusRefunded, repo.purchasesByOrder["ORDER-1"].Status)
	assert.Equal(t, models.PurchaseStatusActive, repo.purchasesByOrder["ORDER-2"].Status)
	assert.Len(t, repo.usersByEmail, 1, "same email must not duplicate the user")
}

func TestProcessRedeliveredOrderConverges(t *testing.T) {
	pipeline, repo, _, _ := newTestPipeline()

	// Two different event ids describing the same order (provider bug):
	// the upsert key is the order id, so the end state converges.
	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)
	_, err = pipeline.Process(context.Background(), approvedEvent("evt-2", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	assert.Len(t, repo.purchasesByOrder, 1)
	assert.Equal(t, models.PurchaseStatusActive, repo.purchasesByOrder["ORDER-1"].Status)
}

func TestProcessNormalizesEmail(t *testing.T) {
	pipeline, repo, _, mailer := newTestPipeline()

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "  Ana.Silva@X.COM ", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	_, ok := repo.usersByEmail["ana.silva@x.com"]
	assert.True(t, ok, "email must be trimmed and lowercased before the upsert")
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana.silva@x.com", mailer.sent[0].to)
}

func TestProcessMailFailureDoesNotAbortFulfillment(t *testing.T) {
	repo := newFakeRepository()
	issuer := &fakeIssuer{}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	pipeline := NewPipeline(testConfig(), repo, issuer, mailer)

	result, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err, "notification failure must never fail the pipeline")
	assert.True(t, result.Processed)
	assert.Equal(t, models.PurchaseStatusActive, repo.purchasesByOrder["ORDER-1"].Status)
}

func TestProcessMissingOrderIDSkipsPurchase(t *testing.T) {
	pipeline, repo, issuer, _ := newTestPipeline()

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "", "a@x.com", "Ana", "ansiedade-prod-1"))
	require.NoError(t, err)

	assert.Empty(t, repo.purchasesByOrder)
	assert.Len(t, repo.usersByEmail, 1)
	assert.Len(t, issuer.issued, 1, "token is still issued for the user")
}

func TestProcessMissingProductIDWithoutPrimaryFails(t *testing.T) {
	repo := newFakeRepository()
	cfg := testConfig()
	cfg.PrimaryProductSlug = ""
	pipeline := NewPipeline(cfg, repo, &fakeIssuer{}, &fakeMailer{})

	_, err := pipeline.Process(context.Background(), approvedEvent("evt-1", "ORDER-1", "a@x.com", "Ana", ""))
	require.ErrorIs(t, err, ErrMissingProductID)
}

func TestEventIdentity(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "provider event id wins",
			ev:   approvedEvent("evt-42", "ORDER-1", "a@x.com", "", "p"),
			want: "evt-42",
		},
		{
			name: "composite from type and order id",
			ev:   approvedEvent("", "ORDER-1", "a@x.com", "", "p"),
			want: "purchase_approved:ORDER-1",
		},
		{
			name: "composite from type and email as last resort",
			ev:   approvedEvent("", "", "A@X.com ", "", "p"),
			want: "purchase_approved:a@x.com",
		},
	}

	for _, tt := range tests {
		if got := EventIdentity(tt.ev); got != tt.want {
			t.Fatalf("%s: EventIdentity() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
