package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/serenadigital/serena/app/models"
	"github.com/serenadigital/serena/internal/pkg/mail"
)

// TokenIssuer mints one-time credential-setup tokens for a user and
// returns the raw value for embedding in the setup link.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

// Mailer is the transactional email contract. Failures are best-effort
// for the pipeline: logged, never propagated.
type Mailer interface {
	Send(to, subject, body string) error
}

// Pipeline orchestrates purchase fulfillment: idempotency gate, event
// dispatch, user/product/purchase reconciliation, token issuance and
// best-effort notification.
type Pipeline struct {
	cfg    Config
	repo   Repository
	tokens TokenIssuer
	mailer Mailer
}

// NewPipeline wires the pipeline from its injected collaborators.
func NewPipeline(cfg Config, repo Repository, tokens TokenIssuer, mailer Mailer) *Pipeline {
	return &Pipeline{cfg: cfg, repo: repo, tokens: tokens, mailer: mailer}
}

// EventIdentity computes the stable idempotency key: the provider's
// event id when present, otherwise a composite of event type and order
// id (or customer email as a last resort).
func EventIdentity(ev Event) string {
	if ev.ID != "" {
		return ev.ID
	}
	if orderID := ev.OrderID(); orderID != "" {
		return fmt.Sprintf("%s:%s", ev.Event, orderID)
	}
	return fmt.Sprintf("%s:%s", ev.Event, models.NormalizeEmail(ev.Data.Customer.Email))
}

// Process runs one webhook event through the pipeline. Redelivery of an
// already-seen event id returns a duplicate result with no side effects.
// Database errors other than the anticipated uniqueness conflict
// propagate untouched; the provider's own delivery retries plus the
// idempotency gate make that safe.
func (p *Pipeline) Process(ctx context.Context, ev Event) (Result, error) {
	_ = ctx

	ledgerEntry := &models.WebhookEvent{
		ExternalEventID: EventIdentity(ev),
		EventType:       ev.Event,
	}
	if orderID := ev.OrderID(); orderID != "" {
		ledgerEntry.ExternalOrderID = &orderID
	}

	created, err := p.repo.CreateWebhookEventIfNew(ledgerEntry)
	if err != nil {
		return Result{}, err
	}
	if !created {
		return Result{Processed: false, Duplicate: true}, nil
	}

	switch ev.Event {
	case EventPurchaseApproved:
		if err := p.handlePurchaseApproved(ev); err != nil {
			return Result{}, err
		}
	case EventRefund:
		if err := p.handleRevocation(ev, models.PurchaseStatusRefunded); err != nil {
			return Result{}, err
		}
	case EventChargeback:
		if err := p.handleRevocation(ev, models.PurchaseStatusChargeback); err != nil {
			return Result{}, err
		}
	default:
		return Result{}, fmt.Errorf("checkout: unknown event type %q", ev.Event)
	}

	return Result{Processed: true}, nil
}

func (p *Pipeline) handlePurchaseApproved(ev Event) error {
	email := models.NormalizeEmail(ev.Data.Customer.Email)

	product, err := p.resolveProduct(ev)
	if err != nil {
		return err
	}

	user, err := p.repo.UpsertUserByEmail(email, ev.Data.Customer.Name)
	if err != nil {
		return err
	}

	if orderID := ev.OrderID(); orderID != "" {
		if _, err := p.repo.UpsertPurchaseByOrderID(orderID, user.ID, product.ID, time.Now()); err != nil {
			return err
		}
	}

	rawToken, err := p.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	p.sendAccessGranted(ev, user, product, rawToken)
	return nil
}

// sendAccessGranted is the explicitly best-effort side effect: loss of a
// notification must never roll back an already-granted purchase. The
// buyer can still reach the member area through password recovery.
func (p *Pipeline) sendAccessGranted(ev Event, user *models.User, product *models.Product, rawToken string) {
	subject, body := mail.AccessGrantedMessage(user.Name, product.Title, p.cfg.SetupURL(rawToken))
	if err := p.mailer.Send(user.Email, subject, body); err != nil {
		log.Printf("checkout: access email failed user_id=%d order_id=%s event_id=%s: %v",
			user.ID, ev.OrderID(), EventIdentity(ev), err)
	}
}

func (p *Pipeline) handleRevocation(ev Event, status string) error {
	orderID := ev.OrderID()
	if orderID == "" {
		// Nothing to revoke.
		return nil
	}
	affected, err := p.repo.UpdatePurchaseStatusByOrderID(orderID, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Printf("checkout: %s for unknown order_id=%s ignored", ev.Event, orderID)
	}
	return nil
}
