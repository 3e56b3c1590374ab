package checkout

import (
	"strings"

	"github.com/serenadigital/serena/internal/pkg/env"
)

const (
	EventPurchaseApproved = "purchase_approved"
	EventRefund           = "refund"
	EventChargeback       = "chargeback"
)

// Event is the normalized provider webhook payload handed to the
// pipeline after the HTTP layer validated shape and shared secret.
type Event struct {
	ID     string    `json:"id"`
	Event  string    `json:"event" validate:"required,oneof=purchase_approved refund chargeback"`
	Secret string    `json:"secret" validate:"required"`
	Data   EventData `json:"data" validate:"required"`
}

type EventData struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Customer EventCustomer  `json:"customer" validate:"required"`
	Product  *EventProduct  `json:"product,omitempty"`
	Offer    *EventOffer    `json:"offer,omitempty"`
}

type EventCustomer struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type EventProduct struct {
	ID string `json:"id"`
}

type EventOffer struct {
	ID string `json:"id"`
}

// OrderID returns the trimmed external order id, if any.
func (e Event) OrderID() string {
	return strings.TrimSpace(e.Data.ID)
}

// ExternalProductID returns the trimmed provider product id, if any.
func (e Event) ExternalProductID() string {
	if e.Data.Product == nil {
		return ""
	}
	return strings.TrimSpace(e.Data.Product.ID)
}

// ExternalOfferID returns the trimmed provider offer id, if any.
func (e Event) ExternalOfferID() string {
	if e.Data.Offer == nil {
		return ""
	}
	return strings.TrimSpace(e.Data.Offer.ID)
}

// Result reports the pipeline outcome. A duplicate delivery is a
// successful no-op, not an error.
type Result struct {
	Processed bool `json:"processed"`
	Duplicate bool `json:"duplicate"`
}

// Config is the explicitly-injected configuration for the pipeline and
// its HTTP layer. Components never read ambient process state.
type Config struct {
	// Secret is the shared webhook secret; exact string compare.
	Secret string
	// PrimaryProductID routes matching external product ids to the
	// canonical primary product row.
	PrimaryProductID string
	// PrimaryProductMatch is a substring fallback applied to external
	// product ids when PrimaryProductID does not match.
	PrimaryProductMatch string
	// PrimaryProductSlug/Title identify the canonical primary product
	// row upserted on first sight.
	PrimaryProductSlug  string
	PrimaryProductTitle string
	// BaseURL is the public site base used to build definir-senha links.
	BaseURL string
}

// ConfigFromEnv builds the pipeline config at wiring time.
func ConfigFromEnv() Config {
	return Config{
		Secret:              env.GetEnv("CHECKOUT_WEBHOOK_SECRET", ""),
		PrimaryProductID:    env.GetEnv("PRIMARY_PRODUCT_ID", ""),
		PrimaryProductMatch: env.GetEnv("PRIMARY_PRODUCT_MATCH", "ansiedade"),
		PrimaryProductSlug:  env.GetEnv("PRIMARY_PRODUCT_SLUG", "ansiedade-sob-controle"),
		PrimaryProductTitle: env.GetEnv("PRIMARY_PRODUCT_TITLE", "Ansiedade Sob Controle"),
		BaseURL:             strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"), "/"),
	}
}

// SetupURL builds the one-time credential-setup link for a raw token.
func (c Config) SetupURL(rawToken string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/definir-senha?token=" + rawToken
}
