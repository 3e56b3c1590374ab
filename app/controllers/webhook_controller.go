package controllers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/serenadigital/serena/internal/pkg/checkout"
)

// WebhookController is the HTTP boundary of the purchase-fulfillment
// pipeline. It owns payload validation and the shared-secret check; the
// pipeline itself never sees an unauthenticated or malformed event.
type WebhookController struct {
	cfg      checkout.Config
	pipeline *checkout.Pipeline
	validate *validator.Validate
}

var webhookController *WebhookController

// InitializeWebhookController wires the webhook controller.
func InitializeWebhookController(cfg checkout.Config, pipeline *checkout.Pipeline) {
	webhookController = &WebhookController{
		cfg:      cfg,
		pipeline: pipeline,
		validate: validator.New(),
	}
}

// HandleCheckoutWebhook accepts provider events. Any pipeline outcome,
// including a deduplicated redelivery, answers 200 so the provider stops
// retrying; auth and validation failures get structured error codes.
func HandleCheckoutWebhook(c *fiber.Ctx) error {
	wc := webhookController

	var ev checkout.Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	if err := wc.validate.Struct(ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	// Exact string compare per provider contract; a mismatch never
	// reaches the pipeline.
	if wc.cfg.Secret == "" || ev.Secret != wc.cfg.Secret {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_secret"})
	}

	result, err := wc.pipeline.Process(c.UserContext(), ev)
	if err != nil {
		// Fail loud for operator visibility; the provider's delivery
		// retries plus the idempotency gate make this safe.
		log.Printf("webhook: processing failed event_id=%s type=%s: %v", checkout.EventIdentity(ev), ev.Event, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":        true,
		"duplicate": result.Duplicate,
	})
}
