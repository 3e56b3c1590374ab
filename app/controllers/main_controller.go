package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/serenadigital/serena/app/repository"
	"github.com/serenadigital/serena/internal/pkg/checkout"
)

// MainController renders the public storefront pages.
type MainController struct {
	cfg   checkout.Config
	repos *repository.Repositories
}

var mainController *MainController

// InitializeMainController wires the landing-page controller.
func InitializeMainController(cfg checkout.Config, repos *repository.Repositories) {
	mainController = &MainController{cfg: cfg, repos: repos}
}

// HandleLanding renders the primary product's landing page.
func HandleLanding(c *fiber.Ctx) error {
	mc := mainController

	product, err := mc.repos.Product.GetBySlug(mc.cfg.PrimaryProductSlug)
	if err != nil {
		// Storefront not bootstrapped yet; show the shell without offer.
		return c.Render("landing", fiber.Map{
			"Title": mc.cfg.PrimaryProductTitle,
			"Flash": flash.Get(c),
		})
	}

	return c.Render("landing", fiber.Map{
		"Title":   product.Title,
		"Product": product,
		"Flash":   flash.Get(c),
	})
}

// HandleProductLanding renders the landing page for any product slug.
func HandleProductLanding(c *fiber.Ctx) error {
	mc := mainController

	product, err := mc.repos.Product.GetBySlug(c.Params("slug"))
	if err != nil || !product.Active {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.Render("landing", fiber.Map{
		"Title":   product.Title,
		"Product": product,
		"Flash":   flash.Get(c),
	})
}
