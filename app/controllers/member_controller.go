package controllers

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/serenadigital/serena/app/models"
	"github.com/serenadigital/serena/app/repository"
	"github.com/serenadigital/serena/internal/pkg/access"
	"github.com/serenadigital/serena/internal/pkg/usercontext"
	"github.com/serenadigital/serena/internal/pkg/watermark"
)

// MemberController serves the protected member area: content pages and
// the two ebook delivery routes (inline raw, personalized download).
type MemberController struct {
	guard *access.Guard
	repos *repository.Repositories
}

var memberController *MemberController

// InitializeMemberController wires the member controller.
func InitializeMemberController(guard *access.Guard, repos *repository.Repositories) {
	memberController = &MemberController{guard: guard, repos: repos}
}

// HandleMemberHome lists the member's purchases and open tickets.
func HandleMemberHome(c *fiber.Ctx) error {
	mc := memberController
	userCtx := usercontext.GetUserContext(c)

	purchases, err := mc.repos.Purchase.GetByUserID(userCtx.UserID)
	if err != nil {
		return err
	}
	tickets, err := mc.repos.SupportTicket.GetByUserID(userCtx.UserID)
	if err != nil {
		return err
	}

	return c.Render("member/home", fiber.Map{
		"Title":     "Área de membros",
		"Username":  userCtx.Username,
		"Purchases": purchases,
		"Tickets":   tickets,
		"Flash":     flash.Get(c),
	})
}

// HandleMemberProduct shows one product's member page after the guard
// confirms an ACTIVE purchase.
func HandleMemberProduct(c *fiber.Ctx) error {
	mc := memberController
	userCtx := usercontext.GetUserContext(c)
	slug := c.Params("slug")

	grant, err := mc.guard.Check(userCtx.UserID, slug)
	if err != nil {
		return err
	}
	if grant == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	product, err := mc.repos.Product.GetByID(grant.ProductID)
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.Render("member/product", fiber.Map{
		"Title":   product.Title,
		"Product": product,
		"Flash":   flash.Get(c),
	})
}

// HandleEbookView streams the raw PDF for inline reading. Guard failures
// and unreadable source files collapse into the same 404: an
// unauthorized caller learns nothing about why.
func HandleEbookView(c *fiber.Ctx) error {
	mc := memberController
	userCtx := usercontext.GetUserContext(c)
	slug := c.Params("slug")

	grant, err := mc.guard.Check(userCtx.UserID, slug)
	if err != nil || grant == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	data, err := os.ReadFile(grant.EbookPath)
	if err != nil {
		log.Printf("member: ebook source unreadable slug=%s: %v", slug, err)
		return c.SendStatus(fiber.StatusNotFound)
	}

	setNoStoreHeaders(c)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, slug))
	return c.Send(data)
}

// HandleEbookDownload streams the personalized, watermarked PDF as an
// attachment. Runs per request; output is unique per generation instant
// and must never be cached.
func HandleEbookDownload(c *fiber.Ctx) error {
	mc := memberController
	userCtx := usercontext.GetUserContext(c)
	slug := c.Params("slug")

	grant, err := mc.guard.Check(userCtx.UserID, slug)
	if err != nil || grant == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	data, err := os.ReadFile(grant.EbookPath)
	if err != nil {
		log.Printf("member: ebook source unreadable slug=%s: %v", slug, err)
		return c.SendStatus(fiber.StatusNotFound)
	}

	personalized, err := watermark.Personalize(data, watermark.Identity{
		UserID:      grant.UserID,
		Email:       grant.Email,
		ProductSlug: grant.ProductSlug,
	}, time.Now())
	if err != nil {
		log.Printf("member: personalization failed slug=%s user_id=%d: %v", slug, grant.UserID, err)
		return c.SendStatus(fiber.StatusNotFound)
	}

	setNoStoreHeaders(c)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, slug))
	return c.Send(personalized)
}

// HandleSupportTicketCreate opens a support ticket from the member area.
func HandleSupportTicketCreate(c *fiber.Ctx) error {
	mc := memberController
	userCtx := usercontext.GetUserContext(c)

	subject := c.FormValue("subject")
	body := c.FormValue("body")
	if subject == "" || body == "" {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Preencha o assunto e a mensagem.",
		}).Redirect("/membros")
	}

	ticket := &models.SupportTicket{
		UserID:  userCtx.UserID,
		Subject: subject,
		Status:  models.TicketStatusOpen,
	}
	if err := mc.repos.SupportTicket.Create(ticket); err != nil {
		return err
	}
	if err := mc.repos.SupportTicket.AddMessage(&models.SupportTicketMessage{
		TicketID: ticket.ID,
		Body:     body,
	}); err != nil {
		return err
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Chamado %s aberto. Responderemos por e-mail.", ticket.UUID),
	}).Redirect("/membros")
}

func setNoStoreHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}
