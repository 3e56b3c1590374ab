package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/serenadigital/serena/app/models"
	"github.com/serenadigital/serena/app/repository"
)

// AdminController backs the read-mostly admin console: users, purchases,
// products and support tickets. Purchase status is never writable here;
// it moves only through provider webhook events.
type AdminController struct {
	repos *repository.Repositories
}

var adminController *AdminController

// InitializeAdminController wires the admin controller.
func InitializeAdminController(repos *repository.Repositories) {
	adminController = &AdminController{repos: repos}
}

func HandleAdminDashboard(c *fiber.Ctx) error {
	ac := adminController

	userCount, err := ac.repos.User.Count()
	if err != nil {
		return err
	}
	purchaseCount, err := ac.repos.Purchase.Count()
	if err != nil {
		return err
	}
	activeCount, err := ac.repos.Purchase.CountByStatus(models.PurchaseStatusActive)
	if err != nil {
		return err
	}
	refundedCount, err := ac.repos.Purchase.CountByStatus(models.PurchaseStatusRefunded)
	if err != nil {
		return err
	}
	ticketCount, err := ac.repos.SupportTicket.Count()
	if err != nil {
		return err
	}

	return c.Render("admin/dashboard", fiber.Map{
		"Title":         "Admin",
		"UserCount":     userCount,
		"PurchaseCount": purchaseCount,
		"ActiveCount":   activeCount,
		"RefundedCount": refundedCount,
		"TicketCount":   ticketCount,
		"Flash":         flash.Get(c),
	})
}

func HandleAdminUsers(c *fiber.Ctx) error {
	ac := adminController

	var (
		users []models.User
		err   error
	)
	if query := c.Query("q"); query != "" {
		users, err = ac.repos.User.Search(query)
	} else {
		offset, limit := pageParams(c)
		users, err = ac.repos.User.List(offset, limit)
	}
	if err != nil {
		return err
	}

	return c.Render("admin/users", fiber.Map{
		"Title": "Usuários",
		"Users": users,
		"Query": c.Query("q"),
		"Flash": flash.Get(c),
	})
}

func HandleAdminPurchases(c *fiber.Ctx) error {
	ac := adminController

	offset, limit := pageParams(c)
	purchases, err := ac.repos.Purchase.List(offset, limit)
	if err != nil {
		return err
	}

	return c.Render("admin/purchases", fiber.Map{
		"Title":     "Compras",
		"Purchases": purchases,
		"Flash":     flash.Get(c),
	})
}

func HandleAdminProducts(c *fiber.Ctx) error {
	ac := adminController

	offset, limit := pageParams(c)
	products, err := ac.repos.Product.List(offset, limit)
	if err != nil {
		return err
	}

	return c.Render("admin/products", fiber.Map{
		"Title":    "Produtos",
		"Products": products,
		"Flash":    flash.Get(c),
	})
}

func HandleAdminProductEdit(c *fiber.Ctx) error {
	ac := adminController

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	product, err := ac.repos.Product.GetByID(uint(id))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	if c.Method() == fiber.MethodPost {
		product.Title = c.FormValue("title", product.Title)
		product.Description = c.FormValue("description", product.Description)
		product.EbookPath = c.FormValue("ebook_path", product.EbookPath)
		product.CoverURL = c.FormValue("cover_url", product.CoverURL)
		product.Active = c.FormValue("active") == "on"

		if err := ac.repos.Product.Update(product); err != nil {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "Não foi possível salvar o produto.",
			}).Redirect("/admin/products")
		}
		return flash.WithSuccess(c, fiber.Map{
			"type":    "success",
			"message": "Produto salvo.",
		}).Redirect("/admin/products")
	}

	return c.Render("admin/product_edit", fiber.Map{
		"Title":   "Editar produto",
		"Product": product,
		"Flash":   flash.Get(c),
	})
}

func HandleAdminTickets(c *fiber.Ctx) error {
	ac := adminController

	offset, limit := pageParams(c)
	tickets, err := ac.repos.SupportTicket.List(offset, limit)
	if err != nil {
		return err
	}

	return c.Render("admin/tickets", fiber.Map{
		"Title":   "Chamados",
		"Tickets": tickets,
		"Flash":   flash.Get(c),
	})
}

func HandleAdminTicketClose(c *fiber.Ctx) error {
	ac := adminController

	ticket, err := ac.repos.SupportTicket.GetByUUID(c.Params("uuid"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err := ac.repos.SupportTicket.SetStatus(ticket.ID, models.TicketStatusClosed); err != nil {
		return err
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Chamado fechado.",
	}).Redirect("/admin/tickets")
}
