package repository

import (
	"github.com/serenadigital/serena/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// ProductRepository defines the interface for product-related database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Update(product *models.Product) error
	List(offset, limit int) ([]models.Product, error)
	Count() (int64, error)
}

// PurchaseRepository defines the interface for purchase-related database operations
type PurchaseRepository interface {
	GetByID(id uint) (*models.Purchase, error)
	GetByUserID(userID uint) ([]models.Purchase, error)
	List(offset, limit int) ([]models.Purchase, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
}

// SupportTicketRepository defines the interface for support-ticket database operations
type SupportTicketRepository interface {
	Create(ticket *models.SupportTicket) error
	GetByUUID(uuid string) (*models.SupportTicket, error)
	GetByUserID(userID uint) ([]models.SupportTicket, error)
	AddMessage(message *models.SupportTicketMessage) error
	SetStatus(id uint, status string) error
	List(offset, limit int) ([]models.SupportTicket, error)
	Count() (int64, error)
}
