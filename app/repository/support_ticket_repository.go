package repository

import (
	"github.com/serenadigital/serena/app/models"
	"gorm.io/gorm"
)

// supportTicketRepository implements the SupportTicketRepository interface
type supportTicketRepository struct {
	db *gorm.DB
}

// NewSupportTicketRepository creates a new support ticket repository instance
func NewSupportTicketRepository(db *gorm.DB) SupportTicketRepository {
	return &supportTicketRepository{db: db}
}

func (r *supportTicketRepository) Create(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

func (r *supportTicketRepository) GetByUUID(uuid string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.Preload("Messages").Preload("User").Where("uuid = ?", uuid).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *supportTicketRepository) GetByUserID(userID uint) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (r *supportTicketRepository) AddMessage(message *models.SupportTicketMessage) error {
	return r.db.Create(message).Error
}

func (r *supportTicketRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.SupportTicket{}).Where("id = ?", id).Update("status", status).Error
}

func (r *supportTicketRepository) List(offset, limit int) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&tickets).Error
	return tickets, err
}

func (r *supportTicketRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.SupportTicket{}).Count(&count).Error
	return count, err
}
