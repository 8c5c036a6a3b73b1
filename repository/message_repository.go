package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Send stores a new contact message as unread.
func (r *gormMessageRepository) Send(ctx context.Context, message *models.Message) error {
	if message.PostDateTime.IsZero() {
		message.PostDateTime = time.Now()
	}
	message.ClassificationID = models.ClassificationUnread
	message.Classification = nil
	return translate("create message", r.db.WithContext(ctx).Create(message).Error)
}

// All returns every message, newest first.
func (r *gormMessageRepository) All(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Order("message_id DESC").
		Find(&messages).Error
	return messages, translate("list messages", err)
}

func (r *gormMessageRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Count(&total).Error
	return total, translate("count messages", err)
}

func (r *gormMessageRepository) UnreadCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("classification_id = ?", models.ClassificationUnread).
		Count(&total).Error
	return total, translate("count unread messages", err)
}

// ByID loads a message with its classification.
func (r *gormMessageRepository) ByID(ctx context.Context, id int) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Where("message_id = ?", id).
		First(&message).Error
	if err != nil {
		return nil, translate("find message", err)
	}
	return &message, nil
}

func (r *gormMessageRepository) MarkAsRead(ctx context.Context, id int) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Message{}).
		Where("message_id = ?", id).
		Update("classification_id", models.ClassificationRead)
	return updated(db, "mark message read", res, &models.Message{}, "message_id", id)
}

func (r *gormMessageRepository) Delete(ctx context.Context, id int) error {
	tx := r.db.WithContext(ctx).Where("message_id = ?", id).Delete(&models.Message{})
	return affected("delete message", tx)
}

// Search matches names, email, phone and body, newest first.
func (r *gormMessageRepository) Search(ctx context.Context, criteria string) ([]models.Message, error) {
	like := likePattern(criteria)
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Where("first_name LIKE ? OR last_name LIKE ? OR CONCAT(first_name, ' ', last_name) LIKE ? OR email LIKE ? OR phone LIKE ? OR client_message LIKE ?",
			like, like, like, like, like, like).
		Order("message_id DESC").
		Find(&messages).Error
	return messages, translate("search messages", err)
}
