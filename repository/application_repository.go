package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &gormApplicationRepository{db: db}
}

// Send stores the application as unread together with its CV.
func (r *gormApplicationRepository) Send(ctx context.Context, application *models.Application) error {
	if application.PostDateTime.IsZero() {
		application.PostDateTime = time.Now()
	}
	application.ClassificationID = models.ClassificationUnread
	application.Classification = nil
	application.Job = nil
	return translate("create application", r.db.WithContext(ctx).Create(application).Error)
}

// All lists applications newest first, without CV content.
func (r *gormApplicationRepository) All(ctx context.Context) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Preload("Job").
		Order("application_id DESC").
		Find(&applications).Error
	return applications, translate("list applications", err)
}

func (r *gormApplicationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&total).Error
	return total, translate("count applications", err)
}

func (r *gormApplicationRepository) UnreadCount(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("classification_id = ?", models.ClassificationUnread).
		Count(&total).Error
	return total, translate("count unread applications", err)
}

func (r *gormApplicationRepository) ByID(ctx context.Context, id int) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Preload("Job").
		Preload("CV", func(db *gorm.DB) *gorm.DB {
			return db.Select("cv_id", "application_id", "file_name", "content_type")
		}).
		Where("application_id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, translate("find application", err)
	}
	return &application, nil
}

// CV loads the resume file of an application.
func (r *gormApplicationRepository) CV(ctx context.Context, applicationID int) (*models.CV, error) {
	var cv models.CV
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&cv).Error
	if err != nil {
		return nil, translate("find cv", err)
	}
	return &cv, nil
}

func (r *gormApplicationRepository) MarkAsRead(ctx context.Context, id int) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Application{}).
		Where("application_id = ?", id).
		Update("classification_id", models.ClassificationRead)
	return updated(db, "mark application read", res, &models.Application{}, "application_id", id)
}

func (r *gormApplicationRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&models.CV{}).Error; err != nil {
			return translate("delete cv", err)
		}
		return affected("delete application", tx.Where("application_id = ?", id).Delete(&models.Application{}))
	})
}

func (r *gormApplicationRepository) Search(ctx context.Context, criteria string) ([]models.Application, error) {
	like := likePattern(criteria)
	var applications []models.Application
	err := r.db.WithContext(ctx).
		Preload("Classification").
		Preload("Job").
		Where("first_name LIKE ? OR last_name LIKE ? OR CONCAT(first_name, ' ', last_name) LIKE ? OR email LIKE ? OR phone LIKE ? OR cover_letter LIKE ?",
			like, like, like, like, like, like).
		Order("application_id DESC").
		Find(&applications).Error
	return applications, translate("search applications", err)
}
