package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: db}
}

// pictureMeta loads gallery rows without the image bytes.
func pictureMeta(db *gorm.DB) *gorm.DB {
	return db.Select("picture_id", "project_id", "image_name", "content_type", "extension").Order("picture_id ASC")
}

// Latest returns the most recent project, or ErrNotFound when none exist.
func (r *gormProjectRepository) Latest(ctx context.Context) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Pictures", pictureMeta).
		Order("project_id DESC").
		First(&project).Error
	if err != nil {
		return nil, translate("latest project", err)
	}
	return &project, nil
}

// Page returns one page of projects in descending order.
func (r *gormProjectRepository) Page(ctx context.Context, page, size int) ([]models.Project, error) {
	if page < 1 {
		page = 1
	}
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Preload("Pictures", pictureMeta).
		Order("project_id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&projects).Error
	return projects, translate("page projects", err)
}

func (r *gormProjectRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error
	return total, translate("count projects", err)
}

func (r *gormProjectRepository) WithPictures(ctx context.Context, id int) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Pictures", pictureMeta).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translate("find project", err)
	}
	return &project, nil
}

// Picture loads one image including its bytes.
func (r *gormProjectRepository) Picture(ctx context.Context, id int) (*models.Picture, error) {
	var picture models.Picture
	if err := r.db.WithContext(ctx).Where("picture_id = ?", id).First(&picture).Error; err != nil {
		return nil, translate("find picture", err)
	}
	return &picture, nil
}

func (r *gormProjectRepository) Search(ctx context.Context, criteria string) ([]models.Project, error) {
	like := likePattern(criteria)
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Preload("Pictures", pictureMeta).
		Where("title LIKE ? OR description LIKE ?", like, like).
		Order("project_id DESC").
		Find(&projects).Error
	return projects, translate("search projects", err)
}

// Add stores the project and its gallery.
func (r *gormProjectRepository) Add(ctx context.Context, project *models.Project) error {
	if project.PostDateTime.IsZero() {
		project.PostDateTime = time.Now()
	}
	return translate("create project", r.db.WithContext(ctx).Create(project).Error)
}

func (r *gormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("project_id = ?", project.ProjectID).
			Updates(map[string]interface{}{
				"title":       project.Title,
				"description": project.Description,
			})
		if err := updated(tx, "update project", res, &models.Project{}, "project_id", project.ProjectID); err != nil {
			return err
		}
		if len(project.Pictures) == 0 {
			return nil
		}
		if err := deletePictures(tx, project.ProjectID); err != nil {
			return err
		}
		for i := range project.Pictures {
			project.Pictures[i].ProjectID = project.ProjectID
		}
		return translate("create pictures", tx.Create(&project.Pictures).Error)
	})
}

func deletePictures(db *gorm.DB, projectID int) error {
	return translate("delete pictures", db.Where("project_id = ?", projectID).Delete(&models.Picture{}).Error)
}

func (r *gormProjectRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePictures(tx, id); err != nil {
			return err
		}
		return affected("delete project", tx.Where("project_id = ?", id).Delete(&models.Project{}))
	})
}
