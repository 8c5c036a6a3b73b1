package repository

import (
	"context"
	"time"

	"imex-website/models"

	"gorm.io/gorm"
)

type gormJobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &gormJobRepository{db: db}
}

// List returns open positions, newest first.
func (r *gormJobRepository) List(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).Order("job_id DESC").Find(&jobs).Error
	return jobs, translate("list jobs", err)
}

func (r *gormJobRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).Count(&total).Error
	return total, translate("count jobs", err)
}

func (r *gormJobRepository) ByID(ctx context.Context, id int) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).Where("job_id = ?", id).First(&job).Error; err != nil {
		return nil, translate("find job", err)
	}
	return &job, nil
}

func (r *gormJobRepository) Add(ctx context.Context, job *models.Job) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	return translate("create job", r.db.WithContext(ctx).Create(job).Error)
}

// Edit updates name and description of an existing job.
func (r *gormJobRepository) Edit(ctx context.Context, job *models.Job) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Job{}).
		Where("job_id = ?", job.JobID).
		Updates(map[string]interface{}{
			"job_name":    job.JobName,
			"description": job.Description,
		})
	return updated(db, "update job", res, &models.Job{}, "job_id", job.JobID)
}

// Delete removes the job; applications keep their data with no job reference.
func (r *gormJobRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).Where("job_id = ?", id).Update("job_id", nil).Error; err != nil {
			return translate("detach applications", err)
		}
		return affected("delete job", tx.Where("job_id = ?", id).Delete(&models.Job{}))
	})
}
